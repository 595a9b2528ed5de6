/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lastJSONLine(t *testing.T, path string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(b))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	return m
}

func TestFileSinkWritesJSONWithSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fairhat.log")
	var console bytes.Buffer
	l, closer := Build(Options{Level: "debug", File: path, Console: &console})
	if closer == nil {
		t.Fatalf("expected a closer for the file sink")
	}
	ctx := ContextWithSession(context.Background(), "sess-42")
	WithOperation(l.With(slog.String("component", "session")), "export").InfoContext(ctx, "composite exported", slog.Int("bytes", 12))
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	m := lastJSONLine(t, path)
	if m["app"] != "fairhat" || m["component"] != "session" || m["op"] != "export" || m["session"] != "sess-42" {
		t.Fatalf("file record = %v", m)
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr: %v", m)
	}
	line := console.String()
	if !strings.Contains(line, "INF [session] composite exported") || !strings.Contains(line, "session=sess-42") {
		t.Fatalf("console line = %q", line)
	}
	if strings.Contains(line, "app=") {
		t.Fatalf("console should drop static attrs: %q", line)
	}
}

func TestBuildWithoutFileHasNoCloser(t *testing.T) {
	if _, c := Build(Options{Console: &bytes.Buffer{}}); c != nil {
		t.Fatalf("unexpected closer %v", c)
	}
}

func TestJSONConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l, _ := Build(Options{Format: "JSON", Console: &buf})
	l.Warn("overlay missing", slog.String("path", "/tmp/x.png"))
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("json console output: %v (%q)", err, buf.String())
	}
	if m["level"] != "WARN" || m["path"] != "/tmp/x.png" {
		t.Fatalf("record = %v", m)
	}
}

func TestInitReplacesDefault(t *testing.T) {
	dir := t.TempDir()
	Init(Options{Level: "error", File: filepath.Join(dir, "a.log"), Console: &bytes.Buffer{}})
	Init(Options{Level: "info", File: filepath.Join(dir, "b.log"), Console: &bytes.Buffer{}})
	t.Cleanup(func() { _ = Close() })

	WithComponent("cli").Info("ready")
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if m := lastJSONLine(t, filepath.Join(dir, "b.log")); m["component"] != "cli" {
		t.Fatalf("record = %v", m)
	}
	if err := Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if !slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("slog.Default not replaced")
	}
}

func TestSessionFromContextEmpty(t *testing.T) {
	if _, ok := SessionFromContext(context.Background()); ok {
		t.Fatalf("expected no session id on bare context")
	}
	if _, ok := SessionFromContext(ContextWithSession(context.Background(), "")); ok {
		t.Fatalf("empty session id must not be reported")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvSource, "TRUE")
	t.Setenv(EnvFile, "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConsoleHandlerFormatting(t *testing.T) {
	var buf bytes.Buffer
	l, _ := Build(Options{Level: "warn", AddSource: true, Console: &buf})

	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info written at warn level: %q", buf.String())
	}

	g := l.With(slog.String("component", "compositor")).WithGroup("geom")
	g.Error("resolve failed",
		slog.Float64("scale", 2.5),
		slog.Bool("ok", false),
		slog.Duration("took", 1500*time.Millisecond),
		slog.Group("box", slog.Int("w", 800), slog.Int("h", 600)),
		slog.Any("err", errors.New("zero width")),
		slog.String("name", "my photo.png"),
	)

	out := buf.String()
	for _, want := range []string{
		"ERR [compositor] resolve failed",
		"geom.scale=2.5",
		"geom.ok=false",
		"geom.took=1.5s",
		"geom.box.w=800",
		"geom.box.h=600",
		`geom.err="zero width"`,
		`geom.name="my photo.png"`,
		"src=",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %q", want, out)
		}
	}
}

func TestLevelTag(t *testing.T) {
	cases := map[slog.Level]string{
		slog.LevelDebug - 4: "DBG",
		slog.LevelInfo:      "INF",
		slog.LevelWarn + 1:  "WRN",
		slog.LevelError + 4: "ERR",
	}
	for lvl, want := range cases {
		if got := levelTag(lvl); got != want {
			t.Fatalf("levelTag(%v) = %s, want %s", lvl, got, want)
		}
	}
}
