/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns an unrecovered panic into a report file and a pose snapshot
// so a placement in progress can be restored with "compose -pose".
package crash

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	applog "fairhat/internal/log"
	"fairhat/internal/version"
)

// Swapped by tests.
var (
	exitFn           = os.Exit
	stderr io.Writer = os.Stderr
	now              = time.Now
)

// Report describes what was being worked on when the panic happened. All fields are optional.
type Report struct {
	Dir       string // report directory; os.TempDir() when empty
	SessionID string
	Photo     string
	// Pose returns the current pose document. It is written next to the report.
	Pose func() ([]byte, error)
}

// Recover must be deferred directly:
//
//	defer crash.Recover(rep)
//
// On panic it logs the stack, writes crash-<stamp>.log (and crash-<stamp>.pose.json
// when rep has a pose provider), tells the user where they are and exits with 2.
func Recover(rep *Report) {
	r := recover()
	if r == nil {
		return
	}
	stack := debug.Stack()
	l := applog.WithComponent("crash")
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(rep, r, stack)
	if err != nil {
		l.Error("crash report not written", slog.String("path", reportPath), slog.Any("err", err))
	}
	var posePath string
	if rep != nil && rep.Pose != nil {
		if posePath, err = writePoseSnapshot(rep, reportPath); err != nil {
			l.Error("pose snapshot failed", slog.Any("err", err))
			posePath = ""
		}
	}
	_, _ = fmt.Fprint(stderr, userMessage(rep, reportPath, posePath))
	_ = applog.Close()
	exitFn(2)
}

func userMessage(rep *Report, reportPath, posePath string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fair Hat stopped unexpectedly (%s, %s/%s).\n", version.String(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "Crash report: %s\n", reportPath)
	if posePath != "" {
		fmt.Fprintf(&b, "Hat placement saved to: %s\n", posePath)
		if rep.Photo != "" {
			fmt.Fprintf(&b, "Resume with: fairhat compose -photo %q -pose %q\n", rep.Photo, posePath)
		}
	}
	return b.String()
}

func reportDir(rep *Report) string {
	if rep != nil && rep.Dir != "" {
		_ = os.MkdirAll(rep.Dir, 0o755)
		return rep.Dir
	}
	return os.TempDir()
}

func writeReport(rep *Report, panicVal any, stack []byte) (string, error) {
	t := now()
	path := filepath.Join(reportDir(rep), "crash-"+t.Format("20060102-150405")+".log")

	var b strings.Builder
	b.WriteString("Fair Hat Crash Report\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", t.Format(time.RFC3339))
	fmt.Fprintf(&b, "Version: %s\n", version.String())
	fmt.Fprintf(&b, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if rep != nil && rep.SessionID != "" {
		fmt.Fprintf(&b, "Session: %s\n", rep.SessionID)
	}
	if rep != nil && rep.Photo != "" {
		fmt.Fprintf(&b, "Photo: %s\n", rep.Photo)
	}
	fmt.Fprintf(&b, "\nPanic: %v\n\nStack:\n%s\n", panicVal, stack)

	return path, os.WriteFile(path, []byte(b.String()), 0o644)
}

// writePoseSnapshot stores the pose as <report>.pose.json.
func writePoseSnapshot(rep *Report, reportPath string) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pose provider panicked: %v", r)
		}
	}()
	data, err := rep.Pose()
	if err != nil {
		return "", err
	}
	path = strings.TrimSuffix(reportPath, filepath.Ext(reportPath)) + ".pose.json"
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
