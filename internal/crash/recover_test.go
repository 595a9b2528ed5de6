/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecoverWritesReportAndPose(t *testing.T) {
	var out bytes.Buffer
	code := 0
	oldExit, oldStderr, oldNow := exitFn, stderr, now
	exitFn = func(c int) { code = c }
	stderr = &out
	now = func() time.Time { return time.Date(2025, 7, 1, 12, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { exitFn, stderr, now = oldExit, oldStderr, oldNow })

	dir := t.TempDir()
	rep := &Report{Dir: dir, Photo: "party.jpg", Pose: func() ([]byte, error) { return []byte(`{"scale":2}`), nil }}

	func() {
		defer Recover(rep)
		panic("boom")
	}()

	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	report := filepath.Join(dir, "crash-20250701-123000.log")
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) {
		t.Fatalf("report does not contain panic: %s", b)
	}
	snapshot := filepath.Join(dir, "crash-20250701-123000.pose.json")
	if p, _ := os.ReadFile(snapshot); string(p) != `{"scale":2}` {
		t.Fatalf("snapshot = %q", p)
	}
	msg := out.String()
	if !strings.Contains(msg, report) || !strings.Contains(msg, "Resume with: fairhat compose") {
		t.Fatalf("user message = %q", msg)
	}
}

func TestRecoverWithoutPanicDoesNothing(t *testing.T) {
	oldExit := exitFn
	exitFn = func(int) { t.Fatalf("exit called without a panic") }
	t.Cleanup(func() { exitFn = oldExit })

	func() {
		defer Recover(nil)
	}()
}
