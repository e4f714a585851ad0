// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fillmore-labs.com/latin1tou/internal/report"
)

const source = `#include <QtCore/QString>

void test()
{
    QString s = QLatin1String("x");
    QString t = QLatin1String("abc", 2);
}
`

// setup writes source into a fresh directory.
func setup(t *testing.T) (dir, file string) {
	t.Helper()

	dir = t.TempDir()
	file = filepath.Join(dir, "a.cpp")

	if err := os.WriteFile(file, []byte(source), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`QLatin1String("x")`), 0o600); err != nil {
		t.Fatal(err)
	}

	return dir, file
}

func runMain(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut strings.Builder

	code = execute(t.Context(), args, &out, &errOut)

	return code, out.String(), errOut.String()
}

// The tests are not parallel, execute installs the default logger.

func TestExecuteFindings(t *testing.T) {
	dir, file := setup(t)

	code, stdout, _ := runMain(t, "--color=off", dir)
	if code != exitFindings {
		t.Errorf("exit code = %d, want %d", code, exitFindings)
	}

	for _, want := range []string{
		file + ":5:17: warning: QLatin1String(const char *) ctor being called [-Wclazy-qt6-qlatin1string-to-u]",
		"                ^~~~~~~~~~~~~\n",
		"                u\n",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output does not contain %q:\n%s", want, stdout)
		}
	}

	if n := strings.Count(stdout, "warning:"); n != 1 {
		t.Errorf("got %d warnings, want 1", n)
	}
}

func TestExecuteFix(t *testing.T) {
	dir, file := setup(t)

	if code, stdout, stderr := runMain(t, "--fix", dir); code != exitOK {
		t.Fatalf("exit code = %d, want %d\n%s%s", code, exitOK, stdout, stderr)
	}

	fixed, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}

	if want := strings.Replace(source, `QLatin1String("x")`, `u("x")`, 1); string(fixed) != want {
		t.Errorf("fixed file:\n%s\nwant:\n%s", fixed, want)
	}

	if code, _, _ := runMain(t, file); code != exitOK {
		t.Errorf("exit code after fix = %d, want %d", code, exitOK)
	}
}

func TestExecuteDiff(t *testing.T) {
	_, file := setup(t)

	code, stdout, _ := runMain(t, "--diff", file)
	if code != exitFindings {
		t.Errorf("exit code = %d, want %d", code, exitFindings)
	}

	for _, want := range []string{
		"--- a/" + strings.TrimPrefix(filepath.ToSlash(file), "/"),
		"-    QString s = QLatin1String(\"x\");\n+    QString s = u(\"x\");\n",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("diff does not contain %q:\n%s", want, stdout)
		}
	}

	if src, _ := os.ReadFile(file); string(src) != source {
		t.Error("--diff modified the file")
	}
}

func TestExecuteJSON(t *testing.T) {
	_, file := setup(t)

	code, stdout, _ := runMain(t, "--format=json", "--jobs=2", file, file)
	if code != exitFindings {
		t.Errorf("exit code = %d, want %d", code, exitFindings)
	}

	var out report.DiagnosticsOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("Can't decode output: %v\n%s", err, stdout)
	}

	if out.Count != 2 {
		t.Fatalf("got %d diagnostics, want 2", out.Count)
	}

	if d := out.Diagnostics[0]; d.Location.Line != 5 || len(d.Edits) != 1 || d.Edits[0].OldText != "QLatin1String" {
		t.Errorf("got diagnostic %+v", d)
	}
}

func TestExecuteSkips(t *testing.T) {
	dir, _ := setup(t)

	if code, _, _ := runMain(t, "--qt-major=5", dir); code != exitOK {
		t.Errorf("exit code = %d, want %d", code, exitOK)
	}
}

func TestExecuteErrors(t *testing.T) {
	dir, file := setup(t)

	tests := []struct {
		name string
		args []string
	}{
		{"No arguments", nil},
		{"Missing file", []string{filepath.Join(dir, "missing.cpp")}},
		{"Format", []string{"--format=xml", file}},
		{"Color", []string{"--color=sometimes", file}},
		{"Fix and diff", []string{"--fix", "--diff", file}},
		{"No sources", []string{t.TempDir()}},
		{"Too large", []string{"--max-file-size=10", file}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runMain(t, tt.args...); code != exitError {
				t.Errorf("exit code = %d, want %d", code, exitError)
			}
		})
	}
}

func TestConfigCmd(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "latin1tou.yaml")

	if err := os.WriteFile(cfg, []byte("qt-major: 5\nignore-includes: true\nformat: json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := runMain(t, "config", "--config", cfg, "--format=text")
	if code != exitOK {
		t.Fatalf("exit code = %d, want %d\n%s", code, exitOK, stderr)
	}

	for _, want := range []string{"# " + cfg, "qt-major: 5\n", "ignore-includes: true\n", "format: text\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("configuration does not contain %q:\n%s", want, stdout)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	code, stdout, _ := runMain(t, "version", "--color=off")
	if code != exitOK {
		t.Fatalf("exit code = %d, want %d", code, exitOK)
	}

	if !strings.HasPrefix(stdout, "latin1tou ") {
		t.Errorf("version output = %q", stdout)
	}
}
