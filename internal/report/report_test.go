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

package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"go/token"
	"strings"
	"testing"

	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/latin1tou/internal/cxx"
	. "fillmore-labs.com/latin1tou/internal/report"
	"fillmore-labs.com/latin1tou/internal/testsource"
)

const (
	src     = "void f() { QString s = QLatin1String(\"x\"); }\n"
	message = "QLatin1String(const char *) ctor being called"
)

// setup returns the file of src with a diagnostic for the constructor call.
func setup(t *testing.T) (*token.File, *cxx.Lexer, Diagnostic) {
	t.Helper()

	_, u := testsource.ParseFile(t, src)

	start := u.File.Pos(strings.Index(src, "QLatin1String"))
	d := Diagnostic{
		Pos:     start,
		Message: message,
		Edits:   []FixEdit{{Start: start, End: start + token.Pos(len("QLatin1String")-1), NewText: "u"}},
	}

	return u.File, u.Lexer(), d
}

func TestCollector(t *testing.T) {
	t.Parallel()

	var c Collector

	c.EmitDiagnostic(20, "second", []FixEdit{{Start: 20, End: 21, NewText: "u"}})
	c.EmitManualFixNeeded(10)
	c.EmitDiagnostic(10, "duplicate", nil)
	c.EmitManualFixNeeded(20)

	if got := c.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	diagnostics := c.Diagnostics()

	if d := diagnostics[0]; d.Pos != 10 || !d.Manual || d.Message != ManualFixMessage {
		t.Errorf("first diagnostic = %+v, want manual fix at 10", d)
	}

	if d := diagnostics[1]; d.Pos != 20 || d.Manual || d.Message != "second" || len(d.Edits) != 1 {
		t.Errorf("second diagnostic = %+v, want edit at 20", d)
	}
}

func TestToAnalysis(t *testing.T) {
	t.Parallel()

	file, lexer, d := setup(t)

	got := ToAnalysis(lexer, d)

	if got.Category != CheckName || got.Message != message {
		t.Errorf("got category %q, message %q", got.Category, got.Message)
	}

	if len(got.SuggestedFixes) != 1 || len(got.SuggestedFixes[0].TextEdits) != 1 {
		t.Fatalf("got %d suggested fixes, want 1", len(got.SuggestedFixes))
	}

	e := got.SuggestedFixes[0].TextEdits[0]
	if old := src[file.Offset(e.Pos):file.Offset(e.End)]; old != "QLatin1String" {
		t.Errorf("edit replaces %q, want %q", old, "QLatin1String")
	}

	if got.End != e.End {
		t.Errorf("diagnostic end = %d, want %d", got.End, e.End)
	}

	d.Edits[0].End = token.Pos(file.Base() + len(src) + 10)
	if manual := ToAnalysis(lexer, d); len(manual.SuggestedFixes) > 0 {
		t.Error("got a suggested fix for an unmeasurable edit")
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	file, lexer, d := setup(t)

	edits, ok := TextEdits(lexer, d.Edits)
	if !ok {
		t.Fatal("Can't convert edits")
	}

	fixed, err := Apply(file, []byte(src), append(edits, edits...))
	if err != nil {
		t.Fatalf("Apply() = %v", err)
	}

	if got, want := string(fixed), "void f() { QString s = u(\"x\"); }\n"; got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}

	overlap := analysis.TextEdit{Pos: edits[0].Pos + 1, End: edits[0].End, NewText: []byte("v")}
	if _, err := Apply(file, []byte(src), append(edits, overlap)); !errors.Is(err, ErrOverlap) {
		t.Errorf("Apply() = %v, want %v", err, ErrOverlap)
	}

	outside := analysis.TextEdit{Pos: edits[0].Pos, End: token.Pos(file.Base() + len(src) + 1)}
	if _, err := Apply(file, []byte(src), []analysis.TextEdit{outside}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Apply() = %v, want %v", err, ErrOutOfRange)
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	out, err := Diff("x.cpp", []byte("a\nb\nc\n"), []byte("a\nB\nc\n"))
	if err != nil {
		t.Fatalf("Diff() = %v", err)
	}

	for _, want := range []string{"--- a/x.cpp", "+++ b/x.cpp", "@@ -1,3 +1,3 @@", "-b\n+B\n"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("diff does not contain %q:\n%s", want, out)
		}
	}

	if out, _ := Diff("x.cpp", []byte("same\n"), []byte("same\n")); out != nil {
		t.Errorf("Diff() of equal files = %q, want nil", out)
	}
}

func TestDiffNoNewline(t *testing.T) {
	t.Parallel()

	const noNewline = "\\ No newline at end of file\n"

	tests := []struct {
		name        string
		orig, fixed string
		want        string
	}{
		{"Old", "a\nb", "a\nB\n", " a\n-b\n" + noNewline + "+B\n"},
		{"New", "a\nb\n", "a\nB", " a\n-b\n+B\n" + noNewline},
		{"Both", "a\nb", "a\nB", " a\n-b\n" + noNewline + "+B\n" + noNewline},
		{"Context", "a\nb", "A\nb", "-a\n+A\n b\n" + noNewline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Diff("x.cpp", []byte(tt.orig), []byte(tt.fixed))
			if err != nil {
				t.Fatalf("Diff() = %v", err)
			}

			if _, body, ok := bytes.Cut(out, []byte("@@\n")); !ok || string(body) != tt.want {
				t.Errorf("hunk body = %q, want %q", body, tt.want)
			}
		})
	}
}

func TestPrinterText(t *testing.T) {
	t.Parallel()

	file, lexer, d := setup(t)

	var buf strings.Builder

	p := NewPrinter(&buf, FormatText, false)
	if err := p.Print(file, []byte(src), lexer, []Diagnostic{d}); err != nil {
		t.Fatalf("Print() = %v", err)
	}

	indent := strings.Repeat(" ", strings.Index(src, "QLatin1String"))
	want := "test.cpp:1:24: warning: " + message + " [-Wclazy-qt6-qlatin1string-to-u]\n" +
		strings.TrimSuffix(src, "\n") + "\n" +
		indent + "^" + strings.Repeat("~", len("QLatin1String")-1) + "\n" +
		indent + "u\n"

	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	if got := p.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
}

func TestPrinterJSON(t *testing.T) {
	t.Parallel()

	file, lexer, d := setup(t)

	var buf bytes.Buffer

	p := NewPrinter(&buf, FormatJSON, false)
	if err := p.Print(file, []byte(src), lexer, []Diagnostic{d, {Pos: d.Pos + 1, Message: ManualFixMessage, Manual: true}}); err != nil {
		t.Fatalf("Print() = %v", err)
	}

	if err := p.Flush(); err != nil {
		t.Fatalf("Flush() = %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Can't decode output: %v", err)
	}

	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2", out.Count)
	}

	dj := out.Diagnostics[0]
	if dj.Check != CheckName || dj.Location.Line != 1 || dj.Location.Column != 24 {
		t.Errorf("got diagnostic %+v", dj)
	}

	if len(dj.Edits) != 1 || dj.Edits[0].OldText != "QLatin1String" || dj.Edits[0].NewText != "u" {
		t.Errorf("got edits %+v", dj.Edits)
	}

	if manual := out.Diagnostics[1]; !manual.Manual || len(manual.Edits) > 0 {
		t.Errorf("got manual diagnostic %+v", manual)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %q, %v", f, err)
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) succeeded")
	}
}
