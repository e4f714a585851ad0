// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
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

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/token"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Format is an output format of the [Printer].
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil

	default:
		return "", fmt.Errorf("unknown output format %q (want %s or %s)", s, FormatText, FormatJSON)
	}
}

// Printer writes diagnostics of multiple files. It is safe for concurrent use.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	format Format
	count  int
	json   []DiagnosticJSON

	location, warning, message, caret, fixit *color.Color
}

// NewPrinter creates a [Printer] writing to w. Colors are only used for text output.
func NewPrinter(w io.Writer, format Format, colored bool) *Printer {
	p := &Printer{
		w:        w,
		format:   format,
		location: color.New(color.Bold),
		warning:  color.New(color.FgMagenta, color.Bold),
		message:  color.New(color.Bold),
		caret:    color.New(color.FgGreen, color.Bold),
		fixit:    color.New(color.FgGreen),
	}

	for _, c := range []*color.Color{p.location, p.warning, p.message, p.caret, p.fixit} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// Count returns the number of diagnostics printed so far.
func (p *Printer) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.count
}

// Print writes the diagnostics of one file with content src.
// JSON output is buffered until [Printer.Flush].
func (p *Printer) Print(file *token.File, src []byte, m Measurer, diagnostics []Diagnostic) error {
	if len(diagnostics) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.count += len(diagnostics)

	if p.format == FormatJSON {
		for _, d := range diagnostics {
			p.json = append(p.json, toJSON(file, src, m, d))
		}

		return nil
	}

	var buf bytes.Buffer
	for _, d := range diagnostics {
		p.text(&buf, file, src, m, d)
	}

	if _, err := p.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("can't write diagnostics: %w", err)
	}

	return nil
}

// Flush writes buffered output.
func (p *Printer) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.format != FormatJSON {
		return nil
	}

	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")

	diagnostics := p.json
	if diagnostics == nil {
		diagnostics = []DiagnosticJSON{}
	}

	if err := enc.Encode(DiagnosticsOutput{Diagnostics: diagnostics, Count: len(diagnostics)}); err != nil {
		return fmt.Errorf("can't encode diagnostics: %w", err)
	}

	p.json = nil

	return nil
}

// text writes a clang-style diagnostic:
//
//	file:line:col: warning: message [-Wclazy-check]
//	    source line
//	    ^
//	    fix-it
func (p *Printer) text(buf *bytes.Buffer, file *token.File, src []byte, m Measurer, d Diagnostic) {
	pos := file.Position(d.Pos)

	fmt.Fprintf(buf, "%s %s %s [-Wclazy-%s]\n",
		p.location.Sprintf("%s:%d:%d:", pos.Filename, pos.Line, pos.Column),
		p.warning.Sprint("warning:"),
		p.message.Sprint(d.Message),
		CheckName) // ignore error

	line, ok := sourceLine(file, src, pos.Line)
	if !ok {
		return
	}

	buf.WriteString(line) // ignore error
	buf.WriteByte('\n')   // ignore error

	indent := indentation(line, pos.Column-1)

	width := 1
	if edits, ok := TextEdits(m, d.Edits); ok && len(edits) > 0 {
		width = max(1, int(edits[0].End-edits[0].Pos))
	}

	caret := p.caret.Sprint("^" + strings.Repeat("~", width-1))

	buf.WriteString(indent) // ignore error
	buf.WriteString(caret)  // ignore error
	buf.WriteByte('\n')     // ignore error

	for _, e := range d.Edits {
		buf.WriteString(indent)                    // ignore error
		buf.WriteString(p.fixit.Sprint(e.NewText)) // ignore error
		buf.WriteByte('\n')                        // ignore error
	}
}

// sourceLine returns the one-based line of src without its terminator.
func sourceLine(file *token.File, src []byte, line int) (string, bool) {
	if line < 1 || line > file.LineCount() {
		return "", false
	}

	start := file.Offset(file.LineStart(line))
	if start > len(src) {
		return "", false
	}

	text := src[start:]
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}

	return strings.TrimSuffix(string(text), "\r"), true
}

// indentation returns whitespace reaching column col of line, keeping tabs.
func indentation(line string, col int) string {
	col = min(max(col, 0), len(line))

	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}

		return ' '
	}, line[:col])
}

// LocationJSON is a source location in JSON output.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
}

// FixEditJSON is a single replacement in JSON output.
type FixEditJSON struct {
	Location LocationJSON `json:"location"`
	NewText  string       `json:"new_text"`
	OldText  string       `json:"old_text,omitempty"`
}

// DiagnosticJSON is a diagnostic in JSON output.
type DiagnosticJSON struct {
	Check    string        `json:"check"`
	Message  string        `json:"message"`
	Location LocationJSON  `json:"location"`
	Manual   bool          `json:"manual,omitempty"`
	Edits    []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func toJSON(file *token.File, src []byte, m Measurer, d Diagnostic) DiagnosticJSON {
	dj := DiagnosticJSON{
		Check:    CheckName,
		Message:  d.Message,
		Location: location(file, d.Pos, d.Pos),
		Manual:   d.Manual,
	}

	edits, ok := TextEdits(m, d.Edits)
	if !ok {
		return dj
	}

	for _, e := range edits {
		ej := FixEditJSON{Location: location(file, e.Pos, e.End), NewText: string(e.NewText)}

		if start, end := ej.Location.StartByte, ej.Location.EndByte; 0 <= start && start <= end && end <= len(src) {
			ej.OldText = string(src[start:end])
		}

		dj.Edits = append(dj.Edits, ej)
	}

	if len(dj.Edits) > 0 {
		dj.Location.EndByte = dj.Edits[0].Location.EndByte
	}

	return dj
}

func location(file *token.File, pos, end token.Pos) LocationJSON {
	p := file.Position(pos)

	return LocationJSON{
		File:      p.Filename,
		StartByte: file.Offset(pos),
		EndByte:   file.Offset(end),
		Line:      p.Line,
		Column:    p.Column,
	}
}
