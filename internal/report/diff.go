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
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
)

// contextLines is the number of unchanged lines around a change.
const contextLines = 3

// Diff returns the unified diff between the old and fixed content of the
// named file, or nil when they are equal.
func Diff(name string, orig, fixed []byte) ([]byte, error) {
	if bytes.Equal(orig, fixed) {
		return nil, nil
	}

	a, b := splitLines(orig), splitLines(fixed)

	path := strings.TrimPrefix(filepath.ToSlash(name), "/")

	fd := &diff.FileDiff{
		OrigName: "a/" + path,
		NewName:  "b/" + path,
	}

	for _, group := range difflib.NewMatcher(a, b).GetGroupedOpCodes(contextLines) {
		hunk, err := newHunk(a, b, group)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		fd.Hunks = append(fd.Hunks, hunk)
	}

	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return nil, fmt.Errorf("can't print diff for %s: %w", name, err)
	}

	return out, nil
}

func newHunk(a, b []string, group []difflib.OpCode) (*diff.Hunk, error) {
	first, last := group[0], group[len(group)-1]

	origStart, origLines, err := lineRange(first.I1, last.I2)
	if err != nil {
		return nil, err
	}

	newStart, newLines, err := lineRange(first.J1, last.J2)
	if err != nil {
		return nil, err
	}

	var (
		body      bytes.Buffer
		noNewline int // offset in body after an old last line without newline
	)

	for _, op := range group {
		switch op.Tag {
		case 'e':
			writeLines(&body, ' ', a[op.I1:op.I2])

		case 'r':
			if writeLines(&body, '-', a[op.I1:op.I2]) {
				noNewline = body.Len()
			}

			writeLines(&body, '+', b[op.J1:op.J2])

		case 'd':
			if writeLines(&body, '-', a[op.I1:op.I2]) {
				noNewline = body.Len()
			}

		case 'i':
			writeLines(&body, '+', b[op.J1:op.J2])
		}
	}

	origNoNewlineAt, err := safecast.Conv[int32](noNewline)
	if err != nil {
		return nil, err
	}

	return &diff.Hunk{
		OrigStartLine:   origStart,
		OrigLines:       origLines,
		NewStartLine:    newStart,
		NewLines:        newLines,
		OrigNoNewlineAt: origNoNewlineAt,
		Body:            body.Bytes(),
	}, nil
}

// lineRange converts a zero-based half-open line range to the unified diff
// start line and count.
func lineRange(from, to int) (start, count int32, err error) {
	if count, err = safecast.Conv[int32](to - from); err != nil {
		return 0, 0, err
	}

	if count > 0 {
		from++
	}

	if start, err = safecast.Conv[int32](from); err != nil {
		return 0, 0, err
	}

	return start, count, nil
}

// writeLines writes prefixed lines to buf. A final line without newline is
// left unterminated, except for removed lines, which are terminated and
// reported for the old file's no-newline marker.
func writeLines(buf *bytes.Buffer, prefix byte, lines []string) (noNewline bool) {
	for _, line := range lines {
		buf.WriteByte(prefix) // ignore error
		buf.WriteString(line) // ignore error

		if !strings.HasSuffix(line, "\n") && prefix == '-' {
			buf.WriteByte('\n') // ignore error

			noNewline = true
		}
	}

	return noNewline
}

// splitLines splits src into lines, keeping line terminators.
func splitLines(src []byte) []string {
	lines := strings.SplitAfter(string(src), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}
