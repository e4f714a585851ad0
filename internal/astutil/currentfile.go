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

package astutil

import (
	"bytes"
	"go/token"
	"path/filepath"
	"regexp"
	"strings"

	"fillmore-labs.com/latin1tou/internal/report"
)

// latin1tou is the name of the linter.
const latin1tou = "latin1tou"

// CurrentFile holds file information for analysis.
type CurrentFile struct {
	handle     *token.File
	generated  bool
	header     bool
	skipped    bool
	suppressed map[int]struct{}
}

// NewCurrentFile creates a new [CurrentFile] from a registered [token.File] and its content.
func NewCurrentFile(handle *token.File, src []byte) CurrentFile {
	if handle == nil || handle.Size() != len(src) {
		return CurrentFile{}
	}

	c := CurrentFile{
		handle:    handle,
		generated: generatedName(handle.Name()) || generatedBanner(src),
		header:    IsHeader(handle.Name()),
	}

	line := 0
	for text := range bytes.Lines(src) {
		line++

		i := commentStart(text)
		if i < 0 {
			continue
		}

		comment := text[i:]

		if skipPattern.Match(comment) {
			c.skipped = true

			continue
		}

		if CommentHasNoLint(comment) {
			if c.suppressed == nil {
				c.suppressed = make(map[int]struct{})
			}

			c.suppressed[line] = struct{}{}
		}
	}

	return c
}

// Valid returns true if the [CurrentFile] was successfully created
// from a valid file handle.
func (c CurrentFile) Valid() bool {
	return c.handle != nil
}

// Generated returns true if the file is a generated file.
func (c CurrentFile) Generated() bool {
	return c.generated
}

// Header returns true if the file is a header file.
func (c CurrentFile) Header() bool {
	return c.header
}

// Skipped returns true if the file contains a clazy:skip comment.
func (c CurrentFile) Skipped() bool {
	return c.skipped
}

// NoLintComment checks if the line of pos carries a suppression comment.
func (c CurrentFile) NoLintComment(pos token.Pos) bool {
	if c.handle == nil || len(c.suppressed) == 0 {
		return false
	}

	_, ok := c.suppressed[c.handle.PositionFor(pos, false).Line]

	return ok
}

var (
	skipPattern    = regexp.MustCompile(`clazy:skip\b`)
	excludePattern = regexp.MustCompile(`clazy:exclude=([a-zA-Z0-9,_-]+)`)
	nolintPattern  = regexp.MustCompile(`^//\s*nolint:([a-zA-Z0-9,_-]+)`)
	bareNoLint     = regexp.MustCompile(`\bNOLINT\b(?:\(([^)]*)\))?`)
)

// CommentHasNoLint checks if the provided comment text suppresses this check.
//
// Recognized are `// clazy:exclude=qt6-qlatin1string-to-u`, `// NOLINT`,
// `// NOLINT(qt6-qlatin1string-to-u)` and `//nolint:latin1tou`.
func CommentHasNoLint(comment []byte) bool {
	if m := excludePattern.FindSubmatch(comment); m != nil && listContains(string(m[1])) {
		return true
	}

	if m := nolintPattern.FindSubmatch(comment); m != nil && listContains(string(m[1])) {
		return true
	}

	m := bareNoLint.FindSubmatch(comment)
	if m == nil {
		return false
	}

	return len(m[1]) == 0 || listContains(string(m[1]))
}

// listContains reports whether a comma-separated list names this check.
func listContains(list string) bool {
	for name := range strings.SplitSeq(list, ",") {
		switch l := strings.ToLower(strings.TrimSpace(name)); l {
		case report.CheckName, "clazy-" + report.CheckName, latin1tou, "all":
			return true
		}
	}

	return false
}

// commentStart returns the index of the first comment in line, or -1.
func commentStart(line []byte) int {
	i, j := bytes.Index(line, []byte("//")), bytes.Index(line, []byte("/*"))

	switch {
	case i < 0:
		return j

	case j < 0:
		return i

	default:
		return min(i, j)
	}
}

// IsHeader reports whether name is a C/C++ header file name.
func IsHeader(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".h", ".hh", ".hpp", ".hxx", ".h++", ".inl":
		return true

	default:
		return false
	}
}

// IsSource reports whether name is a C/C++ source or header file name.
func IsSource(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".c", ".cc", ".cpp", ".cxx", ".c++", ".cp":
		return true

	default:
		return IsHeader(name)
	}
}

func generatedName(name string) bool {
	base := filepath.Base(name)

	return strings.HasPrefix(base, "moc_") ||
		strings.HasPrefix(base, "ui_") ||
		strings.HasPrefix(base, "qrc_") ||
		strings.HasSuffix(base, ".moc")
}

// generatedBanners are the file header lines written by the Qt code generators.
var generatedBanners = [...][]byte{
	[]byte("** Meta object code from reading C++ file"),
	[]byte("** Form generated from reading UI file"),
	[]byte("** Created by: The Resource Compiler for Qt"),
	[]byte("// Code generated "),
}

func generatedBanner(src []byte) bool {
	head := src[:min(len(src), 1024)]

	for _, banner := range generatedBanners {
		if bytes.Contains(head, banner) {
			return true
		}
	}

	return false
}
