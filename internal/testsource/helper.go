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

// Package testsource provides utilities for parsing C++ source code in tests.
//
// It is designed to simplify testing of the latin1tou analyzer by handling common
// boilerplate code for wrapping and parsing C++ source fragments.
package testsource

import (
	"go/token"
	"strings"
	"testing"

	"fillmore-labs.com/latin1tou/internal/cxx"
	"fillmore-labs.com/latin1tou/internal/cxx/parse"
)

const (
	// Filename is the name the parsed fragments are registered under.
	Filename = "test.cpp"

	header = "void test()\n{\n"
	suffix = "\n}\n"
)

// Function wraps a C++ statement fragment into a function definition
// `void test() { ... }`.
func Function(body string) string {
	var src strings.Builder
	src.Grow(len(header) + len(body) + len(suffix))

	src.WriteString(header) // ignore error
	src.WriteString(body)   // ignore error
	src.WriteString(suffix) // ignore error

	return src.String()
}

// Parse parses a C++ statement fragment into a translation unit.
// The provided source `src` is automatically wrapped with [Function]. This
// allows testing statement-level code fragments without manually constructing
// the surrounding function scaffolding.
//
// Returns:
//   - *token.FileSet: The file set containing the single source file.
//   - *cxx.TranslationUnit: The parsed translation unit.
func Parse(tb testing.TB, src string) (*token.FileSet, *cxx.TranslationUnit) {
	tb.Helper()

	return ParseFile(tb, Function(src))
}

// ParseFile parses complete C++ source code into a translation unit.
func ParseFile(tb testing.TB, src string) (*token.FileSet, *cxx.TranslationUnit) {
	tb.Helper()

	fset := token.NewFileSet()
	file := fset.AddFile(Filename, -1, len(src))
	file.SetLinesForContent([]byte(src))

	unit, err := parse.New().Parse(tb.Context(), file, []byte(src))
	if err != nil {
		tb.Fatalf("Failed to parse source %q: %v", src, err)
	}

	return fset, unit
}
