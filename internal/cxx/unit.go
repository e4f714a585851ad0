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

package cxx

import "go/token"

// Range is a half-open source range [Start, Stop).
type Range struct {
	Start, Stop token.Pos
}

// Pos returns the start of the range.
func (r Range) Pos() token.Pos { return r.Start }

// End returns the position immediately after the range.
func (r Range) End() token.Pos { return r.Stop }

// Valid reports whether both ends of the range are valid and ordered.
func (r Range) Valid() bool {
	return r.Start.IsValid() && r.Stop.IsValid() && r.Start <= r.Stop
}

// Contains reports whether pos lies inside the range.
func (r Range) Contains(pos token.Pos) bool {
	return r.Start <= pos && pos < r.Stop
}

// Overlaps reports whether the two ranges share at least one position.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.Stop && o.Start < r.Stop
}

// FileRange returns the range covering the whole file.
func FileRange(file *token.File) Range {
	return Range{Start: token.Pos(file.Base()), Stop: token.Pos(file.Base() + file.Size())}
}

// MacroDef is a preprocessor macro definition.
type MacroDef struct {
	Name         string
	Params       []string
	FunctionLike bool
	Body         string
}

// MacroExpansion is a use of a macro in the translation unit.
type MacroExpansion struct {
	Name  string
	Range Range // the invocation, including arguments of function-like macros
	Def   *MacroDef
}

// TranslationUnit is the front-end result for one source file.
type TranslationUnit struct {
	File   *token.File
	Src    []byte
	Nodes  []Expr           // top-level expressions in source order
	Macros []MacroExpansion // macro expansions in source order
	Tokens []Range          // raw tokens in source order
	Errors []string         // non-fatal front-end diagnostics
}

// Lexer returns a raw [Lexer] over the unit's source, aware of its macro expansions.
func (u *TranslationUnit) Lexer() *Lexer {
	spans := make([]Range, len(u.Macros))
	for i, m := range u.Macros {
		spans[i] = m.Range
	}

	return NewLexer(u.File, u.Src, u.Tokens, spans)
}
