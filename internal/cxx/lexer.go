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

import (
	"go/token"
	"slices"
)

// Lexer answers raw token boundary queries over the source of one file.
//
// Token boundaries come from the leaves of the syntax tree, see
// [TranslationUnit.Tokens]. Positions inside a recorded macro expansion are
// macro locations: their token boundaries are not resolvable.
type Lexer struct {
	file   *token.File
	src    []byte
	tokens []Range
	macros []Range
}

// NewLexer creates a [Lexer] for src, registered as file. tokens must be
// sorted and non-overlapping.
func NewLexer(file *token.File, src []byte, tokens, macros []Range) *Lexer {
	return &Lexer{file: file, src: src, tokens: tokens, macros: macros}
}

// MeasureToken returns the number of bytes from pos to the end of the token
// containing pos, or 0 when pos is invalid or not inside a token.
func (l *Lexer) MeasureToken(pos token.Pos) int {
	if _, ok := l.offset(pos); !ok {
		return 0
	}

	tok, ok := l.tokenAt(pos)
	if !ok {
		return 0
	}

	return int(tok.Stop - pos)
}

// EndOfToken returns the position of the last character of the token
// starting at pos. It returns [token.NoPos] when pos is a macro location or
// no token starts at pos.
func (l *Lexer) EndOfToken(pos token.Pos) token.Pos {
	if l.InMacro(pos) {
		return token.NoPos
	}

	tok, ok := l.tokenAt(pos)
	if !ok || tok.Start != pos {
		return token.NoPos
	}

	return tok.Stop - 1
}

// InMacro reports whether pos lies inside a recorded macro expansion.
func (l *Lexer) InMacro(pos token.Pos) bool {
	for _, r := range l.macros {
		if r.Contains(pos) {
			return true
		}
	}

	return false
}

// Spelling returns the n bytes of source starting at pos.
// It reports false when the range is not inside the file.
func (l *Lexer) Spelling(pos token.Pos, n int) (string, bool) {
	off, ok := l.offset(pos)
	if !ok || n < 0 || off+n > len(l.src) {
		return "", false
	}

	return string(l.src[off : off+n]), true
}

// tokenAt returns the token containing pos.
func (l *Lexer) tokenAt(pos token.Pos) (Range, bool) {
	i, found := slices.BinarySearchFunc(l.tokens, pos, func(r Range, p token.Pos) int {
		switch {
		case r.Stop <= p:
			return -1

		case r.Start > p:
			return 1

		default:
			return 0
		}
	})
	if !found {
		return Range{}, false
	}

	return l.tokens[i], true
}

func (l *Lexer) offset(pos token.Pos) (int, bool) {
	if !pos.IsValid() || l.file == nil {
		return 0, false
	}

	off := int(pos) - l.file.Base()
	if off < 0 || off >= len(l.src) {
		return 0, false
	}

	return off, true
}
