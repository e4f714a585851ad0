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

package latin1

import (
	"go/token"

	"fillmore-labs.com/latin1tou/internal/report"
)

// Lexer answers raw token queries, see [cxx.Lexer].
type Lexer interface {
	// EndOfToken returns the position of the last character of the token
	// starting at pos, or [token.NoPos] for macro locations.
	EndOfToken(pos token.Pos) token.Pos

	// Spelling returns the n bytes of source starting at pos.
	Spelling(pos token.Pos, n int) (string, bool)
}

// fixRange computes the edit replacing the class name at start.
func (c *Check) fixRange(start token.Pos) (report.FixEdit, bool) {
	if !start.IsValid() {
		return report.FixEdit{}, false
	}

	end := c.lexer.EndOfToken(start)
	if !end.IsValid() {
		var ok bool
		if end, ok = c.fallbackEnd(start); !ok {
			return report.FixEdit{}, false
		}
	}

	return report.FixEdit{Start: start, End: end, NewText: c.target.Replacement}, true
}

// fallbackEnd guesses the token range end when the token at start can't be
// measured: start + len(class) - 2 lies inside the class name token when the
// name is spelled at start.
//
// The guess is rejected when the class name is not spelled at start, when it
// leaves the file or when it leaves the macro expansion containing start.
func (c *Check) fallbackEnd(start token.Pos) (token.Pos, bool) {
	class := c.target.Class

	end := start + token.Pos(len(class)-2)
	if end < start {
		return token.NoPos, false
	}

	if spelling, ok := c.lexer.Spelling(start, len(class)); !ok || spelling != class {
		return token.NoPos, false
	}

	if r, ok := c.macros.Containing(start); ok && !r.Contains(end) {
		return token.NoPos, false
	}

	return end, true
}
