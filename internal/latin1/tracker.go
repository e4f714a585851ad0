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

	"fillmore-labs.com/latin1tou/internal/cxx"
)

// MacroTracker records the macro expansion ranges of one translation unit.
// The zero value is ready to use.
type MacroTracker struct {
	spans []cxx.Range
}

// Record appends an expansion range.
func (m *MacroTracker) Record(r cxx.Range) {
	m.spans = append(m.spans, r)
}

// Reset forgets all recorded ranges.
func (m *MacroTracker) Reset() {
	m.spans = m.spans[:0]
}

// Len returns the number of recorded ranges.
func (m *MacroTracker) Len() int { return len(m.spans) }

// Containing returns the innermost recorded expansion containing pos.
func (m *MacroTracker) Containing(pos token.Pos) (cxx.Range, bool) {
	var (
		inner cxx.Range
		found bool
	)

	for _, r := range m.spans {
		if !r.Contains(pos) {
			continue
		}

		if !found || r.Stop-r.Start < inner.Stop-inner.Start {
			inner, found = r, true
		}
	}

	return inner, found
}

// Overlaps reports whether r overlaps any recorded expansion.
func (m *MacroTracker) Overlaps(r cxx.Range) bool {
	for _, s := range m.spans {
		if s.Overlaps(r) {
			return true
		}
	}

	return false
}
