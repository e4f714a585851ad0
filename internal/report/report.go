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

// Package report collects check diagnostics for one translation unit and
// renders them: as [analysis.Diagnostic] values, as clang-style text, as JSON
// or as a unified diff of the fixed source.
package report

import (
	"go/token"
	"slices"
)

const (
	// CheckName is the name of the check, as used in suppression comments.
	CheckName = "qt6-qlatin1string-to-u"

	// ManualFixMessage is the message of diagnostics whose fix could not be computed.
	ManualFixMessage = "FixIt failed, requires manual intervention"
)

// FixEdit replaces the source between Start and End with NewText.
//
// End is a token range end: the position of a character inside the last
// replaced token. The replaced bytes extend to the end of that token.
type FixEdit struct {
	Start, End token.Pos
	NewText    string
}

// Diagnostic is a reported finding.
type Diagnostic struct {
	Pos     token.Pos
	Message string
	Edits   []FixEdit
	Manual  bool // the fix requires manual intervention
}

// Collector records the diagnostics of one translation unit.
// At most one diagnostic is recorded per position.
type Collector struct {
	diagnostics []Diagnostic
}

// EmitDiagnostic records a diagnostic with optional edits.
func (c *Collector) EmitDiagnostic(pos token.Pos, message string, edits []FixEdit) {
	if c.seen(pos) {
		return
	}

	c.diagnostics = append(c.diagnostics, Diagnostic{Pos: pos, Message: message, Edits: slices.Clone(edits)})
}

// EmitManualFixNeeded records that the finding at pos requires a manual fix.
func (c *Collector) EmitManualFixNeeded(pos token.Pos) {
	if c.seen(pos) {
		return
	}

	c.diagnostics = append(c.diagnostics, Diagnostic{Pos: pos, Message: ManualFixMessage, Manual: true})
}

// Diagnostics returns the recorded diagnostics ordered by position.
func (c *Collector) Diagnostics() []Diagnostic {
	diagnostics := slices.Clone(c.diagnostics)
	slices.SortStableFunc(diagnostics, func(a, b Diagnostic) int { return int(a.Pos - b.Pos) })

	return diagnostics
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int { return len(c.diagnostics) }

func (c *Collector) seen(pos token.Pos) bool {
	return slices.ContainsFunc(c.diagnostics, func(d Diagnostic) bool { return d.Pos == pos })
}
