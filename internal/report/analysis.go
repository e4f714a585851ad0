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
	"go/token"

	"golang.org/x/tools/go/analysis"
)

// Measurer measures raw source tokens.
type Measurer interface {
	// MeasureToken returns the length of the token starting at pos, or 0.
	MeasureToken(pos token.Pos) int
}

// TextEdits converts token range edits into byte range edits.
// It reports false when an edit end does not start a token.
func TextEdits(m Measurer, edits []FixEdit) ([]analysis.TextEdit, bool) {
	textEdits := make([]analysis.TextEdit, 0, len(edits))

	for _, e := range edits {
		if !e.Start.IsValid() || e.End < e.Start {
			return nil, false
		}

		n := m.MeasureToken(e.End)
		if n == 0 {
			return nil, false
		}

		textEdits = append(textEdits, analysis.TextEdit{Pos: e.Start, End: e.End + token.Pos(n), NewText: []byte(e.NewText)})
	}

	return textEdits, true
}

// ToAnalysis converts a diagnostic into an [analysis.Diagnostic] with
// suggested fixes. The diagnostic spans the replaced text, if any.
func ToAnalysis(m Measurer, d Diagnostic) analysis.Diagnostic {
	diagnostic := analysis.Diagnostic{
		Pos:      d.Pos,
		Category: CheckName,
		Message:  d.Message,
	}

	if len(d.Edits) == 0 {
		return diagnostic
	}

	edits, ok := TextEdits(m, d.Edits)
	if !ok {
		return diagnostic
	}

	diagnostic.End = edits[0].End
	diagnostic.SuggestedFixes = []analysis.SuggestedFix{{Message: "Replace with " + d.Edits[0].NewText, TextEdits: edits}}

	return diagnostic
}
