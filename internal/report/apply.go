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
	"errors"
	"fmt"
	"go/token"
	"slices"

	"golang.org/x/tools/go/analysis"
)

// Sentinel errors returned by [Apply].
var (
	// ErrOverlap is returned for overlapping edits.
	ErrOverlap = errors.New("overlapping edits")

	// ErrOutOfRange is returned for edits outside of the file.
	ErrOutOfRange = errors.New("edit out of range")
)

// Apply applies byte range edits to src, the content of file.
// Identical edits are applied once.
func Apply(file *token.File, src []byte, edits []analysis.TextEdit) ([]byte, error) {
	edits = slices.Clone(edits)
	slices.SortStableFunc(edits, func(a, b analysis.TextEdit) int { return int(a.Pos - b.Pos) })
	edits = slices.CompactFunc(edits, func(a, b analysis.TextEdit) bool {
		return a.Pos == b.Pos && a.End == b.End && bytes.Equal(a.NewText, b.NewText)
	})

	var (
		out  bytes.Buffer
		last int
	)

	out.Grow(len(src))

	for _, e := range edits {
		start, end, err := offsets(file, len(src), e)
		if err != nil {
			return nil, err
		}

		if start < last {
			return nil, fmt.Errorf("%w at %s", ErrOverlap, file.Position(e.Pos))
		}

		out.Write(src[last:start]) // ignore error
		out.Write(e.NewText)       // ignore error
		last = end
	}

	out.Write(src[last:]) // ignore error

	return out.Bytes(), nil
}

func offsets(file *token.File, size int, e analysis.TextEdit) (start, end int, err error) {
	base := file.Base()

	start, end = int(e.Pos)-base, int(e.End)-base
	if !e.Pos.IsValid() || start < 0 || end < start || end > size {
		return 0, 0, fmt.Errorf("%w: [%d, %d) in %s of size %d", ErrOutOfRange, start, end, file.Name(), size)
	}

	return start, end, nil
}
