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

package run

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"runtime/trace"
	"slices"

	"fillmore-labs.com/latin1tou/internal/astutil"
	"fillmore-labs.com/latin1tou/internal/config"
	"fillmore-labs.com/latin1tou/internal/cxx"
	"fillmore-labs.com/latin1tou/internal/cxx/parse"
	"fillmore-labs.com/latin1tou/internal/latin1"
	"fillmore-labs.com/latin1tou/internal/report"
)

// ErrInvalidFile is returned when a file handle does not match its content.
var ErrInvalidFile = errors.New("invalid file")

// Skip describes why a file was not analyzed.
type Skip string

// Reasons for skipping a file.
const (
	NotSkipped    Skip = ""
	SkipQtVersion Skip = "targets Qt before 6"
	SkipComment   Skip = "clazy:skip comment"
	SkipHeader    Skip = "header file"
	SkipGenerated Skip = "generated file"
)

// Result is the outcome of analyzing one file.
type Result struct {
	// Unit is the parsed translation unit, nil for skipped files.
	Unit *cxx.TranslationUnit

	// Diagnostics are the unsuppressed findings, sorted by position.
	Diagnostics []report.Diagnostic

	// Skipped is the reason the file was not analyzed.
	Skipped Skip
}

// Analyze runs the check over one file. The file must be registered with the
// length of src.
func (r *Options) Analyze(ctx context.Context, file *token.File, src []byte) (Result, error) {
	defer trace.StartRegion(ctx, "Analyze").End()

	if err := r.Target.Validate(); err != nil {
		return Result{}, err
	}

	if r.QtMajor < config.MinQtMajor {
		return Result{Skipped: SkipQtVersion}, nil
	}

	currentFile := astutil.NewCurrentFile(file, src)
	if !currentFile.Valid() {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidFile, file.Name())
	}

	switch {
	case currentFile.Skipped():
		return Result{Skipped: SkipComment}, nil

	case currentFile.Header() && r.Behavior.Enabled(config.IgnoreIncludes):
		return Result{Skipped: SkipHeader}, nil

	case currentFile.Generated() && !r.Behavior.Enabled(config.IncludeGenerated):
		return Result{Skipped: SkipGenerated}, nil
	}

	unit, err := parse.New(parse.WithMaxFileSize(r.MaxFileSize)).Parse(ctx, file, src)
	if err != nil {
		return Result{}, err
	}

	for _, msg := range unit.Errors {
		slog.DebugContext(ctx, "Parse problem", slog.String("file", file.Name()), slog.String("error", msg))
	}

	var c report.Collector

	func() {
		defer trace.StartRegion(ctx, "Check").End()

		cxx.Walk(unit, latin1.New(r.Target, &c))
	}()

	diagnostics := slices.DeleteFunc(c.Diagnostics(), func(d report.Diagnostic) bool {
		return currentFile.NoLintComment(d.Pos)
	})

	return Result{Unit: unit, Diagnostics: diagnostics}, nil
}
