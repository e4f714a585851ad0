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
	"fmt"
	"log/slog"
	"runtime/trace"

	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/latin1tou/internal/astutil"
	"fillmore-labs.com/latin1tou/internal/cxx"
	"fillmore-labs.com/latin1tou/internal/report"
)

// Run executes the latin1tou analyzer over the C and C++ files of the package.
func (r *Options) Run(p *analysis.Pass) (any, error) {
	if err := r.Target.Validate(); err != nil {
		return nil, fmt.Errorf("latin1tou: %w", err)
	}

	ctx := context.Background()

	ctx, task := trace.NewTask(ctx, "Latin1ToU")
	defer task.End()

	if p.Pkg != nil {
		trace.Log(ctx, "package", p.Pkg.Path())
	}

	// Loop over all non-Go files
	for _, name := range p.OtherFiles {
		if !astutil.IsSource(name) {
			continue
		}

		src, err := p.ReadFile(name)
		if err != nil {
			slog.WarnContext(ctx, "Can't read file", slog.String("file", name), slog.Any("error", err))

			continue
		}

		file := p.Fset.AddFile(name, -1, len(src))
		file.SetLinesForContent(src)

		result, err := r.Analyze(ctx, file, src)
		if err != nil {
			astutil.InternalError(p, cxx.FileRange(file), "%v", err)

			continue
		}

		if result.Skipped != NotSkipped {
			slog.DebugContext(ctx, "Skipping file", slog.String("file", name), slog.String("reason", string(result.Skipped)))

			continue
		}

		reportDiagnostics(ctx, p, result)
	}

	return nil, nil
}

// reportDiagnostics emits the findings of one file.
func reportDiagnostics(ctx context.Context, p *analysis.Pass, result Result) {
	defer trace.StartRegion(ctx, "Report").End()

	lexer := result.Unit.Lexer()

	for _, d := range result.Diagnostics {
		p.Report(report.ToAnalysis(lexer, d))
	}
}
