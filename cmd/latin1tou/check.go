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

package main

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/latin1tou/internal/astutil"
	"fillmore-labs.com/latin1tou/internal/report"
	"fillmore-labs.com/latin1tou/internal/run"
)

// fileResult is the outcome of analyzing a single file.
type fileResult struct {
	file   *token.File
	src    []byte
	lexer  report.Measurer
	diags  []report.Diagnostic
	fixed  []byte // nil when nothing was fixed
	manual int    // diagnostics requiring manual intervention
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	setupLogging(cmd.ErrOrStderr(), s.Verbose)

	slog.Debug("Configuration", slog.String("file", s.configFile), slog.Any("options", s.options()))

	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	results, failed := analyzeFiles(cmd.Context(), &s, files)

	format, _ := report.ParseFormat(s.Format) // validated in loadSettings

	out := cmd.OutOrStdout()
	printer := report.NewPrinter(out, format, s.colored(out))

	var findings, manual int

	for _, r := range results {
		if r == nil {
			continue
		}

		findings += len(r.diags)
		manual += r.manual

		if err := emit(&s, printer, out, r); err != nil {
			return err
		}
	}

	if err := printer.Flush(); err != nil {
		return err
	}

	switch {
	case failed > 0:
		return fmt.Errorf("%d of %d files failed", failed, len(files))

	case s.Fix && manual > 0, !s.Fix && findings > 0:
		return errFindings

	default:
		return nil
	}
}

// emit reports or applies the result of one file.
func emit(s *settings, printer *report.Printer, out io.Writer, r *fileResult) error {
	switch {
	case s.Diff:
		if r.fixed == nil {
			return nil
		}

		d, err := report.Diff(r.file.Name(), r.src, r.fixed)
		if err != nil {
			return err
		}

		if _, err := out.Write(d); err != nil {
			return fmt.Errorf("can't write diff: %w", err)
		}

		return nil

	case s.Fix:
		if r.fixed != nil {
			if err := writeFile(r.file.Name(), r.fixed); err != nil {
				return err
			}
		}

		if r.manual == 0 {
			return nil
		}

		manual := make([]report.Diagnostic, 0, r.manual)
		for _, d := range r.diags {
			if d.Manual {
				manual = append(manual, d)
			}
		}

		return printer.Print(r.file, r.src, r.lexer, manual)

	default:
		return printer.Print(r.file, r.src, r.lexer, r.diags)
	}
}

// analyzeFiles analyzes files in parallel. The results are in the order of
// files; failed and skipped files have nil results.
func analyzeFiles(ctx context.Context, s *settings, files []string) ([]*fileResult, int) {
	options := s.options()
	results := make([]*fileResult, len(files))

	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(s.jobs(), max(len(files), 1)))

	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			r, err := analyzeFile(gctx, options, name)
			if err != nil {
				slog.ErrorContext(gctx, "Analysis failed", slog.String("file", name), slog.Any("error", err))
				failed.Add(1)

				return nil
			}

			results[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Analysis canceled", slog.Any("error", err))
		failed.Add(1)
	}

	return results, int(failed.Load())
}

func analyzeFile(ctx context.Context, options *run.Options, name string) (*fileResult, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	file := fset.AddFile(name, -1, len(src))
	file.SetLinesForContent(src)

	result, err := options.Analyze(ctx, file, src)
	if err != nil {
		return nil, err
	}

	if result.Skipped != run.NotSkipped {
		slog.DebugContext(ctx, "Skipping file", slog.String("file", name), slog.String("reason", string(result.Skipped)))

		return nil, nil
	}

	lexer := result.Unit.Lexer()
	r := &fileResult{file: file, src: src, lexer: lexer, diags: result.Diagnostics}

	var edits []analysis.TextEdit

	for i, d := range r.diags {
		if d.Manual {
			r.manual++

			continue
		}

		e, ok := report.TextEdits(lexer, d.Edits)
		if !ok {
			r.diags[i].Manual = true
			r.manual++

			continue
		}

		edits = append(edits, e...)
	}

	if len(edits) > 0 {
		if r.fixed, err = report.Apply(file, src, edits); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// collectFiles expands directories to the C and C++ files below them.
// Hidden directories are skipped, explicitly named files are always included.
func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, arg)

			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			switch {
			case err != nil:
				return err

			case d.IsDir():
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}

			case d.Type().IsRegular() && astutil.IsSource(path):
				files = append(files, path)
			}

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, errors.New("no C++ files found")
	}

	return files, nil
}

// writeFile replaces the content of name, keeping its permissions.
func writeFile(name string, content []byte) error {
	info, err := os.Stat(name)
	if err != nil {
		return err
	}

	if err := os.WriteFile(name, content, info.Mode().Perm()); err != nil {
		return fmt.Errorf("can't write fixed file: %w", err)
	}

	return nil
}
