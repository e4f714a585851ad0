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

// Command latin1tou reports and fixes QLatin1String constructions from narrow
// string literals in C++ sources.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitFindings = 3
)

// errFindings is returned when diagnostics were reported and not fixed.
var errFindings = errors.New("diagnostics found")

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	switch err := cmd.ExecuteContext(ctx); {
	case err == nil:
		return exitOK

	case errors.Is(err, errFindings):
		return exitFindings

	default:
		fmt.Fprintln(stderr, "latin1tou:", err) // ignore error

		return exitError
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "latin1tou [flags] <files|dirs>...",
		Short: "Replace QLatin1String constructions with u literals",
		Long: `latin1tou finds QLatin1String constructions from narrow string literals
in C++ sources and suggests the Qt 6 u"" literal operator instead.

Directories are searched recursively for C and C++ source and header files.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildVersion(),
		RunE:          runCheck,
	}

	flags := cmd.PersistentFlags()
	flags.Bool("fix", false, "apply suggested fixes in place")
	flags.Bool("diff", false, "print fixes as unified diff instead of diagnostics")
	flags.String("format", "text", "diagnostic output format (text|json)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.IntP("jobs", "j", 0, "number of files analyzed in parallel (0 for the number of CPUs)")
	flags.Bool("ignore-includes", false, "skip header files")
	flags.Bool("generated", false, "check generated files")
	flags.Int("qt-major", 6, "targeted Qt major version, files are skipped before 6")
	flags.Int("max-file-size", 0, "maximum source file size in bytes (0 for the default)")
	flags.StringP("config", "c", "", "configuration file (default .latin1tou.yaml)")
	flags.BoolP("verbose", "v", false, "log debug information")

	cmd.AddCommand(newConfigCmd(), newVersionCmd())

	return cmd
}

// setupLogging installs the default logger writing to w.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
