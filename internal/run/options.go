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
	"log/slog"

	"fillmore-labs.com/latin1tou/internal/config"
	"fillmore-labs.com/latin1tou/internal/cxx/parse"
	"fillmore-labs.com/latin1tou/internal/latin1"
)

// Options represent configuration options for the latin1tou analyzer.
type Options struct {
	// Behavior holds behavioral options.
	Behavior config.Behavior

	// QtMajor is the Qt major version the analyzed code targets. The check
	// only runs for Qt 6 and later.
	QtMajor int

	// Target describes the constructor calls to find and their replacement.
	Target latin1.Target

	// MaxFileSize is the maximum source file size in bytes.
	MaxFileSize int
}

// DefaultOptions initializes and returns a new Options instance with default values.
func DefaultOptions() *Options {
	return &Options{
		Behavior:    config.DefaultBehavior(),
		QtMajor:     config.MinQtMajor,
		Target:      latin1.DefaultTarget,
		MaxFileSize: parse.DefaultMaxFileSize,
	}
}

// LogValue implements [slog.LogValuer].
func (r *Options) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("generated", r.Behavior.Enabled(config.IncludeGenerated)),
		slog.Bool("ignore-includes", r.Behavior.Enabled(config.IgnoreIncludes)),
		slog.Int("qt-major", r.QtMajor),
		slog.Any("target", r.Target),
		slog.Int("max-file-size", r.MaxFileSize),
	)
}
