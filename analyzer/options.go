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

package analyzer

import (
	"log/slog"

	"fillmore-labs.com/latin1tou/internal/config"
	"fillmore-labs.com/latin1tou/internal/latin1"
	"fillmore-labs.com/latin1tou/internal/run"
)

// Option configures specific behavior of a [New] latin1tou analyzer.
type Option interface {
	apply(r *run.Options)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *run.Options) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithGenerated is an [Option] to configure diagnostics in generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *run.Options) {
	r.Behavior.Set(config.IncludeGenerated, o.generated)
}

func (o generatedOption) LogAttr() slog.Attr {
	return slog.Bool("generated", o.generated)
}

// WithIgnoreIncludes is an [Option] to skip header files.
func WithIgnoreIncludes(ignore bool) Option { return ignoreIncludesOption{ignore: ignore} }

type ignoreIncludesOption struct{ ignore bool }

func (o ignoreIncludesOption) apply(r *run.Options) {
	r.Behavior.Set(config.IgnoreIncludes, o.ignore)
}

func (o ignoreIncludesOption) LogAttr() slog.Attr {
	return slog.Bool("ignore-includes", o.ignore)
}

// WithQtMajor is an [Option] to configure the targeted Qt major version.
// Files are only checked for Qt 6 and later.
func WithQtMajor(major int) Option { return qtMajorOption{major: major} }

type qtMajorOption struct{ major int }

func (o qtMajorOption) apply(r *run.Options) {
	r.QtMajor = o.major
}

func (o qtMajorOption) LogAttr() slog.Attr {
	return slog.Int("qt-major", o.major)
}

// WithTarget is an [Option] to configure the constructor calls to find.
func WithTarget(target latin1.Target) Option { return targetOption{target: target} }

type targetOption struct{ target latin1.Target }

func (o targetOption) apply(r *run.Options) {
	r.Target = o.target
}

func (o targetOption) LogAttr() slog.Attr {
	return slog.Any("target", o.target)
}

// WithMaxFileSize is an [Option] to configure the maximum source file size in bytes.
func WithMaxFileSize(size int) Option { return maxFileSizeOption{size: size} }

type maxFileSizeOption struct{ size int }

func (o maxFileSizeOption) apply(r *run.Options) {
	r.MaxFileSize = o.size
}

func (o maxFileSizeOption) LogAttr() slog.Attr {
	return slog.Int("max-file-size", o.size)
}
