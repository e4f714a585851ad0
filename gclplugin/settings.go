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

package gclplugin

import latin1tou "fillmore-labs.com/latin1tou/analyzer"

// Settings represents the configuration options for an instance of the [Plugin].
type Settings struct {
	// Generated enables diagnostics in generated files.
	Generated *bool `json:"generated,omitzero"`
	// IgnoreIncludes skips header files.
	IgnoreIncludes *bool `json:"ignore-includes,omitzero"`
	// QtMajor sets the targeted Qt major version.
	QtMajor *int `json:"qt-major,omitzero"`
	// MaxFileSize sets the maximum source file size in bytes.
	MaxFileSize *int `json:"max-file-size,omitzero"`
}

// Options converts [Settings] into a list of [latin1tou.Option] for the latin1tou analyzer.
// It processes settings and applies them only when explicitly set (non-nil).
func (s Settings) Options() []latin1tou.Option {
	var opts []latin1tou.Option

	opts = appendOption(opts, s.Generated, latin1tou.WithGenerated)
	opts = appendOption(opts, s.IgnoreIncludes, latin1tou.WithIgnoreIncludes)
	opts = appendOption(opts, s.QtMajor, latin1tou.WithQtMajor)
	opts = appendOption(opts, s.MaxFileSize, latin1tou.WithMaxFileSize)

	return opts
}

// appendOption appends a non-nil setting to a [latin1tou.Option] list.
func appendOption[T any](opts []latin1tou.Option, value *T, constructor func(T) latin1tou.Option) []latin1tou.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
