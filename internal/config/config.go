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

package config

// BehaviorFlags are behavioral options of the check driver.
type BehaviorFlags uint8

const (
	// IncludeGenerated specifies whether to include analysis of generated files.
	IncludeGenerated BehaviorFlags = 1 << iota

	// IgnoreIncludes skips header files, only main files are analyzed.
	IgnoreIncludes
)

// Behavior holds the enabled [BehaviorFlags].
type Behavior = BitMask[BehaviorFlags]

// DefaultBehavior returns the default behavior: generated files are skipped, headers are analyzed.
func DefaultBehavior() Behavior {
	return Behavior{}
}

// MinQtMajor is the first Qt major version providing the u"" string literal operator.
const MinQtMajor = 6
