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

package config_test

import (
	"testing"

	. "fillmore-labs.com/latin1tou/internal/config"
)

func TestBehavior(t *testing.T) {
	t.Parallel()

	b := DefaultBehavior()

	if b.Enabled(IncludeGenerated) || b.Enabled(IgnoreIncludes) {
		t.Fatalf("unexpected default behavior")
	}

	b.Set(IncludeGenerated, true)

	if !b.Enabled(IncludeGenerated) || b.Enabled(IgnoreIncludes) {
		t.Errorf("Set did not toggle flags")
	}

	b = NewBitMask(IncludeGenerated, IgnoreIncludes)
	b.Disable(IncludeGenerated)

	if b.Enabled(IncludeGenerated) || !b.Enabled(IgnoreIncludes) {
		t.Errorf("Disable(IncludeGenerated) = %v", b)
	}

	if got, want := b.String(), "0b10"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
