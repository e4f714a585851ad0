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

package latin1

import (
	"errors"
	"fmt"
	"log/slog"

	"fillmore-labs.com/latin1tou/internal/cxx"
)

// Target describes the constructor calls to find and their replacement.
type Target struct {
	Class       string // constructed class, e.g. "QLatin1String"
	ParamType   string // exact spelling of the parameter type, e.g. "const char *"
	Replacement string // replacement for the class name, e.g. "u"
}

// DefaultTarget matches QLatin1String(const char *) and replaces the class name with u.
var DefaultTarget = Target{Class: "QLatin1String", ParamType: "const char *", Replacement: "u"}

// ErrInvalidTarget is returned by [Target.Validate].
var ErrInvalidTarget = errors.New("invalid target")

// Validate checks that all fields are set and the fix-range fallback is applicable.
func (t Target) Validate() error {
	switch {
	case t.Class == "", t.ParamType == "", t.Replacement == "":
		return fmt.Errorf("%w: class, parameter type and replacement are required", ErrInvalidTarget)

	case len(t.Class) < 2:
		return fmt.Errorf("%w: class name %q too short", ErrInvalidTarget, t.Class)
	}

	return nil
}

// Message returns the diagnostic message, e.g. "QLatin1String(const char *) ctor being called".
func (t Target) Message() string {
	return t.Class + "(" + t.ParamType + ") ctor being called"
}

// LogValue implements [slog.LogValuer].
func (t Target) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("class", t.Class),
		slog.String("param", t.ParamType),
		slog.String("replacement", t.Replacement),
	)
}

// Match reports whether ctor constructs the target class from narrow strings.
//
// The parameters are scanned in declaration order and the scan stops at the
// first parameter not spelled exactly as the target parameter type, so
// QLatin1String(const char *, qsizetype) does not match. isCharArray reports
// whether the first parameter is the narrow string pointer.
func (t Target) Match(ctor *cxx.CtorDecl) (match, isCharArray bool) {
	if ctor == nil || ctor.Class != t.Class || len(ctor.Params) == 0 {
		return false, false
	}

	for i, param := range ctor.Params {
		if param.Type != t.ParamType {
			return false, isCharArray
		}

		if i == 0 {
			isCharArray = true
		}
	}

	return isCharArray, isCharArray
}
