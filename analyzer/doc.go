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

// Package analyzer implements the latin1tou static analysis pass.
//
// # Overview
//
// latin1tou finds constructions of QLatin1String from a narrow string pointer
// in the C++ files of a package and suggests the Qt 6 u"" literal operator
// instead. It mirrors the clazy check qt6-qlatin1string-to-u.
//
// # Example
//
// Before:
//
//	QString s = QLatin1String("str");
//	s += QLatin1String(cond ? "foo" : "bar");
//
// After applying the suggested fix:
//
//	QString s = u("str");
//	s += u(cond ? "foo" : "bar");
//
// Constructions with an explicit length, from a QByteArray or from nullptr
// are not reported.
//
// # Suppression
//
// A `// clazy:skip` comment skips the whole file. Single lines are excluded
// with `// clazy:exclude=qt6-qlatin1string-to-u` or `// NOLINT`.
package analyzer
