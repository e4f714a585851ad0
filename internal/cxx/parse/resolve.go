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

package parse

import (
	"maps"
	"strings"

	"fillmore-labs.com/latin1tou/internal/cxx"
)

// classTable maps class names to their constructors in declaration order.
type classTable map[string][]*cxx.CtorDecl

func (t classTable) clone() classTable { return maps.Clone(t) }

// lookup reports whether name spells a known class and returns its unqualified name.
func (t classTable) lookup(name string) (string, bool) {
	name = strings.TrimPrefix(strings.Join(strings.Fields(name), ""), "::")
	if _, ok := t[name]; ok {
		return name, true
	}

	return "", false
}

// Conversion ranks.
const (
	rankNone     = -1
	rankUnknown  = 0
	rankUser     = 1 // user-defined conversion
	rankStandard = 2
	rankExact    = 3
)

// resolve selects the constructor of class best matching the argument types.
// Unknown argument types are viable for every parameter. It returns nil when
// no constructor is viable or the best candidates are tied.
func (t classTable) resolve(class string, args []string) *cxx.CtorDecl {
	var (
		best      *cxx.CtorDecl
		bestScore = -1
		tied      bool
	)

	for _, ctor := range t[class] {
		if len(args) < ctor.Required || len(args) > len(ctor.Params) {
			continue
		}

		score, ok := 0, true

		for i, arg := range args {
			r := t.rank(arg, ctor.Params[i].Type, true)
			if r == rankNone {
				ok = false

				break
			}

			score += r
		}

		switch {
		case !ok:

		case score > bestScore:
			best, bestScore, tied = ctor, score, false

		case score == bestScore:
			tied = true
		}
	}

	if tied {
		return nil
	}

	return best
}

// rank grades the conversion of an argument of type arg to a parameter of type param.
func (t classTable) rank(arg, param string, userConversions bool) int {
	if arg == "" {
		return rankUnknown
	}

	base := baseOf(param)

	switch {
	case arg == param, arg == base:
		return rankExact

	case strings.HasSuffix(param, "*"):
		switch {
		case arg == "std::nullptr_t":
			return rankStandard

		case "const "+arg == param:
			return rankStandard // qualification conversion
		}

	case isArithmetic(arg) && isArithmetic(base):
		return rankStandard
	}

	if !userConversions {
		return rankNone
	}

	for _, ctor := range t[base] {
		if ctor.Explicit || ctor.Required > 1 || len(ctor.Params) == 0 {
			continue
		}

		if t.rank(arg, ctor.Params[0].Type, false) > rankUnknown {
			return rankUser
		}
	}

	return rankNone
}

// baseOf strips top-level const and reference from a parameter type.
func baseOf(param string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(param, "&&"), "&")
	base = strings.TrimSuffix(strings.TrimSpace(base), "const")

	if !strings.HasSuffix(base, "*") {
		base = strings.TrimPrefix(base, "const ")
	}

	return base
}

var arithmetic = map[string]bool{
	"bool": true, "char": true, "char16_t": true, "char32_t": true, "wchar_t": true,
	"short": true, "int": true, "long": true, "long long": true,
	"unsigned": true, "unsigned int": true, "unsigned long": true, "unsigned long long": true,
	"float": true, "double": true,
	"qsizetype": true, "qint64": true, "quint64": true, "uint": true, "size_t": true, "std::size_t": true,
}

func isArithmetic(typ string) bool { return arithmetic[typ] }

// stringTypes maps string literal encoding prefixes to pointer types.
var stringTypes = map[string]string{
	"":   "const char *",
	"u8": "const char *",
	"u":  "const char16_t *",
	"U":  "const char32_t *",
	"L":  "const wchar_t *",
}

// knownCalls are result types of frequently used functions and methods.
var knownCalls = map[string]string{
	"constData":         "const char *",
	"data":              "const char *",
	"qPrintable":        "const char *",
	"qUtf8Printable":    "const char *",
	"QT_TR_NOOP":        "const char *",
	"QT_TRANSLATE_NOOP": "const char *",
	"toLatin1":          "QByteArray",
	"toUtf8":            "QByteArray",
	"toLocal8Bit":       "QByteArray",
}

func (b *builder) argTypes(args []cxx.Expr) []string {
	types := make([]string, len(args))
	for i, a := range args {
		types[i] = b.typeOf(a)
	}

	return types
}

// typeOf infers the type of x, or returns "" when unknown.
func (b *builder) typeOf(x cxx.Expr) string {
	switch x := x.(type) {
	case *cxx.StringLiteral:
		return stringTypes[strings.TrimSuffix(x.Prefix, "R")]

	case *cxx.Literal:
		switch x.Kind {
		case cxx.LitBool:
			return "bool"

		case cxx.LitInt:
			return "int"

		case cxx.LitFloat:
			return "double"

		case cxx.LitChar:
			return "char"

		case cxx.LitNullptr:
			return "std::nullptr_t"
		}

	case *cxx.ConditionalExpr:
		if t := b.typeOf(x.Then); t != "" {
			return t
		}

		return b.typeOf(x.Else)

	case *cxx.ParenExpr:
		return b.typeOf(x.X)

	case *cxx.ConstructExpr:
		return x.Class

	case *cxx.Ident:
		return baseOf(b.varType(x.Name))

	case *cxx.CallExpr:
		if fn, ok := x.Fun.(*cxx.Ident); ok {
			return knownCalls[fn.Name]
		}

	case *cxx.MemberCallExpr:
		return knownCalls[x.Method.Name]

	case *cxx.BinaryExpr:
		if strings.HasSuffix(x.Op, "=") && x.Op != "==" && x.Op != "!=" && x.Op != "<=" && x.Op != ">=" {
			return b.typeOf(x.X)
		}
	}

	return ""
}

// scope is a block scope of declared variable types.
type scope struct {
	parent *scope
	vars   map[string]string
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]string)}
}

// lookup returns the type of the innermost variable named name.
func (s *scope) lookup(name string) (string, bool) {
	for ; s != nil; s = s.parent {
		if typ, ok := s.vars[name]; ok {
			return typ, true
		}
	}

	return "", false
}

// varType returns the declared type of the variable or data member name
// visible at the current position, or "".
func (b *builder) varType(name string) string {
	if typ, ok := b.scope.lookup(name); ok {
		return typ
	}

	return b.fields[name]
}
