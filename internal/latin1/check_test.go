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

package latin1_test

import (
	"go/token"
	"strings"
	"testing"

	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/latin1tou/internal/cxx"
	. "fillmore-labs.com/latin1tou/internal/latin1"
	"fillmore-labs.com/latin1tou/internal/report"
	"fillmore-labs.com/latin1tou/internal/testsource"
)

// check runs the check over u and returns the diagnostics.
func check(u *cxx.TranslationUnit, opts ...Option) []report.Diagnostic {
	var c report.Collector

	cxx.Walk(u, New(DefaultTarget, &c, opts...))

	return c.Diagnostics()
}

// fix applies all suggested edits to the unit's source.
func fix(t *testing.T, u *cxx.TranslationUnit, diagnostics []report.Diagnostic) string {
	t.Helper()

	lexer := u.Lexer()

	var edits []analysis.TextEdit

	for _, d := range diagnostics {
		e, ok := report.TextEdits(lexer, d.Edits)
		if !ok {
			t.Fatalf("Can't convert edits of %q", d.Message)
		}

		edits = append(edits, e...)
	}

	fixed, err := report.Apply(u.File, u.Src, edits)
	if err != nil {
		t.Fatalf("Can't apply edits: %v", err)
	}

	return string(fixed)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string // fixed body; empty when no diagnostic is expected
	}{
		{"Copy init", `QString s1 = QLatin1String("str");`, `QString s1 = u("str");`},
		{"Nested", `QString s2 = QString(QLatin1String("s2"));`, `QString s2 = QString(u("s2"));`},
		{"Compound assign", `s1 += QLatin1String("str");`, `s1 += u("str");`},
		{"Conditional", `s1 = QLatin1String(true ? "foo" : "bar");`, `s1 = u(true ? "foo" : "bar");`},
		{"Argument to member", `s1.append(QLatin1String("appending"));`, `s1.append(u("appending"));`},
		{"Argument", `receivingQString( QLatin1String("str"));`, `receivingQString( u("str"));`},
		{"Same type declaration", `QLatin1String toto = QLatin1String("toto");`, `QLatin1String toto = u("toto");`},
		{"Receiver", `int n = QLatin1String("abc").size();`, `int n = u("abc").size();`},
		{"Ternary branch", `QString s = b ? QLatin1String("x") : QString();`, `QString s = b ? u("x") : QString();`},
		{"UTF-8 literal", `QString s = QLatin1String(u8"x");`, `QString s = u(u8"x");`},
		{"Braced", `QString s = QLatin1String{"x"};`, `QString s = u{"x"};`},
		{"Comment", `QString s = QLatin1String/* c */("x");`, `QString s = u/* c */("x");`},
		{"New", `auto *p = new QLatin1String("x");`, `auto *p = new u("x");`},
		{"Pointer variable", `const char *p = "x"; QString s = QLatin1String(p);`, `const char *p = "x"; QString s = u(p);`},
		{"Parameterless lambda", `auto f = [] { return QLatin1String("x"); };`, `auto f = [] { return u("x"); };`},
		{"Two parameters", `QString s = QLatin1String("abc", 2);`, ""},
		{"Default", `QLatin1String s = QLatin1String();`, ""},
		{"Null pointer", `QLatin1String s = QLatin1String(nullptr);`, ""},
		{"Byte array", `QByteArray ba; QLatin1String s = QLatin1String(ba);`, ""},
		{"New byte array", `QByteArray ba; auto *p = new QLatin1String(ba);`, ""},
		{"Shadowed pointer", `const char *p = "x"; { QByteArray p; QString s = QLatin1String(p); }`, ""},
		{"Other class", `QString s = QString("x");`, ""},
		{"Direct initialization", `QLatin1String s("x");`, ""},
		{"Already fixed", `QString s = u("x");`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, u := testsource.Parse(t, tt.body)

			diagnostics := check(u)

			if tt.want == "" {
				if len(diagnostics) > 0 {
					t.Errorf("got %d diagnostics, want none: %q", len(diagnostics), diagnostics[0].Message)
				}

				return
			}

			if len(diagnostics) != 1 {
				t.Fatalf("got %d diagnostics, want 1", len(diagnostics))
			}

			d := diagnostics[0]
			if got, want := d.Message, "QLatin1String(const char *) ctor being called"; got != want {
				t.Errorf("message = %q, want %q", got, want)
			}

			if got, want := u.File.Offset(d.Pos), strings.Index(string(u.Src), "QLatin1String("); tt.name != "Braced" && tt.name != "Comment" && got != want {
				t.Errorf("diagnostic at offset %d, want %d", got, want)
			}

			if got, want := fix(t, u, diagnostics), testsource.Function(tt.want); got != want {
				t.Errorf("fixed source = %q, want %q", got, want)
			}
		})
	}
}

func TestCheckScopes(t *testing.T) {
	t.Parallel()

	const (
		byteArray = "void g() { QByteArray s; QString b = QLatin1String(s); }\n"
		pointer   = "void f() { const char *s = \"x\"; QString a = QLatin1String(s); }\n"
	)

	tests := []struct {
		name string
		src  string
	}{
		{"Byte array first", byteArray + pointer},
		{"Pointer first", pointer + byteArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, u := testsource.ParseFile(t, tt.src)

			diagnostics := check(u)
			if len(diagnostics) != 1 {
				t.Fatalf("got %d diagnostics, want 1", len(diagnostics))
			}

			if got, want := u.File.Offset(diagnostics[0].Pos), strings.Index(tt.src, "QLatin1String(s); }\n", strings.Index(tt.src, "void f()")); got != want {
				t.Errorf("diagnostic at offset %d, want %d", got, want)
			}

			if got, want := fix(t, u, diagnostics), strings.Replace(tt.src, "QString a = QLatin1String(s)", "QString a = u(s)", 1); got != want {
				t.Errorf("fixed source = %q, want %q", got, want)
			}
		})
	}
}

func TestCheckParameters(t *testing.T) {
	t.Parallel()

	const src = `void declared(QByteArray s);
void f(const char *s) { QString a = QLatin1String(s); }
void g(QByteArray s) { QString b = QLatin1String(s); }
`

	_, u := testsource.ParseFile(t, src)

	diagnostics := check(u)
	if len(diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diagnostics))
	}

	if got, want := u.File.Offset(diagnostics[0].Pos), strings.Index(src, "QLatin1String"); got != want {
		t.Errorf("diagnostic at offset %d, want %d", got, want)
	}
}

func TestCheckQualified(t *testing.T) {
	t.Parallel()

	_, u := testsource.Parse(t, `QString s = ::QLatin1String("x");`)

	diagnostics := check(u)
	if len(diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diagnostics))
	}

	if d := diagnostics[0]; !d.Manual || len(d.Edits) != 0 || d.Message != report.ManualFixMessage {
		t.Errorf("got manual=%t with %d edits, want manual fix", d.Manual, len(d.Edits))
	}
}

func TestCheckMainFile(t *testing.T) {
	t.Parallel()

	const src = `#include <QtCore/QString>

int totototo = 112233;

void receivingQString(QString s1) {}
void receivingQLatin1String(QLatin1String s1) {}

void test()
{
    QString s1 = QLatin1String("str");
    QString s2 = QString(QLatin1String("s2"));
    s1 += QLatin1String("str");
    s1 = QLatin1String(true ? "foo" : "bar");
    s1.append(QLatin1String("appending"));

    receivingQString( QLatin1String("str"));
    receivingQLatin1String( QLatin1String("latin"));

    QLatin1String toto = QLatin1String("toto");

}
`

	_, u := testsource.ParseFile(t, src)

	diagnostics := check(u)
	if got, want := len(diagnostics), strings.Count(src, `QLatin1String("`)+strings.Count(src, "QLatin1String(true"); got != want {
		t.Fatalf("got %d diagnostics, want %d", got, want)
	}

	fixed := fix(t, u, diagnostics)
	if strings.Contains(fixed, `QLatin1String("`) || strings.Contains(fixed, "QLatin1String(true") {
		t.Errorf("fixed source still contains constructor calls:\n%s", fixed)
	}

	if !strings.Contains(fixed, "void receivingQLatin1String(QLatin1String s1) {}") {
		t.Errorf("fixed source changed declarations:\n%s", fixed)
	}

	// Applying the fix is idempotent.
	_, again := testsource.ParseFile(t, fixed)
	if d := check(again); len(d) > 0 {
		t.Errorf("got %d diagnostics on fixed source, want none", len(d))
	}
}

func TestCheckMacros(t *testing.T) {
	t.Parallel()

	const src = `#define W(x) x
#define LS QLatin1String
#define L1(s) QLatin1String(s)
#define HELLO QLatin1String("hello")

void test()
{
    QString a = W(QLatin1String("a"));
    QString b = LS("b");
    QString c = L1("c");
    QString d = HELLO;
    QString e = QLatin1String("e");
}
`

	_, u := testsource.ParseFile(t, src)

	diagnostics := check(u)
	if len(diagnostics) != 5 {
		t.Fatalf("got %d diagnostics, want 5", len(diagnostics))
	}

	// A macro argument spelling the class name gets the fallback range.
	if d := diagnostics[0]; d.Manual || len(d.Edits) != 1 {
		t.Errorf("W: got manual=%t with %d edits, want an edit", d.Manual, len(d.Edits))
	} else if got, want := u.File.Offset(d.Edits[0].End)-u.File.Offset(d.Pos), len("QLatin1String")-2; got != want {
		t.Errorf("W: fallback end offset = %d, want %d", got, want)
	}

	// Class names spelled by a macro require a manual fix. This is a known
	// limitation: the fallback range is only used when the class name is
	// spelled at the construct start.
	for i, name := range []string{"LS", "L1", "HELLO"} {
		d := diagnostics[i+1]
		if !d.Manual || len(d.Edits) != 0 || d.Message != report.ManualFixMessage {
			t.Errorf("%s: got manual=%t with %d edits, want manual fix", name, d.Manual, len(d.Edits))
		}
	}

	if d := diagnostics[4]; d.Manual {
		t.Error("plain construct after macros requires manual fix")
	}

	fixed := fix(t, u, diagnostics)

	for _, want := range []string{`W(u("a"))`, `LS("b")`, `L1("c")`, `= HELLO;`, `= u("e");`} {
		if !strings.Contains(fixed, want) {
			t.Errorf("fixed source does not contain %q:\n%s", want, fixed)
		}
	}
}

// invalidLexer never resolves token ends and spellings.
type invalidLexer struct{ calls int }

func (l *invalidLexer) EndOfToken(token.Pos) token.Pos {
	l.calls++

	return token.NoPos
}

func (*invalidLexer) Spelling(token.Pos, int) (string, bool) { return "", false }

func TestCheckFallbackFails(t *testing.T) {
	t.Parallel()

	_, u := testsource.Parse(t, `QString a = QLatin1String("a");
QString b = QLatin1String("b");`)

	lexer := &invalidLexer{}
	diagnostics := check(u, WithLexer(func(*cxx.TranslationUnit) Lexer { return lexer }))

	if len(diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(diagnostics))
	}

	for _, d := range diagnostics {
		if !d.Manual || len(d.Edits) > 0 {
			t.Errorf("got manual=%t with %d edits, want manual fix", d.Manual, len(d.Edits))
		}
	}

	if lexer.calls != 2 {
		t.Errorf("lexer called %d times, want 2", lexer.calls)
	}
}

// panicLexer panics on the first query.
type panicLexer struct {
	lexer *cxx.Lexer
	done  bool
}

func (l *panicLexer) EndOfToken(pos token.Pos) token.Pos {
	if !l.done {
		l.done = true
		panic("lexer failure")
	}

	return l.lexer.EndOfToken(pos)
}

func (l *panicLexer) Spelling(pos token.Pos, n int) (string, bool) { return l.lexer.Spelling(pos, n) }

func TestCheckRecovers(t *testing.T) {
	t.Parallel()

	_, u := testsource.Parse(t, `QString a = QLatin1String("a");
QString b = QLatin1String("b");`)

	diagnostics := check(u, WithLexer(func(u *cxx.TranslationUnit) Lexer { return &panicLexer{lexer: u.Lexer()} }))

	if len(diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diagnostics))
	}

	if got, want := u.File.Offset(diagnostics[0].Pos), strings.LastIndex(string(u.Src), "QLatin1String"); got != want {
		t.Errorf("diagnostic at offset %d, want %d", got, want)
	}
}
