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
	"go/token"
	"log/slog"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"fillmore-labs.com/latin1tou/internal/cxx"
)

// macroBody is the understood shape of a macro replacement list.
type macroBody struct {
	class string    // constructed or aliased class
	call  bool      // body is a constructor call, not just the class name
	args  []bodyArg // constructor arguments of a call body
}

// bodyArg is a constructor argument in a macro body: either a macro
// parameter or an expression of known type.
type bodyArg struct {
	param int // index into the macro parameters, -1 if none
	typ   string
}

// types returns the argument types of the body's constructor call, given the
// types of the invocation arguments.
func (m *macroBody) types(invocation []string) []string {
	types := make([]string, 0, len(m.args))

	for _, a := range m.args {
		switch {
		case a.param < 0:
			types = append(types, a.typ)

		case a.param < len(invocation):
			types = append(types, invocation[a.param])

		default:
			types = append(types, "")
		}
	}

	return types
}

// macroPrefix turns a replacement list into an unambiguous initializer.
const macroPrefix = "auto __latin1tou_macro =\n"

// body returns the parsed body of def, or nil when it is not a constructor
// call or class name.
func (b *builder) body(def *cxx.MacroDef) *macroBody {
	if m, ok := b.bodies[def.Name]; ok {
		return m
	}

	m := b.parseBody(def)
	b.bodies[def.Name] = m

	return m
}

func (b *builder) parseBody(def *cxx.MacroDef) *macroBody {
	text := strings.NewReplacer("\\\r\n", " ", "\\\n", " ").Replace(def.Body)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	src := []byte(macroPrefix + text + "\n;\n")

	root, closeTree, err := parseTree(b.ctx, src)
	if err != nil {
		slog.DebugContext(b.ctx, "can't parse macro body", slog.String("macro", def.Name), slog.Any("error", err))

		return nil
	}
	defer closeTree()

	value := initializer(root)
	for value != nil && value.Type() == "parenthesized_expression" {
		value = firstNamed(value)
	}

	if value == nil {
		return nil
	}

	fset := token.NewFileSet()
	file := fset.AddFile(def.Name, -1, len(src))

	// Body expressions see the classes and variables of the unit, but no macros.
	nb := newBuilder(b.ctx, file, src, b.classes)
	nb.scope, nb.fields = b.scope, b.fields

	switch value.Type() {
	case "identifier", "qualified_identifier", "type_identifier":
		if class, ok := b.classes.lookup(nb.text(value)); ok {
			return &macroBody{class: class}
		}

	case "call_expression":
		fn, argList := value.ChildByFieldName("function"), value.ChildByFieldName("arguments")
		if fn == nil || argList == nil {
			return nil
		}

		class, ok := b.classes.lookup(nb.text(fn))
		if !ok {
			return nil
		}

		m := &macroBody{class: class, call: true}

		for a := range namedChildren(argList) {
			if a.Type() == "comment" {
				continue
			}

			if idx := slices.Index(def.Params, nb.text(a)); idx >= 0 {
				m.args = append(m.args, bodyArg{param: idx})

				continue
			}

			m.args = append(m.args, bodyArg{param: -1, typ: nb.typeOf(nb.operand(a))})
		}

		return m
	}

	return nil
}

// initializer returns the initializer of the first declaration in root.
func initializer(root *sitter.Node) *sitter.Node {
	for d := range namedChildren(root) {
		if d.Type() != "declaration" {
			continue
		}

		for c := range namedChildren(d) {
			if c.Type() == "init_declarator" {
				return c.ChildByFieldName("value")
			}
		}
	}

	return nil
}

// expand records an expansion of def over r.
func (b *builder) expand(def *cxx.MacroDef, r cxx.Range) *cxx.MacroExpansion {
	exp := &cxx.MacroExpansion{Name: def.Name, Range: r, Def: def}
	b.expansions = append(b.expansions, *exp)

	return exp
}

// expandCall converts a call-shaped macro use NAME(args).
func (b *builder) expandCall(n, fn *sitter.Node, def *cxx.MacroDef, lparen token.Pos, args []cxx.Expr, rparen token.Pos) cxx.Expr {
	argTypes := b.argTypes(args)

	if !def.FunctionLike {
		// An object-like macro naming a class, followed by its own arguments.
		exp := b.expand(def, b.rng(fn))

		if body := b.body(def); body != nil && !body.call {
			return &cxx.ConstructExpr{
				Type:   exp.Range,
				Class:  body.class,
				Lparen: lparen,
				Args:   args,
				Rparen: rparen,
				Ctor:   b.classes.resolve(body.class, argTypes),
				Macro:  exp,
			}
		}

		return &cxx.CallExpr{Fun: &cxx.Ident{Range: exp.Range, Name: def.Name}, Lparen: lparen, Args: args, Rparen: rparen}
	}

	exp := b.expand(def, b.rng(n))

	if body := b.body(def); body != nil && body.call {
		return &cxx.ConstructExpr{
			Type:  exp.Range,
			Class: body.class,
			Args:  args,
			Ctor:  b.classes.resolve(body.class, body.types(argTypes)),
			Macro: exp,
		}
	}

	return &cxx.CallExpr{Fun: &cxx.Ident{Range: b.rng(fn), Name: def.Name}, Lparen: lparen, Args: args, Rparen: rparen}
}
