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
	"context"
	"go/token"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"

	"fillmore-labs.com/latin1tou/internal/cxx"
)

// builder converts a tree-sitter syntax tree into the [cxx] node model.
type builder struct {
	ctx        context.Context //nolint:containedctx
	file       *token.File
	src        []byte
	classes    classTable
	macros     map[string]*cxx.MacroDef
	bodies     map[string]*macroBody
	scope      *scope
	fields     map[string]string // data members of all classes
	expansions []cxx.MacroExpansion
}

func newBuilder(ctx context.Context, file *token.File, src []byte, classes classTable) *builder {
	return &builder{
		ctx:     ctx,
		file:    file,
		src:     src,
		classes: classes,
		macros:  make(map[string]*cxx.MacroDef),
		bodies:  make(map[string]*macroBody),
		scope:   newScope(nil),
		fields:  make(map[string]string),
	}
}

// exprKinds are the tree-sitter node types converted as expressions.
var exprKinds = map[string]bool{
	"call_expression":             true,
	"field_expression":            true,
	"conditional_expression":      true,
	"parenthesized_expression":    true,
	"assignment_expression":       true,
	"binary_expression":           true,
	"unary_expression":            true,
	"update_expression":           true,
	"pointer_expression":          true,
	"cast_expression":             true,
	"subscript_expression":        true,
	"sizeof_expression":           true,
	"new_expression":              true,
	"delete_expression":           true,
	"lambda_expression":           true,
	"comma_expression":            true,
	"compound_literal_expression": true,
	"user_defined_literal":        true,
	"string_literal":              true,
	"raw_string_literal":          true,
	"concatenated_string":         true,
	"char_literal":                true,
	"number_literal":              true,
	"true":                        true,
	"false":                       true,
	"null":                        true,
	"nullptr":                     true,
	"identifier":                  true,
	"qualified_identifier":        true,
	"this":                        true,
}

// skipKinds are subtrees that never contain analyzed expressions.
var skipKinds = map[string]bool{
	"comment":                true,
	"preproc_def":            true,
	"preproc_function_def":   true,
	"preproc_include":        true,
	"preproc_call":           true,
	"type_identifier":        true,
	"primitive_type":         true,
	"template_argument_list": true,
}

// scopeKinds open a block scope for the variables declared below them.
var scopeKinds = map[string]bool{
	"function_definition": true,
	"compound_statement":  true,
	"lambda_expression":   true,
	"if_statement":        true,
	"for_statement":       true,
	"for_range_loop":      true,
	"while_statement":     true,
	"switch_statement":    true,
	"catch_clause":        true,
}

// declKinds are the nodes whose "declarator" fields declare names.
var declKinds = map[string]bool{
	"function_definition":            true,
	"declaration":                    true,
	"field_declaration":              true,
	"parameter_declaration":          true,
	"optional_parameter_declaration": true,
	"for_range_loop":                 true,
}

// collect converts all maximal expressions below n in source order.
func (b *builder) collect(n *sitter.Node) []cxx.Expr {
	if scopeKinds[n.Type()] {
		b.scope = newScope(b.scope)
		defer func() { b.scope = b.scope.parent }()
	}

	declares := declKinds[n.Type()]
	if declares && n.Type() != "field_declaration" {
		b.declareVars(n, b.scope.vars)
	}

	var out []cxx.Expr

	for c, field := range fieldChildren(n) {
		switch t := c.Type(); {
		case !c.IsNamed(), skipKinds[t]:
			continue

		case t == "init_declarator":
			out = append(out, b.initDecl(n, c))

		case declares && field == "declarator":
			out = append(out, b.declarator(n, c)...)

		case exprKinds[t]:
			if x := b.expr(c); x != nil {
				out = append(out, x)
			}

		default:
			out = append(out, b.collect(c)...)
		}
	}

	return out
}

// declarator converts the expressions in the declarator d of decl: the
// parameters of a function declarator. Declared names are not expressions.
func (b *builder) declarator(decl, d *sitter.Node) []cxx.Expr {
	fd := functionDeclarator(d)
	if fd == nil {
		return nil
	}

	params := fd.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	if decl.Type() != "function_definition" {
		// Prototype parameters are not visible after the declaration.
		b.scope = newScope(b.scope)
		defer func() { b.scope = b.scope.parent }()
	}

	return b.collect(params)
}

// expr converts an expression node.
func (b *builder) expr(n *sitter.Node) cxx.Expr {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "call_expression":
		return b.call(n)

	case "compound_literal_expression":
		return b.braced(n)

	case "new_expression":
		return b.newExpr(n)

	case "conditional_expression":
		cond, then, els := n.ChildByFieldName("condition"), n.ChildByFieldName("consequence"), n.ChildByFieldName("alternative")
		if cond == nil || then == nil || els == nil {
			break // GNU a ?: b
		}

		return &cxx.ConditionalExpr{Cond: b.operand(cond), Then: b.operand(then), Else: b.operand(els)}

	case "parenthesized_expression":
		inner := firstNamed(n)
		if inner == nil {
			break
		}

		return &cxx.ParenExpr{Lparen: b.pos(n.StartByte()), X: b.operand(inner), Rparen: b.pos(n.EndByte()) - 1}

	case "assignment_expression", "binary_expression":
		left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
		if left == nil || right == nil {
			break
		}

		op := ""
		if o := n.ChildByFieldName("operator"); o != nil {
			op = b.text(o)
		}

		return &cxx.BinaryExpr{X: b.operand(left), Op: op, Y: b.operand(right)}

	case "string_literal", "raw_string_literal", "concatenated_string":
		return b.stringLit(n)

	case "char_literal":
		return &cxx.Literal{Range: b.rng(n), Kind: cxx.LitChar, Value: b.text(n)}

	case "number_literal":
		kind := cxx.LitInt
		if isFloat(b.text(n)) {
			kind = cxx.LitFloat
		}

		return &cxx.Literal{Range: b.rng(n), Kind: kind, Value: b.text(n)}

	case "true", "false":
		return &cxx.Literal{Range: b.rng(n), Kind: cxx.LitBool, Value: b.text(n)}

	case "null", "nullptr":
		return &cxx.Literal{Range: b.rng(n), Kind: cxx.LitNullptr, Value: b.text(n)}

	case "identifier":
		return b.ident(n)

	case "qualified_identifier", "this":
		return &cxx.Ident{Range: b.rng(n), Name: b.text(n)}
	}

	return &cxx.OtherExpr{Range: b.rng(n), Kind: n.Type(), List: b.collect(n)}
}

// operand converts a child that is expected to be an expression.
func (b *builder) operand(n *sitter.Node) cxx.Expr {
	if exprKinds[n.Type()] {
		return b.expr(n)
	}

	return &cxx.OtherExpr{Range: b.rng(n), Kind: n.Type(), List: b.collect(n)}
}

// call converts a call expression into a construct, member call, macro
// invocation or plain call.
func (b *builder) call(n *sitter.Node) cxx.Expr {
	fn, argList := n.ChildByFieldName("function"), n.ChildByFieldName("arguments")
	if fn == nil || argList == nil {
		return &cxx.OtherExpr{Range: b.rng(n), Kind: n.Type(), List: b.collect(n)}
	}

	lparen, rparen := b.delimiters(argList)
	args := b.collect(argList)

	switch fn.Type() {
	case "field_expression":
		recv, field := fn.ChildByFieldName("argument"), fn.ChildByFieldName("field")
		if recv == nil || field == nil {
			break
		}

		arrow := false
		if op := fn.ChildByFieldName("operator"); op != nil {
			arrow = b.text(op) == "->"
		}

		return &cxx.MemberCallExpr{
			Recv:   b.operand(recv),
			Arrow:  arrow,
			Method: &cxx.Ident{Range: b.rng(field), Name: b.text(field)},
			Lparen: lparen,
			Args:   args,
			Rparen: rparen,
		}

	case "identifier", "qualified_identifier", "template_function":
		name := b.text(fn)

		if def, ok := b.macros[name]; ok {
			return b.expandCall(n, fn, def, lparen, args, rparen)
		}

		if class, ok := b.classes.lookup(name); ok {
			return b.construct(fn, class, lparen, args, rparen)
		}
	}

	return &cxx.CallExpr{Fun: b.operand(fn), Lparen: lparen, Args: args, Rparen: rparen}
}

// braced converts T{args}.
func (b *builder) braced(n *sitter.Node) cxx.Expr {
	typ, value := n.ChildByFieldName("type"), n.ChildByFieldName("value")
	if typ != nil && value != nil {
		if class, ok := b.classes.lookup(b.text(typ)); ok {
			lbrace, rbrace := b.delimiters(value)

			return b.construct(typ, class, lbrace, b.collect(value), rbrace)
		}
	}

	return &cxx.OtherExpr{Range: b.rng(n), Kind: n.Type(), List: b.collect(n)}
}

// newExpr converts new T(args) and new T{args}, keeping the placement
// arguments.
func (b *builder) newExpr(n *sitter.Node) cxx.Expr {
	typ, argList := n.ChildByFieldName("type"), n.ChildByFieldName("arguments")
	if typ == nil || argList == nil {
		return &cxx.OtherExpr{Range: b.rng(n), Kind: n.Type(), List: b.collect(n)}
	}

	class, ok := b.classes.lookup(b.text(typ))
	if !ok {
		return &cxx.OtherExpr{Range: b.rng(n), Kind: n.Type(), List: b.collect(n)}
	}

	var list []cxx.Expr
	if placement := n.ChildByFieldName("placement"); placement != nil {
		list = b.collect(placement)
	}

	lparen, rparen := b.delimiters(argList)
	list = append(list, b.construct(typ, class, lparen, b.collect(argList), rparen))

	return &cxx.OtherExpr{Range: b.rng(n), Kind: n.Type(), List: list}
}

// construct creates the construction of class spelled by typ.
func (b *builder) construct(typ *sitter.Node, class string, lparen token.Pos, args []cxx.Expr, rparen token.Pos) *cxx.ConstructExpr {
	return &cxx.ConstructExpr{
		Type:      b.rng(unqualified(typ)),
		Qualified: typ.Type() == "qualified_identifier",
		Class:     class,
		Lparen:    lparen,
		Args:      args,
		Rparen:    rparen,
		Ctor:      b.classes.resolve(class, b.argTypes(args)),
	}
}

// ident converts an identifier, expanding object-like macros.
func (b *builder) ident(n *sitter.Node) cxx.Expr {
	name := b.text(n)

	def, ok := b.macros[name]
	if !ok || def.FunctionLike {
		return &cxx.Ident{Range: b.rng(n), Name: name}
	}

	exp := b.expand(def, b.rng(n))

	if body := b.body(def); body != nil && body.call {
		return &cxx.ConstructExpr{
			Type:  exp.Range,
			Class: body.class,
			Ctor:  b.classes.resolve(body.class, body.types(nil)),
			Macro: exp,
		}
	}

	return &cxx.Ident{Range: b.rng(n), Name: name}
}

// initDecl converts a declarator with initializer.
func (b *builder) initDecl(decl, n *sitter.Node) cxx.Expr {
	x := &cxx.InitExpr{Stop: b.pos(n.EndByte())}

	if typ := decl.ChildByFieldName("type"); typ != nil {
		x.Type = b.rng(typ)
	} else {
		x.Type = cxx.Range{Start: b.pos(n.StartByte()), Stop: b.pos(n.StartByte())}
	}

	if d := n.ChildByFieldName("declarator"); d != nil {
		if id := declaratorName(d); id != nil {
			x.Name = &cxx.Ident{Range: b.rng(id), Name: b.text(id)}
		}
	}

	if x.Name == nil {
		x.Name = &cxx.Ident{Range: cxx.Range{Start: x.Type.Stop, Stop: x.Type.Stop}}
	}

	switch value := n.ChildByFieldName("value"); {
	case value == nil:

	case value.Type() == "argument_list", value.Type() == "initializer_list":
		x.Args = b.collect(value)

	default:
		x.Init = b.operand(value)
	}

	return x
}

func (b *builder) stringLit(n *sitter.Node) *cxx.StringLiteral {
	first := n
	if n.Type() == "concatenated_string" {
		if c := firstNamed(n); c != nil {
			first = c
		}
	}

	prefix, _, _ := strings.Cut(b.text(first), `"`)

	return &cxx.StringLiteral{Range: b.rng(n), Prefix: prefix, Value: b.text(n)}
}

// delimiters returns the positions of the opening and closing tokens of a list.
func (b *builder) delimiters(list *sitter.Node) (open, closing token.Pos) {
	open = b.pos(list.StartByte())

	closing = b.pos(list.EndByte())
	if closing > open {
		closing--
	}

	return open, closing
}

func (b *builder) pos(offset uint32) token.Pos {
	off, err := safecast.Conv[int](offset)
	if err != nil || off > b.file.Size() {
		return token.NoPos
	}

	return b.file.Pos(off)
}

func (b *builder) rng(n *sitter.Node) cxx.Range {
	return cxx.Range{Start: b.pos(n.StartByte()), Stop: b.pos(n.EndByte())}
}

func (b *builder) text(n *sitter.Node) string {
	return n.Content(b.src)
}

// namedChildren yields the named children of n.
func namedChildren(n *sitter.Node) func(yield func(*sitter.Node) bool) {
	return func(yield func(*sitter.Node) bool) {
		for i := range int(n.NamedChildCount()) {
			c := n.NamedChild(i)
			if c == nil {
				continue
			}

			if !yield(c) {
				return
			}
		}
	}
}

// fieldChildren yields all children of n with their field names.
func fieldChildren(n *sitter.Node) func(yield func(*sitter.Node, string) bool) {
	return func(yield func(*sitter.Node, string) bool) {
		c := sitter.NewTreeCursor(n)
		defer c.Close()

		if !c.GoToFirstChild() {
			return
		}

		for {
			if node := c.CurrentNode(); node != nil && !yield(node, c.CurrentFieldName()) {
				return
			}

			if !c.GoToNextSibling() {
				return
			}
		}
	}
}

// children yields all children of n, including anonymous tokens.
func children(n *sitter.Node) func(yield func(*sitter.Node) bool) {
	return func(yield func(*sitter.Node) bool) {
		for i := range int(n.ChildCount()) {
			c := n.Child(i)
			if c == nil {
				continue
			}

			if !yield(c) {
				return
			}
		}
	}
}

// unqualified returns the name part of a qualified identifier.
func unqualified(n *sitter.Node) *sitter.Node {
	for n.Type() == "qualified_identifier" {
		name := n.ChildByFieldName("name")
		if name == nil {
			break
		}

		n = name
	}

	return n
}

// firstNamed returns the first named child of n that is not a comment.
func firstNamed(n *sitter.Node) *sitter.Node {
	for c := range namedChildren(n) {
		if c.Type() != "comment" {
			return c
		}
	}

	return nil
}

func isFloat(lit string) bool {
	lit = strings.ToLower(lit)
	if strings.HasPrefix(lit, "0x") {
		return strings.ContainsAny(lit, ".p")
	}

	return strings.ContainsAny(lit, ".e")
}

// atomicKinds are nodes recorded as a single raw token although tree-sitter
// splits them into delimiters and content.
var atomicKinds = map[string]bool{
	"string_literal":       true,
	"raw_string_literal":   true,
	"char_literal":         true,
	"user_defined_literal": true,
	"system_lib_string":    true,
}

// tokens returns the raw tokens below root in source order. Comments and
// unparsed macro bodies are not tokens.
func (b *builder) tokens(root *sitter.Node) []cxx.Range {
	var out []cxx.Range

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch t := n.Type(); {
		case t == "comment", t == "preproc_arg":
			return

		case n.EndByte() <= n.StartByte():
			return // missing node

		case atomicKinds[t], n.ChildCount() == 0:
			out = append(out, b.rng(n))

			return
		}

		for c := range children(n) {
			walk(c)
		}
	}

	for c := range children(root) {
		walk(c)
	}

	return out
}
