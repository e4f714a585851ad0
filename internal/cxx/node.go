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

// Package cxx models the expression-level AST of a C++ translation unit as
// delivered by a front-end: nodes with [token.Pos] positions, the constructor
// selected for every construct expression, and the macro expansions seen
// while parsing.
package cxx

import (
	"go/token"
	"strings"
)

// Node is a node of the expression tree.
type Node interface {
	Pos() token.Pos // position of first character belonging to the node
	End() token.Pos // position of first character immediately after the node
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// ParamDecl is a declared constructor parameter.
//
// Type is the canonical spelling of the declared type, e.g. "const char *".
type ParamDecl struct {
	Name string
	Type string
}

// CtorDecl is a constructor declaration.
type CtorDecl struct {
	Class    string
	Params   []ParamDecl
	Required int // number of parameters without a default argument
	Explicit bool
}

// String returns the constructor signature, e.g. "QLatin1String(const char *)".
func (c *CtorDecl) String() string {
	if c == nil {
		return "<nil>"
	}

	var b strings.Builder

	b.WriteString(c.Class) // ignore error
	b.WriteByte('(')       // ignore error

	for i, p := range c.Params {
		if i > 0 {
			b.WriteString(", ") // ignore error
		}

		b.WriteString(p.Type) // ignore error
	}

	b.WriteByte(')') // ignore error

	return b.String()
}

type (
	// ConstructExpr is the construction of a class object with an explicit
	// argument list, e.g. QLatin1String("str") or QString{s}.
	//
	// When the class name is spelled by a macro, Macro is set and Type is the
	// macro invocation. Invocations of function-like macros whose body is a
	// construct have no parentheses of their own and span the invocation.
	ConstructExpr struct {
		Type      Range // spelled type name, without qualifier
		Qualified bool  // type name is spelled with a scope qualifier
		Class     string
		Lparen    token.Pos // position of "(" or "{"; NoPos for macro bodies
		Args      []Expr
		Rparen    token.Pos // position of ")" or "}"; NoPos for macro bodies
		Ctor      *CtorDecl // selected constructor; nil if unresolved
		Macro     *MacroExpansion
	}

	// CallExpr is a call of a free function or function-like macro.
	CallExpr struct {
		Fun    Expr
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// MemberCallExpr is a method call recv.Method(args) or recv->Method(args).
	MemberCallExpr struct {
		Recv   Expr
		Arrow  bool
		Method *Ident
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// ConditionalExpr is cond ? then : else.
	ConditionalExpr struct {
		Cond Expr
		Then Expr
		Else Expr
	}

	// ParenExpr is a parenthesized expression.
	ParenExpr struct {
		Lparen token.Pos
		X      Expr
		Rparen token.Pos
	}

	// BinaryExpr is a binary or assignment expression.
	BinaryExpr struct {
		X  Expr
		Op string
		Y  Expr
	}

	// StringLiteral is a (possibly concatenated) string literal.
	StringLiteral struct {
		Range
		Prefix string // "", "u8", "u", "U", "L", optionally followed by "R"
		Value  string // source spelling
	}

	// Literal is a non-string literal.
	Literal struct {
		Range
		Kind  LitKind
		Value string
	}

	// Ident is an identifier or qualified name.
	Ident struct {
		Range
		Name string
	}

	// InitExpr is a variable declaration with an initializer.
	InitExpr struct {
		Type Range
		Name *Ident
		Init Expr   // copy initializer; nil for direct initialization
		Args []Expr // direct initialization arguments
		Stop token.Pos
	}

	// OtherExpr is any other expression; its operands are still visited.
	OtherExpr struct {
		Range
		Kind string
		List []Expr
	}
)

// LitKind is the kind of a [Literal].
type LitKind uint8

//go:generate go tool stringer -type LitKind -trimprefix Lit
const (
	LitInvalid LitKind = iota
	LitBool
	LitInt
	LitFloat
	LitChar
	LitNullptr
)

// Pos and End implementations.

func (x *ConstructExpr) Pos() token.Pos { return x.Type.Start }

func (x *ConstructExpr) End() token.Pos {
	if x.Rparen.IsValid() {
		return x.Rparen + 1
	}

	return x.Type.Stop
}

func (x *CallExpr) Pos() token.Pos        { return x.Fun.Pos() }
func (x *CallExpr) End() token.Pos        { return x.Rparen + 1 }
func (x *MemberCallExpr) Pos() token.Pos  { return x.Recv.Pos() }
func (x *MemberCallExpr) End() token.Pos  { return x.Rparen + 1 }
func (x *ConditionalExpr) Pos() token.Pos { return x.Cond.Pos() }
func (x *ConditionalExpr) End() token.Pos { return x.Else.End() }
func (x *ParenExpr) Pos() token.Pos       { return x.Lparen }
func (x *ParenExpr) End() token.Pos       { return x.Rparen + 1 }
func (x *BinaryExpr) Pos() token.Pos      { return x.X.Pos() }
func (x *BinaryExpr) End() token.Pos      { return x.Y.End() }
func (x *InitExpr) Pos() token.Pos        { return x.Type.Start }
func (x *InitExpr) End() token.Pos        { return x.Stop }

func (*ConstructExpr) exprNode()   {}
func (*CallExpr) exprNode()        {}
func (*MemberCallExpr) exprNode()  {}
func (*ConditionalExpr) exprNode() {}
func (*ParenExpr) exprNode()       {}
func (*BinaryExpr) exprNode()      {}
func (*StringLiteral) exprNode()   {}
func (*Literal) exprNode()         {}
func (*Ident) exprNode()           {}
func (*InitExpr) exprNode()        {}
func (*OtherExpr) exprNode()       {}
