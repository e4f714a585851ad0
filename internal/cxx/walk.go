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

package cxx

import "iter"

// Visitor receives the callbacks of a translation unit walk.
//
// A walk calls BeginUnit once, then OnMacroExpansion for every macro
// expansion in source order, then OnNode for every expression in depth-first
// pre-order. Calls are never concurrent.
type Visitor interface {
	BeginUnit(u *TranslationUnit)
	OnMacroExpansion(name string, r Range)
	OnNode(n Node)
}

// Walk drives v over the translation unit u.
func Walk(u *TranslationUnit, v Visitor) {
	v.BeginUnit(u)

	for _, m := range u.Macros {
		v.OnMacroExpansion(m.Name, m.Range)
	}

	for n := range Preorder(u.Nodes...) {
		v.OnNode(n)
	}
}

// Preorder yields all nodes reachable from roots in depth-first pre-order.
func Preorder(roots ...Expr) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var walk func(x Expr) bool

		walk = func(x Expr) bool {
			if x == nil {
				return true
			}

			if !yield(x) {
				return false
			}

			for _, c := range Children(x) {
				if !walk(c) {
					return false
				}
			}

			return true
		}

		for _, root := range roots {
			if !walk(root) {
				return
			}
		}
	}
}

// Inspect traverses the tree rooted at x in depth-first order, calling f for
// each node. When f returns false, the children of that node are skipped.
func Inspect(x Expr, f func(Node) bool) {
	if x == nil || !f(x) {
		return
	}

	for _, c := range Children(x) {
		Inspect(c, f)
	}
}

// Children returns the direct operands of x in source order.
func Children(x Expr) []Expr {
	switch x := x.(type) {
	case *ConstructExpr:
		return x.Args

	case *CallExpr:
		return append([]Expr{x.Fun}, x.Args...)

	case *MemberCallExpr:
		return append([]Expr{x.Recv}, x.Args...)

	case *ConditionalExpr:
		return []Expr{x.Cond, x.Then, x.Else}

	case *ParenExpr:
		return []Expr{x.X}

	case *BinaryExpr:
		return []Expr{x.X, x.Y}

	case *InitExpr:
		if x.Init != nil {
			return []Expr{x.Init}
		}

		return x.Args

	case *OtherExpr:
		return x.List
	}

	return nil
}
