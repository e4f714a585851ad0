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
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"fillmore-labs.com/latin1tou/internal/cxx"
)

// declare records class constructors, macro definitions and data member types
// declared anywhere in the tree rooted at n. Variables are declared in their
// scope during [builder.collect].
func (b *builder) declare(n *sitter.Node) {
	switch n.Type() {
	case "class_specifier", "struct_specifier":
		b.declareClass(n)

	case "preproc_def", "preproc_function_def":
		b.declareMacro(n)

	case "field_declaration":
		b.declareVars(n, b.fields)
	}

	for c := range namedChildren(n) {
		b.declare(c)
	}
}

// declareClass collects the constructors of a class definition.
func (b *builder) declareClass(n *sitter.Node) {
	name, body := n.ChildByFieldName("name"), n.ChildByFieldName("body")
	if name == nil || body == nil {
		return // forward declaration or anonymous
	}

	class := b.text(name)

	var (
		ctors    []*cxx.CtorDecl
		declared bool // any user-declared constructor, including deleted ones
		hasCopy  bool
	)

	for m := range namedChildren(body) {
		switch m.Type() {
		case "declaration", "field_declaration", "function_definition":
		default:
			continue
		}

		fd := functionDeclarator(m.ChildByFieldName("declarator"))
		if fd == nil {
			continue
		}

		if d := fd.ChildByFieldName("declarator"); d == nil || b.text(d) != class {
			continue
		}

		declared = true

		ctor := &cxx.CtorDecl{Class: class, Explicit: hasChild(m, "explicit_function_specifier")}

		if params := fd.ChildByFieldName("parameters"); params != nil {
			for p := range namedChildren(params) {
				switch p.Type() {
				case "parameter_declaration":
					ctor.Params = append(ctor.Params, b.param(p))
					ctor.Required++

				case "optional_parameter_declaration":
					ctor.Params = append(ctor.Params, b.param(p))
				}
			}
		}

		if len(ctor.Params) == 1 && ctor.Params[0].Type == "const "+class+" &" {
			hasCopy = true
		}

		if hasChild(m, "delete_method_clause") {
			continue
		}

		ctors = append(ctors, ctor)
	}

	if !declared {
		ctors = append(ctors, &cxx.CtorDecl{Class: class})
	}

	if !hasCopy {
		ctors = append(ctors, &cxx.CtorDecl{
			Class:    class,
			Params:   []cxx.ParamDecl{{Type: "const " + class + " &"}},
			Required: 1,
		})
	}

	b.classes[class] = ctors
}

// declareMacro records a macro definition.
func (b *builder) declareMacro(n *sitter.Node) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}

	def := &cxx.MacroDef{Name: b.text(name)}

	if value := childOf(n, "value", "preproc_arg"); value != nil {
		def.Body = strings.TrimSpace(b.text(value))
	}

	if params := childOf(n, "parameters", "preproc_params"); params != nil {
		def.FunctionLike = true

		for p := range namedChildren(params) {
			if p.Type() == "identifier" {
				def.Params = append(def.Params, b.text(p))
			}
		}
	}

	b.macros[def.Name] = def
	delete(b.bodies, def.Name)
}

// declareVars records the declared types of the variables and parameters
// declared by n in vars.
func (b *builder) declareVars(n *sitter.Node, vars map[string]string) {
	typ := n.ChildByFieldName("type")
	if typ == nil || b.text(typ) == "auto" {
		return
	}

	base := b.baseType(n, typ)

	for d, field := range fieldChildren(n) {
		if field != "declarator" || !declaratorKinds[d.Type()] || functionDeclarator(d) != nil {
			continue
		}

		if id := declaratorName(d); id != nil {
			vars[b.text(id)] = renderDeclarator(base, d, b.src)
		}
	}
}

var declaratorKinds = map[string]bool{
	"identifier":           true,
	"field_identifier":     true,
	"init_declarator":      true,
	"pointer_declarator":   true,
	"reference_declarator": true,
	"array_declarator":     true,
}

// param converts a parameter declaration.
func (b *builder) param(p *sitter.Node) cxx.ParamDecl {
	typ := p.ChildByFieldName("type")
	if typ == nil {
		return cxx.ParamDecl{}
	}

	base := b.baseType(p, typ)

	d := p.ChildByFieldName("declarator")
	if d == nil {
		return cxx.ParamDecl{Type: base}
	}

	var name string
	if id := declaratorName(d); id != nil {
		name = b.text(id)
	}

	return cxx.ParamDecl{Name: name, Type: renderDeclarator(base, d, b.src)}
}

// baseType renders the declaration specifiers, e.g. "const char".
func (b *builder) baseType(decl, typ *sitter.Node) string {
	spelled := strings.Join(strings.Fields(b.text(typ)), " ")

	for c := range namedChildren(decl) {
		if c.Type() == "type_qualifier" && c.Content(b.src) == "const" {
			return "const " + spelled
		}
	}

	return spelled
}

// renderDeclarator applies pointer, reference and array declarators to base,
// spelled the way clang prints types: "const char *", "const QString &",
// "char *const".
func renderDeclarator(base string, d *sitter.Node, src []byte) string {
	typ := base

	for d != nil {
		switch d.Type() {
		case "pointer_declarator", "abstract_pointer_declarator":
			typ = appendDecl(typ, "*")

			for c := range namedChildren(d) {
				if c.Type() == "type_qualifier" {
					typ += c.Content(src)
				}
			}

		case "reference_declarator", "abstract_reference_declarator":
			ref := "&"
			if strings.HasPrefix(d.Content(src), "&&") {
				ref = "&&"
			}

			typ = appendDecl(typ, ref)

		case "array_declarator", "abstract_array_declarator":
			typ = appendDecl(typ, "*")

		case "init_declarator":

		default:
			return typ
		}

		d = innerDeclarator(d)
	}

	return typ
}

func appendDecl(typ, op string) string {
	if strings.HasSuffix(typ, "*") || strings.HasSuffix(typ, "&") {
		return typ + op
	}

	return typ + " " + op
}

// declaratorName returns the identifier declared by d.
func declaratorName(d *sitter.Node) *sitter.Node {
	for d != nil {
		switch d.Type() {
		case "identifier", "field_identifier", "qualified_identifier", "operator_name", "destructor_name":
			return d
		}

		d = innerDeclarator(d)
	}

	return nil
}

// functionDeclarator unwraps d down to a function declarator, if any.
func functionDeclarator(d *sitter.Node) *sitter.Node {
	for d != nil {
		switch d.Type() {
		case "function_declarator":
			return d

		case "identifier", "field_identifier", "qualified_identifier":
			return nil
		}

		d = innerDeclarator(d)
	}

	return nil
}

// innerDeclarator returns the declarator nested in d.
func innerDeclarator(d *sitter.Node) *sitter.Node {
	if inner := d.ChildByFieldName("declarator"); inner != nil {
		return inner
	}

	switch d.Type() {
	case "reference_declarator", "abstract_reference_declarator", "parenthesized_declarator":
		for c := range namedChildren(d) {
			if c.Type() != "type_qualifier" {
				return c
			}
		}
	}

	return nil
}

// childOf returns the child in field, falling back to the first child of kind.
func childOf(n *sitter.Node, field, kind string) *sitter.Node {
	if c := n.ChildByFieldName(field); c != nil {
		return c
	}

	for c := range namedChildren(n) {
		if c.Type() == kind {
			return c
		}
	}

	return nil
}

func hasChild(n *sitter.Node, kind string) bool {
	for c := range namedChildren(n) {
		if c.Type() == kind {
			return true
		}
	}

	return false
}
