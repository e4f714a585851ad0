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

// Package parse is a C++ front-end producing [cxx.TranslationUnit] values.
//
// It uses the tree-sitter C++ grammar for syntax and adds a light semantic
// layer: constructor declarations are collected from the unit and from a
// built-in Qt prelude, construct expressions are resolved against them by
// arity and argument type, and macro definitions are tracked so that their
// expansions can be reported.
//
// The front-end does not run a preprocessor. Included headers are not read,
// and only macro bodies consisting of a single constructor call are
// understood.
package parse

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"runtime/trace"
	"slices"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"fillmore-labs.com/latin1tou/internal/cxx"
)

// Sentinel errors returned by [Parser.Parse].
var (
	// ErrFileTooLarge is returned when the source exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidContent is returned for sources that are not valid UTF-8 or
	// do not match their registered file.
	ErrInvalidContent = errors.New("invalid content")
)

const (
	// DefaultMaxFileSize is the default limit for source files.
	DefaultMaxFileSize = 10 << 20

	// warnFileSize is the size above which parsing logs a warning.
	warnFileSize = 1 << 20
)

// Option configures a [Parser].
type Option func(*Parser)

// WithMaxFileSize sets the maximum file size the parser accepts.
// Non-positive values are ignored.
func WithMaxFileSize(bytes int) Option {
	return func(p *Parser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// WithPrelude configures whether the built-in Qt class declarations are used.
func WithPrelude(prelude bool) Option {
	return func(p *Parser) {
		p.prelude = prelude
	}
}

// Parser is the tree-sitter based C++ front-end.
//
// A Parser is safe for concurrent use; every call to Parse creates its own
// tree-sitter parser.
type Parser struct {
	maxFileSize int
	prelude     bool
}

// New creates a [Parser] with the given options applied.
func New(opts ...Option) *Parser {
	p := &Parser{
		maxFileSize: DefaultMaxFileSize,
		prelude:     true,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse builds the translation unit for src, which must be the content of file.
func (p *Parser) Parse(ctx context.Context, file *token.File, src []byte) (*cxx.TranslationUnit, error) {
	defer trace.StartRegion(ctx, "Parse").End()

	if len(src) > p.maxFileSize {
		return nil, fmt.Errorf("%w: %s size %d exceeds limit %d", ErrFileTooLarge, file.Name(), len(src), p.maxFileSize)
	}

	if len(src) > warnFileSize {
		slog.WarnContext(ctx, "parsing large file", slog.String("file", file.Name()), slog.Int("size_bytes", len(src)))
	}

	if file.Size() != len(src) {
		return nil, fmt.Errorf("%w: %s registered with size %d, got %d bytes", ErrInvalidContent, file.Name(), file.Size(), len(src))
	}

	if !utf8.Valid(src) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidContent, file.Name())
	}

	root, closeTree, err := parseTree(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Name(), err)
	}
	defer closeTree()

	var classes classTable
	if p.prelude {
		classes = preludeClasses().clone()
	} else {
		classes = make(classTable)
	}

	b := newBuilder(ctx, file, src, classes)
	b.declare(root)

	nodes := b.collect(root)

	slices.SortStableFunc(b.expansions, func(x, y cxx.MacroExpansion) int {
		return cmp.Compare(x.Range.Start, y.Range.Start)
	})

	unit := &cxx.TranslationUnit{
		File:   file,
		Src:    src,
		Nodes:  nodes,
		Macros: b.expansions,
		Tokens: b.tokens(root),
	}

	if root.HasError() {
		unit.Errors = append(unit.Errors, "source contains syntax errors")
	}

	return unit, nil
}

// parseTree runs tree-sitter over src. The returned function releases the tree.
func parseTree(ctx context.Context, src []byte) (*sitter.Node, func(), error) {
	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()

		return nil, nil, errors.New("tree-sitter returned nil root node")
	}

	return root, tree.Close, nil
}
