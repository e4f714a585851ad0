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

// Package latin1 implements the qt6-qlatin1string-to-u check.
//
// The check finds constructions of QLatin1String from a narrow string
// pointer and suggests replacing the class name with u, so that
// QLatin1String("str") becomes u("str").
package latin1

import (
	"go/token"
	"log/slog"

	"fillmore-labs.com/latin1tou/internal/cxx"
	"fillmore-labs.com/latin1tou/internal/report"
)

// Emitter receives the findings of a [Check].
type Emitter interface {
	EmitDiagnostic(pos token.Pos, message string, edits []report.FixEdit)
	EmitManualFixNeeded(pos token.Pos)
}

// Check is a [cxx.Visitor] reporting interesting constructor calls.
// A Check must not be used for concurrent walks.
type Check struct {
	target   Target
	emitter  Emitter
	newLexer func(u *cxx.TranslationUnit) Lexer
	lexer    Lexer
	macros   MacroTracker
}

// Option configures a [Check].
type Option func(c *Check)

// WithLexer replaces the raw lexer created for each translation unit.
func WithLexer(newLexer func(u *cxx.TranslationUnit) Lexer) Option {
	return func(c *Check) {
		c.newLexer = newLexer
	}
}

// New creates a [Check] for target reporting to emitter.
func New(target Target, emitter Emitter, opts ...Option) *Check {
	c := &Check{
		target:   target,
		emitter:  emitter,
		newLexer: func(u *cxx.TranslationUnit) Lexer { return u.Lexer() },
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BeginUnit implements [cxx.Visitor].
func (c *Check) BeginUnit(u *cxx.TranslationUnit) {
	c.macros.Reset()
	c.lexer = c.newLexer(u)
}

// OnMacroExpansion implements [cxx.Visitor].
func (c *Check) OnMacroExpansion(_ string, r cxx.Range) {
	c.macros.Record(r)
}

// OnNode implements [cxx.Visitor].
func (c *Check) OnNode(n cxx.Node) {
	ctor, ok := n.(*cxx.ConstructExpr)
	if !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Debug("Internal error in check", slog.Any("target", c.target), slog.Any("panic", r))
		}
	}()

	c.visit(ctor)
}

func (c *Check) visit(ctor *cxx.ConstructExpr) {
	match, isCharArray := c.target.Match(ctor.Ctor)
	if !match || !isCharArray {
		return
	}

	start := ctor.Pos()

	// Replacing only the name of ::QLatin1String would leave ::u.
	if c.lexer == nil || ctor.Qualified {
		c.emitter.EmitManualFixNeeded(start)

		return
	}

	if c.macros.Overlaps(cxx.Range{Start: start, Stop: ctor.End()}) {
		slog.Debug("Constructor call in macro expansion", slog.String("ctor", ctor.Ctor.String()), slog.Int("pos", int(start)))
	}

	edit, ok := c.fixRange(start)
	if !ok {
		c.emitter.EmitManualFixNeeded(start)

		return
	}

	c.emitter.EmitDiagnostic(start, c.target.Message(), []report.FixEdit{edit})
}
