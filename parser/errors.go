// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"fmt"

	"github.com/sonlang/sonc/lexer"
)

// SyntaxExpected is returned when the parser required a specific lexeme
// at the cursor and found something else.
type SyntaxExpected struct {
	Expected string
	ButGot   string
	At       lexer.Position
}

func (e *SyntaxExpected) Error() string {
	return fmt.Sprintf("%d:%d: expected %s, got %q", e.At.Line, e.At.Col, e.Expected, e.ButGot)
}

// PositionedError wraps any error (structural, syntactic, or semantic)
// with the lexer position where parsing aborted. Parse() attaches this
// at the top level, per spec.md §7's "all errors propagate to the top of
// parse(); the lexer's current (line, column) is attached there."
type PositionedError struct {
	At  lexer.Position
	Err error
}

func (e *PositionedError) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.At.Line, e.At.Col, e.Err)
}

func (e *PositionedError) Unwrap() error { return e.Err }

// debugPropagateControlFlowUpward is the internal sentinel returned by
// parseStatement for a `#showGraph;` directive: not a user-visible
// failure, silently absorbed by the block loop (spec.md §7).
type debugPropagateControlFlowUpward struct{}

func (debugPropagateControlFlowUpward) Error() string {
	return "parser: internal control-flow sentinel leaked past block parsing"
}

var errDebugPropagateControlFlowUpward error = debugPropagateControlFlowUpward{}
