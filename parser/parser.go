// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser implements a recursive-descent parser that builds the
// sea-of-nodes graph directly — there is no separate AST stage. Grammar:
//
//	program     := block                         ; final '}' required, then EOF
//	block       := '{' statement+ '}'
//	statement   := 'return' expr ';'
//	             | 'int' ident '=' expr ';'       ; declaration
//	             | ident '=' expr ';'             ; assignment
//	             | block
//	             | '#showGraph;'                  ; debug directive
//	expr        := comp
//	comp        := add (('==' | '<=' | '<' | '&' | '|' | '^') comp)?
//	add         := mul (('+' | '-') add)?
//	mul         := unary (('*' | '/') mul)?
//	unary       := '-' unary | '!' unary | primary
//	primary     := NUMBER | IDENT | 'true' | 'false' | '(' expr ')'
//
// comp's operators lower to Comp{EQ|LEQ|LT|LogAnd|LogOr|LogXor}; the
// bitwise/logical three (& | ^) are overloaded across Int and Bool the
// same way the type refiner already treats them.
package parser

import (
	"github.com/sonlang/sonc/graph"
	"github.com/sonlang/sonc/lexer"
	"github.com/sonlang/sonc/typ"
)

// Parser owns one Lexer and one Graph for the duration of a single
// parse() call; neither is reused across parses.
type Parser struct {
	lex      *lexer.Lexer
	g        *graph.Graph
	render   func(*graph.Graph) string
	dotDumps []string
}

// New constructs a Parser over source with arg's type fixed to IntBot —
// the no-argument form of the exposed construct interface.
func New(source string, optimize bool) *Parser {
	return newParser(source, typ.IntBot, optimize)
}

// NewWithArg constructs a Parser over source with arg's type fixed to the
// single constant Int{arg}.
func NewWithArg(source string, arg int64, optimize bool) *Parser {
	return newParser(source, typ.Int(arg), optimize)
}

func newParser(source string, argT typ.Typ, optimize bool) *Parser {
	wrapped := "{" + source + "}"
	startT := typ.Tuple(typ.Ctrl, argT)
	return &Parser{
		lex: lexer.New(wrapped),
		g:   graph.New(startT, optimize),
	}
}

// SetRenderer installs a DOT-rendering callback used by the `#showGraph;`
// debug directive. cmd/sonc wires this to package dot's Emit so that
// parser itself never imports dot (dot only ever reads a finished graph;
// parser only ever produces one).
func (p *Parser) SetRenderer(render func(*graph.Graph) string) {
	p.render = render
}

// DebugDumps returns every DOT rendering accumulated by `#showGraph;`
// directives encountered during the parse, in source order.
func (p *Parser) DebugDumps() []string { return p.dotDumps }

// Graph exposes the underlying graph for callers that want to render or
// inspect it after a successful parse.
func (p *Parser) Graph() *graph.Graph { return p.g }

// Parse runs the grammar from program over the whole (brace-wrapped)
// source and returns the slot of the terminal Return node, which stays
// pinned against KeepAlive. Any error returned has the lexer's position
// at the point of failure attached.
func (p *Parser) Parse() (graph.Slot, error) {
	if err := p.g.PushScope(); err != nil {
		return 0, p.positioned(err)
	}

	ctrl, err := p.g.NewProj(graph.SlotStart, 0, "$ctrl")
	if err != nil {
		return 0, p.positioned(err)
	}
	if err := p.g.Define("$ctrl", ctrl); err != nil {
		return 0, p.positioned(err)
	}
	arg, err := p.g.NewProj(graph.SlotStart, 1, "arg")
	if err != nil {
		return 0, p.positioned(err)
	}
	if err := p.g.Define("arg", arg); err != nil {
		return 0, p.positioned(err)
	}

	last, err := p.parseTopLevelBlock()
	if err != nil {
		return 0, p.positioned(err)
	}
	if !p.lex.IsEOF() {
		return 0, p.positioned(p.syntaxExpected("End of file"))
	}
	// Pin the terminal node so later collector sweeps keep it and
	// everything it depends on.
	if err := p.g.Keep(last); err != nil {
		return 0, p.positioned(err)
	}
	return last, nil
}

func (p *Parser) positioned(err error) error {
	if err == nil {
		return nil
	}
	return &PositionedError{At: p.lex.Pos(), Err: err}
}

func (p *Parser) syntaxExpected(expected string) error {
	return &SyntaxExpected{Expected: expected, ButGot: p.dbgNextToken(), At: p.lex.Pos()}
}

// dbgNextToken previews the next lexeme for an error message without
// committing to consuming it as any particular token kind.
func (p *Parser) dbgNextToken() string {
	if p.lex.PeekIsIdentifierStart() {
		save := *p.lex
		id := p.lex.ParseIdentifierToken()
		*p.lex = save
		return id
	}
	if p.lex.PeekIsNumberStart() {
		return p.lex.PeekNumberLiteral()
	}
	r, ok := p.lex.PeekNonSpace()
	if !ok {
		return ""
	}
	return string(r)
}

func (p *Parser) require(syntax string) error {
	if p.lex.Match(syntax) {
		return nil
	}
	return p.syntaxExpected(syntax)
}

// parseTopLevelBlock parses the single outermost block without pushing an
// additional scope level: the caller (Parse) has already pushed the
// synthetic scope that $ctrl and arg live in, and that IS this block's
// scope.
func (p *Parser) parseTopLevelBlock() (graph.Slot, error) {
	if err := p.require("{"); err != nil {
		return 0, err
	}
	last, err := p.parseStatements()
	if err != nil {
		return 0, err
	}
	if err := p.require("}"); err != nil {
		return 0, err
	}
	return last, nil
}

// parseBlock parses a nested `{ ... }` used as a statement: it opens and
// closes its own lexical level.
func (p *Parser) parseBlock() (graph.Slot, error) {
	if err := p.g.PushScope(); err != nil {
		return 0, err
	}
	last, err := p.parseTopLevelBlock()
	if popErr := p.g.PopScope(); err == nil {
		err = popErr
	}
	return last, err
}

// parseStatements consumes one or more statements — stopping as soon as
// the cursor sits on '}' or EOF — absorbing any `#showGraph;` debug
// directives without treating them as statements, and returns the slot
// produced by the last real statement.
func (p *Parser) parseStatements() (graph.Slot, error) {
	var last graph.Slot
	seen := false
	for {
		if r, ok := p.lex.PeekNonSpace(); !ok || r == '}' {
			if !seen {
				return 0, p.syntaxExpected("Statement")
			}
			return last, nil
		}
		slot, err := p.parseStatement()
		if err == errDebugPropagateControlFlowUpward {
			continue
		}
		if err != nil {
			return 0, err
		}
		last = slot
		seen = true
	}
}

func (p *Parser) parseStatement() (graph.Slot, error) {
	if p.lex.Match("#showGraph;") {
		if p.render != nil {
			p.dotDumps = append(p.dotDumps, p.render(p.g))
		}
		return 0, errDebugPropagateControlFlowUpward
	}
	if p.lex.MatchExact("return") {
		return p.parseReturn()
	}
	if p.lex.MatchExact("int") {
		return p.parseDeclaration()
	}
	if r, ok := p.lex.PeekNonSpace(); ok && r == '{' {
		return p.parseBlock()
	}
	if p.lex.PeekIsIdentifierStart() {
		return p.parseAssignment()
	}
	return 0, p.syntaxExpected("Statement")
}

func (p *Parser) parseReturn() (graph.Slot, error) {
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if err := p.g.Keep(value); err != nil {
		return 0, err
	}
	defer p.g.Unkeep(value)

	if err := p.require(";"); err != nil {
		return 0, err
	}
	ctrl, ok := p.g.Lookup("$ctrl")
	if !ok {
		return 0, &graph.ErrVariableUndefined{Name: "$ctrl"}
	}
	return p.g.NewReturn(ctrl, value)
}

func (p *Parser) parseDeclaration() (graph.Slot, error) {
	if !p.lex.PeekIsIdentifierStart() {
		return 0, p.syntaxExpected("identifier")
	}
	name := p.lex.ParseIdentifierToken()
	if err := p.require("="); err != nil {
		return 0, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if err := p.g.Keep(value); err != nil {
		return 0, err
	}
	defer p.g.Unkeep(value)

	if err := p.require(";"); err != nil {
		return 0, err
	}
	if err := p.g.Define(name, value); err != nil {
		return 0, err
	}
	return value, nil
}

func (p *Parser) parseAssignment() (graph.Slot, error) {
	name := p.lex.ParseIdentifierToken()
	if !p.lex.Match("=") {
		return 0, p.syntaxExpected("\"=\"")
	}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if err := p.g.Keep(value); err != nil {
		return 0, err
	}
	defer p.g.Unkeep(value)

	if err := p.require(";"); err != nil {
		return 0, err
	}
	if err := p.g.Redefine(name, value); err != nil {
		return 0, err
	}
	return value, nil
}

func (p *Parser) parseExpr() (graph.Slot, error) {
	return p.parseComp()
}

// parseComp handles the comparison/bitwise-boolean precedence level,
// right-recursive like parseAdd/parseMul. Longer operators are matched
// before their single-character prefixes ("==" before nothing, "<="
// before "<") so that e.g. "<=5" is never split into "<" and "=5".
func (p *Parser) parseComp() (graph.Slot, error) {
	lhs, err := p.parseAdd()
	if err != nil {
		return 0, err
	}
	op, ok := p.matchCompOp()
	if !ok {
		return lhs, nil
	}
	if err := p.g.Keep(lhs); err != nil {
		return 0, err
	}
	rhs, err := p.parseComp()
	p.g.Unkeep(lhs)
	if err != nil {
		return 0, err
	}
	return p.g.NewComp(op, lhs, rhs)
}

func (p *Parser) matchCompOp() (graph.CompOp, bool) {
	switch {
	case p.lex.Match("=="):
		return graph.CompEQ, true
	case p.lex.Match("<="):
		return graph.CompLEQ, true
	case p.lex.Match("<"):
		return graph.CompLT, true
	case p.lex.Match("&"):
		return graph.CompLogAnd, true
	case p.lex.Match("|"):
		return graph.CompLogOr, true
	case p.lex.Match("^"):
		return graph.CompLogXor, true
	default:
		return 0, false
	}
}

func (p *Parser) parseAdd() (graph.Slot, error) {
	lhs, err := p.parseMul()
	if err != nil {
		return 0, err
	}
	if p.lex.Match("+") {
		if err := p.g.Keep(lhs); err != nil {
			return 0, err
		}
		rhs, err := p.parseAdd()
		p.g.Unkeep(lhs)
		if err != nil {
			return 0, err
		}
		return p.g.NewAdd(lhs, rhs)
	}
	if p.lex.Match("-") {
		if err := p.g.Keep(lhs); err != nil {
			return 0, err
		}
		rhs, err := p.parseAdd()
		p.g.Unkeep(lhs)
		if err != nil {
			return 0, err
		}
		return p.g.NewSub(lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) parseMul() (graph.Slot, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	if p.lex.Match("*") {
		if err := p.g.Keep(lhs); err != nil {
			return 0, err
		}
		rhs, err := p.parseMul()
		p.g.Unkeep(lhs)
		if err != nil {
			return 0, err
		}
		return p.g.NewMul(lhs, rhs)
	}
	if p.lex.Match("/") {
		if err := p.g.Keep(lhs); err != nil {
			return 0, err
		}
		rhs, err := p.parseMul()
		p.g.Unkeep(lhs)
		if err != nil {
			return 0, err
		}
		return p.g.NewDiv(lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) parseUnary() (graph.Slot, error) {
	if p.lex.Match("-") {
		operand, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.g.NewMinus(operand)
	}
	if p.lex.Match("!") {
		operand, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return p.g.NewNot(operand)
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (graph.Slot, error) {
	p.lex.SkipWhitespace()
	if p.lex.PeekIsNumberStart() {
		v, err := p.lex.ParseNumber()
		if err != nil {
			return 0, err
		}
		return p.g.NewConstant(typ.Int(v))
	}
	if p.lex.MatchExact("true") {
		return p.g.NewConstant(typ.Bool(true))
	}
	if p.lex.MatchExact("false") {
		return p.g.NewConstant(typ.Bool(false))
	}
	if p.lex.PeekIsIdentifierStart() {
		name := p.lex.ParseIdentifierToken()
		slot, ok := p.g.Lookup(name)
		if !ok {
			return 0, &graph.ErrVariableUndefined{Name: name}
		}
		return slot, nil
	}
	if p.lex.Match("(") {
		inner, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if err := p.require(")"); err != nil {
			return 0, err
		}
		return inner, nil
	}
	return 0, p.syntaxExpected("Primary expression")
}
