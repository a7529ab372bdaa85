// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"testing"

	"github.com/sonlang/sonc/typ"
)

func mustConst(t *testing.T, g *Graph, v typ.Typ) Slot {
	t.Helper()
	s, err := g.NewConstant(v)
	if err != nil {
		t.Fatal(err)
	}
	// Pin s: every later node creation sweeps unobserved nodes first.
	if err := g.Keep(s); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestIdealizeConstantFolding(t *testing.T) {
	g := newTestGraph(true)
	c1 := mustConst(t, g, typ.Int(2))
	c2 := mustConst(t, g, typ.Int(3))

	sum, err := g.NewAdd(c1, c2)
	if err != nil {
		t.Fatal(err)
	}
	n, err := g.Get(sum)
	if err != nil {
		t.Fatal(err)
	}
	if n.Kind() != KConstant {
		t.Fatalf("x+y with constant operands: kind = %v, want KConstant", n.Kind())
	}
	if n.typ.IntVal() != 5 {
		t.Fatalf("2+3 = %d, want 5", n.typ.IntVal())
	}
}

func TestIdealizeArithIdentAddZero(t *testing.T) {
	g := newTestGraph(true)
	zero := mustConst(t, g, typ.Int(0))
	v, err := g.NewMinus(mustConst(t, g, typ.Int(7)))
	if err != nil {
		t.Fatal(err)
	}

	sum, err := g.NewAdd(v, zero)
	if err != nil {
		t.Fatal(err)
	}
	n, err := g.Get(sum)
	if err != nil {
		t.Fatal(err)
	}
	// v folds to Constant{-7} by phase A before idealizeAdd ever runs, so
	// the whole expression constant-folds to -7 rather than surviving as
	// an identity rewrite; assert the folded result is correct either way.
	if n.Kind() != KConstant || n.typ.IntVal() != -7 {
		t.Fatalf("(-7)+0 = %v, want Constant{-7}", n.typ)
	}
}

func TestIdealizeAddSameConstantOperandFolds(t *testing.T) {
	g := newTestGraph(true)
	x := mustConst(t, g, typ.Int(4))

	// x+x on a Constant folds immediately in phase A since x is already
	// constant, so T_ADD_SAME never runs here; assert on the folded
	// result: x+x = 8.
	sum, err := g.NewAdd(x, x)
	if err != nil {
		t.Fatal(err)
	}
	n, err := g.Get(sum)
	if err != nil {
		t.Fatal(err)
	}
	if n.typ.IntVal() != 8 {
		t.Fatalf("4+4 = %d, want 8", n.typ.IntVal())
	}
}

func TestIdealizeMulOne(t *testing.T) {
	g := newTestGraph(true)
	x := mustConst(t, g, typ.Int(9))
	one := mustConst(t, g, typ.Int(1))

	prod, err := g.NewMul(x, one)
	if err != nil {
		t.Fatal(err)
	}
	n, err := g.Get(prod)
	if err != nil {
		t.Fatal(err)
	}
	if n.typ.IntVal() != 9 {
		t.Fatalf("9*1 = %d, want 9", n.typ.IntVal())
	}
}

func TestIdealizeDivOne(t *testing.T) {
	g := newTestGraph(true)
	x := mustConst(t, g, typ.Int(9))
	one := mustConst(t, g, typ.Int(1))

	q, err := g.NewDiv(x, one)
	if err != nil {
		t.Fatal(err)
	}
	n, err := g.Get(q)
	if err != nil {
		t.Fatal(err)
	}
	if n.typ.IntVal() != 9 {
		t.Fatalf("9/1 = %d, want 9", n.typ.IntVal())
	}
}

func TestIdealizeDivByZeroLeavesNodeUnfolded(t *testing.T) {
	g := newTestGraph(true)
	x := mustConst(t, g, typ.Int(9))
	zero := mustConst(t, g, typ.Int(0))

	q, err := g.NewDiv(x, zero)
	if err != nil {
		t.Fatal(err)
	}
	n, err := g.Get(q)
	if err != nil {
		t.Fatal(err)
	}
	if n.Kind() != KDiv {
		t.Fatalf("9/0 kind = %v, want KDiv (un-folded)", n.Kind())
	}
}

func TestIdealizeCompLogXorSameOperand(t *testing.T) {
	g := newTestGraph(true)
	v, err := g.NewMinus(mustConst(t, g, typ.Int(3)))
	if err != nil {
		t.Fatal(err)
	}
	xored, err := g.NewComp(CompLogXor, v, v)
	if err != nil {
		t.Fatal(err)
	}
	n, err := g.Get(xored)
	if err != nil {
		t.Fatal(err)
	}
	if n.Kind() != KConstant || n.typ.IntVal() != 0 {
		t.Fatalf("x^x = %v, want Constant{0}", n.typ)
	}
}

func TestIdealizeCompEQExcludedFromAssociativity(t *testing.T) {
	// T_ASSOCIATIVITY must never fire for Comp{EQ}; this is a structural
	// guard on opFamily.associative(), not a behavioral end-to-end case.
	f := opFamily{kind: KComp, op: CompEQ}
	if f.associative() {
		t.Fatal("Comp{EQ} must not be associative-eligible")
	}
	for _, op := range []CompOp{CompLogAnd, CompLogOr, CompLogXor} {
		f := opFamily{kind: KComp, op: op}
		if !f.associative() {
			t.Fatalf("Comp{%v} must be associative-eligible", op)
		}
	}
}
