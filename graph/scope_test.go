// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"testing"

	"github.com/sonlang/sonc/typ"
)

func TestScopeDefineLookup(t *testing.T) {
	g := newTestGraph(false)
	if err := g.PushScope(); err != nil {
		t.Fatal(err)
	}
	a := mustConst(t, g, typ.Int(1))
	if err := g.Define("a", a); err != nil {
		t.Fatal(err)
	}
	got, ok := g.Lookup("a")
	if !ok || got != a {
		t.Fatalf("Lookup(a) = (%v, %v), want (%v, true)", got, ok, a)
	}
}

func TestScopeRedefinitionFails(t *testing.T) {
	g := newTestGraph(false)
	if err := g.PushScope(); err != nil {
		t.Fatal(err)
	}
	a := mustConst(t, g, typ.Int(1))
	if err := g.Define("a", a); err != nil {
		t.Fatal(err)
	}
	b := mustConst(t, g, typ.Int(2))
	err := g.Define("a", b)
	if _, ok := err.(*ErrVariableRedefinition); !ok {
		t.Fatalf("Define(a) twice: err = %v, want *ErrVariableRedefinition", err)
	}
}

func TestScopeLexicalLookupAcrossNestedBlocks(t *testing.T) {
	g := newTestGraph(false)
	if err := g.PushScope(); err != nil {
		t.Fatal(err)
	}
	outer := mustConst(t, g, typ.Int(10))
	if err := g.Define("x", outer); err != nil {
		t.Fatal(err)
	}

	if err := g.PushScope(); err != nil {
		t.Fatal(err)
	}
	got, ok := g.Lookup("x")
	if !ok || got != outer {
		t.Fatalf("nested Lookup(x) = (%v, %v), want (%v, true)", got, ok, outer)
	}

	inner := mustConst(t, g, typ.Int(20))
	if err := g.Define("x", inner); err != nil {
		t.Fatal(err)
	}
	got, ok = g.Lookup("x")
	if !ok || got != inner {
		t.Fatalf("shadowed Lookup(x) = (%v, %v), want (%v, true)", got, ok, inner)
	}

	if err := g.PopScope(); err != nil {
		t.Fatal(err)
	}
	got, ok = g.Lookup("x")
	if !ok || got != outer {
		t.Fatalf("after PopScope, Lookup(x) = (%v, %v), want (%v, true)", got, ok, outer)
	}
}

func TestScopeUndefineUnknownFails(t *testing.T) {
	g := newTestGraph(false)
	if err := g.PushScope(); err != nil {
		t.Fatal(err)
	}
	err := g.Undefine("nope")
	if _, ok := err.(*ErrVariableUndefined); !ok {
		t.Fatalf("Undefine(nope) err = %v, want *ErrVariableUndefined", err)
	}
}

func TestScopeRedefineRebindsExistingName(t *testing.T) {
	g := newTestGraph(false)
	if err := g.PushScope(); err != nil {
		t.Fatal(err)
	}
	a := mustConst(t, g, typ.Int(1))
	if err := g.Define("a", a); err != nil {
		t.Fatal(err)
	}
	b := mustConst(t, g, typ.Int(2))
	if err := g.Redefine("a", b); err != nil {
		t.Fatal(err)
	}
	got, ok := g.Lookup("a")
	if !ok || got != b {
		t.Fatalf("Lookup(a) after Redefine = (%v, %v), want (%v, true)", got, ok, b)
	}
}
