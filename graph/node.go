// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "github.com/sonlang/sonc/typ"

// Slot identifies a node's position in the arena. Slots are reused after
// deletion.
type Slot int

// uid is a process-local, monotonically increasing identifier. Unlike a
// Slot, a uid is never reused; the idealizer's canonicalization rules use
// it to break ties between operands whose slots may have been recycled.
type uid uint64

// scopeLevel is one entry of the Scope node's name stack: a map from
// variable name to the index of the bound value within the Scope node's
// own Inputs list.
type scopeLevel map[string]int

// Node is a single vertex of the sea-of-nodes graph: a kind, its ordered
// inputs (def edges), its unordered outputs (use edges, with
// multiplicity), a lattice type, and identity (uid never reused, Slot
// reused). Node equality is always identity (Slot+uid), never
// structural; the package function Same implements it.
type Node struct {
	kind Kind
	slot Slot
	uid  uid

	inputs  []Slot
	outputs []Slot

	typ typ.Typ

	// Proj payload.
	projIndex int
	projLabel string

	// Comp payload.
	compOp CompOp

	// Scope payload: one name->input-index map per lexical level, from
	// outermost (index 0) to innermost (last).
	scopeLevels []scopeLevel
}

func (n *Node) Kind() Kind       { return n.kind }
func (n *Node) Slot() Slot       { return n.slot }
func (n *Node) Typ() typ.Typ     { return n.typ }
func (n *Node) Inputs() []Slot   { return append([]Slot(nil), n.inputs...) }
func (n *Node) Outputs() []Slot  { return append([]Slot(nil), n.outputs...) }
func (n *Node) NumOutputs() int  { return len(n.outputs) }
func (n *Node) ProjIndex() int   { return n.projIndex }
func (n *Node) ProjLabel() string { return n.projLabel }
func (n *Node) CompOp() CompOp   { return n.compOp }

// IsCFG reports whether n participates in the program's control spine:
// Start, Return, every Comp (used as a branch condition by later passes),
// Not, and Proj{0,_} (the control projection out of a tuple producer).
func (n *Node) IsCFG() bool {
	switch n.kind {
	case KStart, KReturn, KComp, KNot:
		return true
	case KProj:
		return n.projIndex == 0
	default:
		return false
	}
}

// debugAssert panics on violation of an internal invariant that the
// idealizer catalogue relies on (e.g. "phase A already folded this node
// if it were foldable"). This is a programmer error, not a user-facing
// failure; see spec.md §7's "Structural" error class.
func debugAssert(cond bool, msg string) {
	if !cond {
		panic("graph: invariant violated: " + msg)
	}
}
