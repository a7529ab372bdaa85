// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "github.com/sonlang/sonc/typ"

// NewConstant creates an immediate-literal node whose type carries v.
func (g *Graph) NewConstant(v typ.Typ) (Slot, error) {
	return g.newNode(KConstant, nil, v, nil)
}

// NewAdd, NewSub, NewMul, NewDiv create a binary arithmetic node. Their
// seed type is Bot (the lattice bottom): refineTyp immediately folds it
// up to an Int constant when both operands already are, and Bot->Bot or
// Bot->anything is always an allowed transition.
func (g *Graph) NewAdd(lhs, rhs Slot) (Slot, error) { return g.newNode(KAdd, []Slot{lhs, rhs}, typ.Bot, nil) }
func (g *Graph) NewSub(lhs, rhs Slot) (Slot, error) { return g.newNode(KSub, []Slot{lhs, rhs}, typ.Bot, nil) }
func (g *Graph) NewMul(lhs, rhs Slot) (Slot, error) { return g.newNode(KMul, []Slot{lhs, rhs}, typ.Bot, nil) }
func (g *Graph) NewDiv(lhs, rhs Slot) (Slot, error) { return g.newNode(KDiv, []Slot{lhs, rhs}, typ.Bot, nil) }

// NewMinus creates a unary integer negation node.
func (g *Graph) NewMinus(x Slot) (Slot, error) { return g.newNode(KMinus, []Slot{x}, typ.Bot, nil) }

// NewNot creates a unary logical/bitwise negation node.
func (g *Graph) NewNot(x Slot) (Slot, error) { return g.newNode(KNot, []Slot{x}, typ.Bot, nil) }

// NewComp creates a comparison/bitwise-boolean node for op.
func (g *Graph) NewComp(op CompOp, lhs, rhs Slot) (Slot, error) {
	return g.newNode(KComp, []Slot{lhs, rhs}, typ.Bot, func(n *Node) { n.compOp = op })
}

// NewProj creates a node that extracts component index of input's Tuple
// type. label is carried only for debug/DOT rendering.
func (g *Graph) NewProj(input Slot, index int, label string) (Slot, error) {
	return g.newNode(KProj, []Slot{input}, typ.Bot, func(n *Node) {
		n.projIndex = index
		n.projLabel = label
	})
}

// NewReturn creates the terminal node: inputs are [ctrl, value].
func (g *Graph) NewReturn(ctrl, value Slot) (Slot, error) {
	return g.newNode(KReturn, []Slot{ctrl, value}, typ.Ctrl, nil)
}

// newNodeUnrefined creates a node the same way newNode does (collector
// sweep with inputs pinned, edge wiring, type refine) but never runs it
// through the
// peephole/idealizer pipeline, regardless of Graph.optimize. The
// idealizer catalogue (idealize.go) uses this for the intermediate nodes
// an associativity/rotation rewrite builds before explicitly re-peepholing
// the final result — mirrors add_node_unrefined in the reference
// implementation.
func (g *Graph) newNodeUnrefined(kind Kind, inputs []Slot, configure func(*Node)) (Slot, error) {
	for _, in := range inputs {
		if err := g.Keep(in); err != nil {
			return 0, err
		}
	}
	g.DropUnusedNodes(sweepBudget)
	for _, in := range inputs {
		if err := g.Unkeep(in); err != nil {
			return 0, err
		}
	}

	slot := g.findFirstEmptyCell()
	n := &Node{kind: kind, slot: slot, uid: g.allocUID(), typ: typ.Bot}
	n.inputs = append(n.inputs, inputs...)
	if configure != nil {
		configure(n)
	}
	g.setCell(slot, n)

	for _, in := range inputs {
		if err := g.addReverseDependency(in, slot); err != nil {
			return 0, err
		}
	}
	if err := g.refineTyp(slot); err != nil {
		return 0, err
	}
	return slot, nil
}
