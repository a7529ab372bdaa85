// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "github.com/bits-and-blooms/bitset"

// Keep pins slot against collection by wiring a real graph edge from
// KeepAlive to it — add_dependency plus add_reverse_dependency, per
// spec.md §4.5 — rather than a side table: a kept node's output list is
// simply never empty while the edge exists. Pins are reference-counted
// the same way any other multi-edge is: Keep twice adds the edge twice,
// and each Unkeep removes one occurrence (RemoveDependency removes the
// last occurrence), so a slot kept twice needs two Unkeep calls before
// it becomes eligible for collection again.
func (g *Graph) Keep(slot Slot) error {
	return g.addEdge(SlotKeepAlive, slot)
}

// Unkeep releases one pin previously added by Keep.
func (g *Graph) Unkeep(slot Slot) error {
	return g.RemoveDependency(SlotKeepAlive, slot)
}

// keptOrRoot reports whether slot must survive collection regardless of
// its output-list length. The permanent KeepAlive/Scope/Start trio is
// hardcoded here; every other kept slot is already protected by the
// KeepAlive edge Keep wired onto it, which keeps its output list
// non-empty for as long as the pin lasts.
func (g *Graph) keptOrRoot(slot Slot) bool {
	return slot == SlotKeepAlive || slot == SlotScope || slot == SlotStart
}

// DropUnusedNodes runs one bounded pass of the incremental collector: it
// visits every live slot and attempts to drop any node with an empty
// output list, recursing into that node's own inputs (which may now have
// become unused in turn) until budget is exhausted or nothing more can be
// dropped. It never drops slot 0 (KeepAlive) or a currently-kept slot.
//
// This runs before every node allocation (newNode in arena.go,
// newNodeUnrefined in constructors.go) so garbage never accumulates across more than a
// handful of node creations; it is not a stop-the-world collector and
// makes no completeness guarantee within a single call.
func (g *Graph) DropUnusedNodes(budget int) {
	for slot := Slot(0); int(slot) < len(g.cells) && budget > 0; slot++ {
		if g.cells[slot] == nil {
			continue
		}
		budget = g.attemptDropNode(slot, budget)
	}
}

// attemptDropNode drops slot if it is unreferenced and unkept, decrements
// budget by one for each node it drops, and recurses (depth-first) into the
// slots slot used as inputs, since removing slot's own output edges to
// them may have made them collectible too. It returns the remaining
// budget.
func (g *Graph) attemptDropNode(slot Slot, budget int) int {
	if budget <= 0 {
		return budget
	}
	n, err := g.Get(slot)
	if err != nil {
		return budget
	}
	if g.keptOrRoot(slot) || len(n.outputs) > 0 {
		return budget
	}

	inputs := append([]Slot(nil), n.inputs...)
	g.deleteSlot(slot)
	budget--

	for _, in := range inputs {
		if budget <= 0 {
			break
		}
		dn, err := g.Get(in)
		if err != nil {
			continue
		}
		dn.outputs = removeLast(dn.outputs, slot)
		budget = g.attemptDropNode(in, budget)
	}
	return budget
}

// ReachableFrom computes the set of slots reachable from roots by
// following input edges (from each use to its definitions), returned as
// a bitset indexed by Slot. Used as a collection-soundness audit: any
// live slot absent from ReachableFrom(SlotKeepAlive, SlotScope,
// SlotStart) is held by neither a pin nor a binding and is garbage the
// collector should eventually reclaim.
//
// The fixpoint/worklist shape is carried over from the reference
// liveness analysis, generalized from a CFG successor walk to a graph
// input-edge walk.
func (g *Graph) ReachableFrom(roots ...Slot) *bitset.BitSet {
	reached := bitset.New(uint(len(g.cells)))
	worklist := append([]Slot(nil), roots...)

	for len(worklist) > 0 {
		slot := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if uint(slot) >= reached.Len() || reached.Test(uint(slot)) {
			continue
		}
		reached.Set(uint(slot))

		n, err := g.Get(slot)
		if err != nil {
			continue
		}
		for _, in := range n.inputs {
			if uint(in) >= reached.Len() || !reached.Test(uint(in)) {
				worklist = append(worklist, in)
			}
		}
	}
	return reached
}

// CheckInvariants walks every live node and reports the first violation
// of the arena's edge-symmetry invariant: every input edge user->def must
// have a matching reverse entry in def's output list, and vice versa.
// Intended for tests, not the hot allocation path.
func (g *Graph) CheckInvariants() error {
	for slot := Slot(0); int(slot) < len(g.cells); slot++ {
		n := g.cells[slot]
		if n == nil {
			continue
		}
		for _, in := range n.inputs {
			dn, err := g.Get(in)
			if err != nil {
				return err
			}
			if !containsSlot(dn.outputs, slot) {
				return &ErrInvariantViolation{Detail: "missing reverse edge"}
			}
		}
		for _, out := range n.outputs {
			un, err := g.Get(out)
			if err != nil {
				return err
			}
			if !containsSlot(un.inputs, slot) {
				return &ErrInvariantViolation{Detail: "missing forward edge"}
			}
		}
	}
	return nil
}

func containsSlot(s []Slot, v Slot) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
