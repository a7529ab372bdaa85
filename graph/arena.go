// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "github.com/sonlang/sonc/typ"

const (
	SlotKeepAlive Slot = 0
	SlotScope     Slot = 1
	SlotStart     Slot = 2
)

// sweepBudget bounds the work done by the incremental collector that
// runs before every node creation, per spec.md §4.5.
const sweepBudget = 100

// Graph is the arena: a dense, slotted sequence of optional node cells.
// Slots are reused after deletion; uids never are. The graph also owns
// the peephole/idealizer pipeline (idealize.go) and the scope node
// (scope.go), since both mutate the arena in lock-step with node
// creation.
type Graph struct {
	cells    []*Node
	nextUID  uid
	optimize bool
}

// New creates a Graph with its three permanent nodes (KeepAlive at slot
// 0, Scope at slot 1, Start at slot 2) and returns it; Start is always at
// SlotStart. startTyp is Start's fixed result type, Tuple{Ctrl, argT}.
func New(startTyp typ.Typ, optimize bool) *Graph {
	g := &Graph{optimize: optimize}

	keepAlive := g.allocFixed(KKeepAlive, typ.Bot)
	debugAssert(keepAlive == SlotKeepAlive, "KeepAlive must land at slot 0")

	scope := g.allocFixed(KScope, typ.Bot)
	g.cells[scope].scopeLevels = []scopeLevel{}
	debugAssert(scope == SlotScope, "Scope must land at slot 1")

	start := g.allocFixed(KStart, startTyp)
	debugAssert(start == SlotStart, "Start must land at slot 2")

	return g
}

// allocFixed places a permanent, input-less node at the next free slot
// without running the collector or the peephole pipeline; used only for
// KeepAlive, Scope, and Start during New.
func (g *Graph) allocFixed(kind Kind, t typ.Typ) Slot {
	slot := g.findFirstEmptyCell()
	n := &Node{kind: kind, slot: slot, uid: g.allocUID(), typ: t}
	g.setCell(slot, n)
	return slot
}

func (g *Graph) allocUID() uid {
	g.nextUID++
	return g.nextUID
}

func (g *Graph) findFirstEmptyCell() Slot {
	for i, c := range g.cells {
		if c == nil {
			return Slot(i)
		}
	}
	return Slot(len(g.cells))
}

func (g *Graph) setCell(slot Slot, n *Node) {
	if int(slot) == len(g.cells) {
		g.cells = append(g.cells, n)
		return
	}
	g.cells[slot] = n
}

// Len returns the arena's current cell capacity (including empty,
// reclaimed cells below the high-water mark). Used by callers like
// package dot that need to enumerate every possibly-live slot.
func (g *Graph) Len() int { return len(g.cells) }

// Get returns the live node at slot, or ErrNodeNotExisting if the slot is
// empty or out of range.
func (g *Graph) Get(slot Slot) (*Node, error) {
	if slot < 0 || int(slot) >= len(g.cells) || g.cells[slot] == nil {
		return nil, ErrNodeNotExisting
	}
	return g.cells[slot], nil
}

// NodeExistsUnique reports whether slot is filled and its node's uid
// matches — used to detect that a previously held slot was reclaimed and
// reused for an unrelated node.
func (g *Graph) NodeExistsUnique(slot Slot, id uint64) bool {
	n, err := g.Get(slot)
	return err == nil && uint64(n.uid) == id
}

// UID exposes a node's process-local unique id, for callers (tests,
// canonicalization) that need to compare node identity across possible
// slot reuse.
func (n *Node) UID() uint64 { return uint64(n.uid) }

// Same reports whether a and b are the same node: identity (slot and
// uid), never structural equality.
func Same(a, b *Node) bool { return a.slot == b.slot && a.uid == b.uid }

// addDependency appends def to user's input list (append-only; duplicates
// are permitted and significant, e.g. x+x shares one input node listed
// twice).
func (g *Graph) addDependency(user, def Slot) error {
	un, err := g.Get(user)
	if err != nil {
		return err
	}
	if _, err := g.Get(def); err != nil {
		return err
	}
	un.inputs = append(un.inputs, def)
	return nil
}

// addReverseDependency appends user to def's output list.
func (g *Graph) addReverseDependency(def, user Slot) error {
	dn, err := g.Get(def)
	if err != nil {
		return err
	}
	if _, err := g.Get(user); err != nil {
		return err
	}
	dn.outputs = append(dn.outputs, user)
	return nil
}

// addEdge wires def as one more input of user, maintaining both sides of
// the edge. Operations are ordered so that the first mutation cannot fail
// after the second has begun.
func (g *Graph) addEdge(user, def Slot) error {
	if _, err := g.Get(user); err != nil {
		return err
	}
	if _, err := g.Get(def); err != nil {
		return err
	}
	if err := g.addDependency(user, def); err != nil {
		return err
	}
	return g.addReverseDependency(def, user)
}

// removeLast removes the last occurrence of v from s, returning the
// shortened slice. Removing from the back leaves earlier positional
// inputs (e.g. Return's [ctrl, value]) undisturbed.
func removeLast(s []Slot, v Slot) []Slot {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// RemoveDependency removes the last occurrence of def from user's input
// list, and the last occurrence of user from def's output list.
func (g *Graph) RemoveDependency(user, def Slot) error {
	un, err := g.Get(user)
	if err != nil {
		return err
	}
	dn, err := g.Get(def)
	if err != nil {
		return err
	}
	un.inputs = removeLast(un.inputs, def)
	dn.outputs = removeLast(dn.outputs, user)
	return nil
}

// deleteSlot clears a cell. Only ever called by the collector once a
// node's output set is empty.
func (g *Graph) deleteSlot(slot Slot) {
	g.cells[slot] = nil
}

// refineTyp recomputes a node's type and enforces transition_allowed: a
// refinement may only move a node's type up the lattice (spec.md §3.3).
func (g *Graph) refineTyp(slot Slot) error {
	n, err := g.Get(slot)
	if err != nil {
		return err
	}
	next, err := g.computeRefinedTyp(n)
	if err != nil {
		return err
	}
	if !n.typ.TransitionAllowed(next) {
		return ErrTypTransitionNotAllowed
	}
	n.typ = next
	return nil
}

// newNode is the single entry point all node construction funnels
// through: it runs one bounded collector sweep (with inputs pinned so the
// sweep cannot reclaim them), allocates a fresh uid
// and slot, wires input/output edges, lets configure attach any
// kind-specific payload, refines the node's type, and — when optimize is
// enabled — runs it through the peephole/idealizer pipeline. It returns
// the slot the caller should use from here on (which may differ from the
// freshly allocated one, if constant materialization or an idealizer
// rewrite replaced the node).
func (g *Graph) newNode(kind Kind, inputs []Slot, seed typ.Typ, configure func(*Node)) (Slot, error) {
	// Pin the inputs across the sweep: they may have no observers yet,
	// and the node about to be built is what will observe them.
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
	n := &Node{kind: kind, slot: slot, uid: g.allocUID(), typ: seed}
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

	if !g.optimize {
		return slot, nil
	}
	return g.peephole(slot)
}
