// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "sort"

// PushScope opens a new, initially empty lexical level on the Scope node
// at SlotScope. Every subsequent Define targets this level until the
// matching PopScope.
func (g *Graph) PushScope() error {
	n, err := g.Get(SlotScope)
	if err != nil {
		return err
	}
	n.scopeLevels = append(n.scopeLevels, scopeLevel{})
	return nil
}

// PopScope closes the innermost lexical level, removing the Scope node's
// dependency edge to every value bound in it. Bindings from enclosing
// levels are untouched.
func (g *Graph) PopScope() error {
	n, err := g.Get(SlotScope)
	if err != nil {
		return err
	}
	debugAssert(len(n.scopeLevels) > 0, "PopScope called with no open level")

	top := n.scopeLevels[len(n.scopeLevels)-1]
	n.scopeLevels = n.scopeLevels[:len(n.scopeLevels)-1]

	// The innermost level's bindings are the tail of n.inputs; removing
	// them from the highest index down keeps every remaining index valid.
	idxs := make([]int, 0, len(top))
	for _, idx := range top {
		idxs = append(idxs, idx)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(idxs)))
	for _, idx := range idxs {
		value := n.inputs[idx]
		if err := g.RemoveDependency(SlotScope, value); err != nil {
			return err
		}
	}
	return nil
}

// Define binds name to value within the innermost open lexical level. It
// fails with *ErrVariableRedefinition if name is already bound at that
// same level — shadowing an outer binding from a nested block is allowed,
// redeclaring within one block is not.
func (g *Graph) Define(name string, value Slot) error {
	n, err := g.Get(SlotScope)
	if err != nil {
		return err
	}
	debugAssert(len(n.scopeLevels) > 0, "Define called with no open level")

	top := n.scopeLevels[len(n.scopeLevels)-1]
	if _, exists := top[name]; exists {
		return &ErrVariableRedefinition{Name: name}
	}

	if err := g.addDependency(SlotScope, value); err != nil {
		return err
	}
	if err := g.addReverseDependency(value, SlotScope); err != nil {
		return err
	}
	top[name] = len(n.inputs) - 1
	return nil
}

// Lookup searches for name starting at the innermost open lexical level
// and working outward, returning the bound value's Slot and true on the
// first match — lexical scoping, per spec.md's resolution of the
// scope-lookup-depth open question: a binding in an enclosing block is
// visible to every nested block that doesn't shadow it.
func (g *Graph) Lookup(name string) (Slot, bool) {
	n, err := g.Get(SlotScope)
	if err != nil {
		return 0, false
	}
	for i := len(n.scopeLevels) - 1; i >= 0; i-- {
		if idx, ok := n.scopeLevels[i][name]; ok {
			return n.inputs[idx], true
		}
	}
	return 0, false
}

// Redefine rebinds an already-declared name to a new value within
// whichever open level currently holds it (assignment, as opposed to
// declaration), replacing the Scope node's input at the binding's
// existing index so no other binding's index moves. It fails with *ErrVariableUndefined if name is not bound
// at any visible level.
func (g *Graph) Redefine(name string, value Slot) error {
	n, err := g.Get(SlotScope)
	if err != nil {
		return err
	}
	for i := len(n.scopeLevels) - 1; i >= 0; i-- {
		if idx, ok := n.scopeLevels[i][name]; ok {
			on, err := g.Get(n.inputs[idx])
			if err != nil {
				return err
			}
			vn, err := g.Get(value)
			if err != nil {
				return err
			}
			on.outputs = removeLast(on.outputs, SlotScope)
			vn.outputs = append(vn.outputs, SlotScope)
			n.inputs[idx] = value
			return nil
		}
	}
	return &ErrVariableUndefined{Name: name}
}

// ScopeLevelNames returns, for each open lexical level from outermost to
// innermost, the (unsorted) set of names bound at that level. Read-only
// introspection for renderers; not used by the parser itself.
func (g *Graph) ScopeLevelNames() [][]string {
	n, err := g.Get(SlotScope)
	if err != nil {
		return nil
	}
	out := make([][]string, len(n.scopeLevels))
	for i, level := range n.scopeLevels {
		names := make([]string, 0, len(level))
		for name := range level {
			names = append(names, name)
		}
		out[i] = names
	}
	return out
}

// LookupAtLevel returns the slot bound to name at exactly the given open
// lexical level (0 = outermost), ignoring every other level.
func (g *Graph) LookupAtLevel(level int, name string) (Slot, bool) {
	n, err := g.Get(SlotScope)
	if err != nil || level < 0 || level >= len(n.scopeLevels) {
		return 0, false
	}
	idx, ok := n.scopeLevels[level][name]
	if !ok {
		return 0, false
	}
	return n.inputs[idx], true
}

// Undefine removes name's binding from whichever visible level holds it.
// It fails with *ErrVariableUndefined if name is not bound anywhere
// visible.
func (g *Graph) Undefine(name string) error {
	n, err := g.Get(SlotScope)
	if err != nil {
		return err
	}
	for i := len(n.scopeLevels) - 1; i >= 0; i-- {
		if idx, ok := n.scopeLevels[i][name]; ok {
			vn, err := g.Get(n.inputs[idx])
			if err != nil {
				return err
			}
			delete(n.scopeLevels[i], name)
			vn.outputs = removeLast(vn.outputs, SlotScope)
			n.inputs = append(n.inputs[:idx], n.inputs[idx+1:]...)
			for _, level := range n.scopeLevels {
				for k, j := range level {
					if j > idx {
						level[k] = j - 1
					}
				}
			}
			return nil
		}
	}
	return &ErrVariableUndefined{Name: name}
}
