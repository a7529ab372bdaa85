// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "github.com/sonlang/sonc/typ"

// peephole runs a just-created (or just-rewired) node through the two
// phases of the pipeline: constant materialization, then the
// kind-specific idealization catalogue. It returns the slot the caller
// should treat as "the node from here on," which may differ from slot.
func (g *Graph) peephole(slot Slot) (Slot, error) {
	n, err := g.Get(slot)
	if err != nil {
		return 0, err
	}
	// Pin the node (and through its input edges, its operands) while its
	// rewrites allocate new nodes, each of which sweeps first.
	if err := g.Keep(slot); err != nil {
		return 0, err
	}
	defer g.Unkeep(slot)

	// Phase A — T_CONSTPROP: a just-refined non-Constant node whose type
	// is already constant is replaced by a fresh Constant node carrying
	// that value. The original node is left with no observers and is
	// reclaimed by the next collector sweep.
	if n.kind != KConstant && n.typ.IsConstant() {
		return g.NewConstant(n.typ)
	}

	// Phase B — idealization.
	switch n.kind {
	case KAdd:
		return g.idealizeAdd(slot)
	case KMul:
		return g.idealizeMul(slot)
	case KDiv:
		return g.idealizeDiv(slot)
	case KComp:
		return g.idealizeComp(slot)
	default:
		// Sub, Constant, Return, Start, KeepAlive, Minus, Scope, Proj,
		// Not: no idealization rule.
		return slot, nil
	}
}

func (g *Graph) idealizeAdd(slot Slot) (Slot, error) {
	n, err := g.Get(slot)
	if err != nil {
		return 0, err
	}
	lhsSlot, rhsSlot := n.inputs[0], n.inputs[1]
	lhs, err := g.Get(lhsSlot)
	if err != nil {
		return 0, err
	}
	rhs, err := g.Get(rhsSlot)
	if err != nil {
		return 0, err
	}
	debugAssert(!(lhs.typ.IsConstant() && rhs.typ.IsConstant()),
		"phase A must have already folded an Add with two constant operands")

	if rhs.typ.Kind() == typ.KInt && rhs.typ.IntVal() == 0 {
		return g.peephole(lhsSlot) // T_ARITH_IDENT: x+0 -> x
	}
	if lhsSlot == rhsSlot {
		two, err := g.NewConstant(typ.Int(2))
		if err != nil {
			return 0, err
		}
		return g.newNodeUnrefined(KMul, []Slot{lhsSlot, two}, nil) // T_ADD_SAME: x+x -> x*2
	}
	return g.canonicalizeCommutative(slot)
}

func (g *Graph) idealizeMul(slot Slot) (Slot, error) {
	n, err := g.Get(slot)
	if err != nil {
		return 0, err
	}
	lhsSlot, rhsSlot := n.inputs[0], n.inputs[1]
	lhs, err := g.Get(lhsSlot)
	if err != nil {
		return 0, err
	}
	rhs, err := g.Get(rhsSlot)
	if err != nil {
		return 0, err
	}

	if rhs.typ.Kind() == typ.KInt && rhs.typ.IntVal() == 1 {
		return g.peephole(lhsSlot) // T_ARITH_IDENT: x*1 -> x
	}
	if lhs.typ.IsConstant() && !rhs.typ.IsConstant() {
		n.inputs[0], n.inputs[1] = rhsSlot, lhsSlot
		return g.peephole(slot) // T_RIGHT_CONST: variable first, constant last
	}
	return slot, nil
}

func (g *Graph) idealizeDiv(slot Slot) (Slot, error) {
	n, err := g.Get(slot)
	if err != nil {
		return 0, err
	}
	rhsSlot := n.inputs[1]
	rhs, err := g.Get(rhsSlot)
	if err != nil {
		return 0, err
	}
	if rhs.typ.Kind() == typ.KInt && rhs.typ.IntVal() == 1 {
		return g.peephole(n.inputs[0]) // T_ARITH_IDENT: x/1 -> x
	}
	return slot, nil
}

func isIntFamily(t typ.Typ) bool {
	switch t.Kind() {
	case typ.KInt, typ.KIntTop, typ.KIntBot:
		return true
	default:
		return false
	}
}

func isBoolFamily(t typ.Typ) bool {
	switch t.Kind() {
	case typ.KBool, typ.KBoolTop, typ.KBoolBot:
		return true
	default:
		return false
	}
}

func (g *Graph) idealizeComp(slot Slot) (Slot, error) {
	n, err := g.Get(slot)
	if err != nil {
		return 0, err
	}
	op := n.compOp
	lhsSlot, rhsSlot := n.inputs[0], n.inputs[1]
	rhs, err := g.Get(rhsSlot)
	if err != nil {
		return 0, err
	}

	switch op {
	case CompLogAnd:
		if rhs.typ.Kind() == typ.KBool && rhs.typ.BoolVal() {
			return g.peephole(lhsSlot) // T_ARITH_IDENT: x && true -> x
		}
	case CompLogOr:
		if rhs.typ.Kind() == typ.KBool && !rhs.typ.BoolVal() {
			return g.peephole(lhsSlot) // T_ARITH_IDENT: x || false -> x
		}
	}

	if lhsSlot == rhsSlot {
		lhs, err := g.Get(lhsSlot)
		if err != nil {
			return 0, err
		}
		switch op {
		case CompLogAnd, CompLogOr:
			return g.peephole(lhsSlot) // T_ADD_SAME: x op x -> x
		case CompLogXor:
			if isIntFamily(lhs.typ) {
				return g.NewConstant(typ.Int(0)) // T_ADD_SAME: x^x -> 0
			}
			if isBoolFamily(lhs.typ) {
				return g.NewConstant(typ.Bool(false)) // T_ADD_SAME: x^x -> false
			}
		}
	}

	if !op.commutative() {
		return slot, nil // LT, LEQ: no canonicalization rules apply
	}
	return g.canonicalizeCommutative(slot)
}

// opFamily identifies "the same combining operation" for canonicalization
// purposes: a Kind, plus a CompOp when Kind is KComp. Two nodes combine
// under T_LEFT_SPINE/T_ASSOCIATIVITY/T_CANONIC_INC_NID/T_RIGHT_CONST only
// if their families match exactly — an Add never combines with a
// Comp{LogOr}, and a Comp{LogAnd} never combines with a Comp{LogOr}.
type opFamily struct {
	kind Kind
	op   CompOp
}

func familyOf(n *Node) opFamily { return opFamily{kind: n.kind, op: n.compOp} }

func (f opFamily) matches(n *Node) bool {
	if n.kind != f.kind {
		return false
	}
	if f.kind == KComp {
		return n.compOp == f.op
	}
	return true
}

// associative reports whether f may be rotated across parentheses
// (T_ASSOCIATIVITY): Add and the bitwise/boolean Comp ops, but not
// Comp{EQ} — equality chains are canonically ordered (T_CANONIC_INC_NID)
// but never re-associated.
func (f opFamily) associative() bool {
	if f.kind == KAdd {
		return true
	}
	return f.kind == KComp && (f.op == CompLogAnd || f.op == CompLogOr || f.op == CompLogXor)
}

func (g *Graph) buildFamilyNode(f opFamily, lhs, rhs Slot) (Slot, error) {
	if f.kind == KComp {
		return g.newNodeUnrefined(KComp, []Slot{lhs, rhs}, func(n *Node) { n.compOp = f.op })
	}
	return g.newNodeUnrefined(f.kind, []Slot{lhs, rhs}, nil)
}

// canonicalizeCommutative implements T_LEFT_SPINE, T_ASSOCIATIVITY,
// T_CANONIC_INC_NID, and the Add/Comp half of T_RIGHT_CONST, generalized
// from the reference implementation's Add-only version to every
// commutative op family (spec.md §4.3). It assumes the caller has already
// ruled out the kind-specific identity and same-operand rules.
func (g *Graph) canonicalizeCommutative(slot Slot) (Slot, error) {
	n, err := g.Get(slot)
	if err != nil {
		return 0, err
	}
	f := familyOf(n)
	lhsSlot, rhsSlot := n.inputs[0], n.inputs[1]
	lhs, err := g.Get(lhsSlot)
	if err != nil {
		return 0, err
	}
	rhs, err := g.Get(rhsSlot)
	if err != nil {
		return 0, err
	}
	isLhsSame := f.matches(lhs)
	isRhsSame := f.matches(rhs)

	if !isLhsSame && isRhsSame {
		n.inputs[0], n.inputs[1] = rhsSlot, lhsSlot
		return g.peephole(slot) // T_LEFT_SPINE
	}

	if isRhsSame {
		if !f.associative() {
			return slot, nil
		}
		rhsLhs, rhsRhs := rhs.inputs[0], rhs.inputs[1]
		inner, err := g.buildFamilyNode(f, lhsSlot, rhsLhs)
		if err != nil {
			return 0, err
		}
		outer, err := g.buildFamilyNode(f, inner, rhsRhs)
		if err != nil {
			return 0, err
		}
		return g.peephole(outer) // T_ASSOCIATIVITY
	}

	if !isLhsSame {
		if lhs.uid > rhs.uid {
			n.inputs[0], n.inputs[1] = rhsSlot, lhsSlot
			return g.peephole(slot) // T_CANONIC_INC_NID: ascending-uid swap
		}
		return slot, nil
	}

	// isLhsSame (and !isRhsSame, handled above).
	lhsLhs, lhsRhs := lhs.inputs[0], lhs.inputs[1]
	lhsRhsNode, err := g.Get(lhsRhs)
	if err != nil {
		return 0, err
	}
	if lhsRhsNode.typ.IsConstant() && rhs.typ.IsConstant() {
		inner, err := g.buildFamilyNode(f, lhsRhs, rhsSlot)
		if err != nil {
			return 0, err
		}
		outer, err := g.buildFamilyNode(f, lhsLhs, inner)
		if err != nil {
			return 0, err
		}
		return g.peephole(outer) // T_RIGHT_CONST: hoist the two constants together
	}
	if lhsRhsNode.uid > rhs.uid {
		inner, err := g.buildFamilyNode(f, lhsLhs, rhsSlot)
		if err != nil {
			return 0, err
		}
		outer, err := g.buildFamilyNode(f, inner, lhsRhs)
		if err != nil {
			return 0, err
		}
		return g.peephole(outer) // T_CANONIC_INC_NID: rotate
	}
	return slot, nil
}
