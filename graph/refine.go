// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "github.com/sonlang/sonc/typ"

// computeRefinedTyp is the type refiner: a pure function of a node and
// its current inputs that computes a (possibly) more constant lattice
// element. It never looks past a node's immediate inputs and never
// mutates the graph; refineTyp (arena.go) is what commits the result and
// enforces monotonicity.
func (g *Graph) computeRefinedTyp(n *Node) (typ.Typ, error) {
	switch n.kind {
	case KAdd:
		return g.refineBinaryInt(n, func(a, b int64) int64 { return a + b })
	case KSub:
		return g.refineBinaryInt(n, func(a, b int64) int64 { return a - b })
	case KMul:
		return g.refineBinaryInt(n, func(a, b int64) int64 { return a * b })
	case KDiv:
		return g.refineDiv(n)
	case KMinus:
		return g.refineMinus(n)
	case KNot:
		return g.refineNot(n)
	case KComp:
		return g.refineComp(n)
	case KProj:
		return g.refineProj(n)
	default:
		// Constant, Return, Start, KeepAlive, Scope: identity.
		return n.typ, nil
	}
}

func (g *Graph) inputTyps2(n *Node) (typ.Typ, typ.Typ, error) {
	lhs, err := g.Get(n.inputs[0])
	if err != nil {
		return typ.Typ{}, typ.Typ{}, err
	}
	rhs, err := g.Get(n.inputs[1])
	if err != nil {
		return typ.Typ{}, typ.Typ{}, err
	}
	return lhs.typ, rhs.typ, nil
}

func (g *Graph) refineBinaryInt(n *Node, op func(a, b int64) int64) (typ.Typ, error) {
	lt, rt, err := g.inputTyps2(n)
	if err != nil {
		return typ.Typ{}, err
	}
	if lt.Kind() == typ.KInt && rt.Kind() == typ.KInt {
		return typ.Int(op(lt.IntVal(), rt.IntVal())), nil
	}
	return n.typ, nil
}

// refineDiv folds Int/Int division, except when the divisor is the
// constant zero: division by zero is undefined at compile time (spec.md
// §9 open question), and this implementation leaves the node's type
// un-folded in that case rather than computing or panicking.
func (g *Graph) refineDiv(n *Node) (typ.Typ, error) {
	lt, rt, err := g.inputTyps2(n)
	if err != nil {
		return typ.Typ{}, err
	}
	if lt.Kind() == typ.KInt && rt.Kind() == typ.KInt {
		if rt.IntVal() == 0 {
			return n.typ, nil
		}
		return typ.Int(lt.IntVal() / rt.IntVal()), nil
	}
	return n.typ, nil
}

func (g *Graph) refineMinus(n *Node) (typ.Typ, error) {
	in, err := g.Get(n.inputs[0])
	if err != nil {
		return typ.Typ{}, err
	}
	if in.typ.Kind() == typ.KInt {
		return typ.Int(-in.typ.IntVal()), nil
	}
	return n.typ, nil
}

func (g *Graph) refineNot(n *Node) (typ.Typ, error) {
	in, err := g.Get(n.inputs[0])
	if err != nil {
		return typ.Typ{}, err
	}
	switch in.typ.Kind() {
	case typ.KInt:
		return typ.Int(^in.typ.IntVal()), nil
	case typ.KBool:
		return typ.Bool(!in.typ.BoolVal()), nil
	default:
		return n.typ, nil
	}
}

func (g *Graph) refineComp(n *Node) (typ.Typ, error) {
	lt, rt, err := g.inputTyps2(n)
	if err != nil {
		return typ.Typ{}, err
	}
	switch n.compOp {
	case CompLT:
		if lt.Kind() == typ.KInt && rt.Kind() == typ.KInt {
			return typ.Bool(lt.IntVal() < rt.IntVal()), nil
		}
	case CompLEQ:
		if lt.Kind() == typ.KInt && rt.Kind() == typ.KInt {
			return typ.Bool(lt.IntVal() <= rt.IntVal()), nil
		}
	case CompEQ:
		if lt.Kind() == typ.KInt && rt.Kind() == typ.KInt {
			return typ.Bool(lt.IntVal() == rt.IntVal()), nil
		}
		if lt.Kind() == typ.KBool && rt.Kind() == typ.KBool {
			return typ.Bool(lt.BoolVal() == rt.BoolVal()), nil
		}
	case CompLogAnd:
		if lt.Kind() == typ.KInt && rt.Kind() == typ.KInt {
			return typ.Int(lt.IntVal() & rt.IntVal()), nil
		}
		if lt.Kind() == typ.KBool && rt.Kind() == typ.KBool {
			return typ.Bool(lt.BoolVal() && rt.BoolVal()), nil
		}
	case CompLogOr:
		if lt.Kind() == typ.KInt && rt.Kind() == typ.KInt {
			return typ.Int(lt.IntVal() | rt.IntVal()), nil
		}
		if lt.Kind() == typ.KBool && rt.Kind() == typ.KBool {
			return typ.Bool(lt.BoolVal() || rt.BoolVal()), nil
		}
	case CompLogXor:
		if lt.Kind() == typ.KInt && rt.Kind() == typ.KInt {
			return typ.Int(lt.IntVal() ^ rt.IntVal()), nil
		}
		if lt.Kind() == typ.KBool && rt.Kind() == typ.KBool {
			return typ.Bool(lt.BoolVal() != rt.BoolVal()), nil
		}
	}
	return n.typ, nil
}

func (g *Graph) refineProj(n *Node) (typ.Typ, error) {
	in, err := g.Get(n.inputs[0])
	if err != nil {
		return typ.Typ{}, err
	}
	if in.typ.Kind() == typ.KTuple {
		elts := in.typ.TupleElems()
		if n.projIndex < len(elts) {
			return elts[n.projIndex], nil
		}
	}
	return n.typ, nil
}
