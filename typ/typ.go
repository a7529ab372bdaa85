// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package typ implements the refined-type lattice used to constant-fold
// the sea-of-nodes graph as it is built. Top is the lattice's top element
// ("any compile-time value"); Bot is the bottom ("any runtime value").
// Each concrete family (Int, Bool, Tuple) carries its own Top/Bot pair so
// that "not yet known" and "definitely not a constant" can be told apart
// within that family.
package typ

import (
	"fmt"
	"strings"
)

// Kind tags which alternative of Typ is populated. The zero Kind is Top.
type Kind uint8

const (
	KTop Kind = iota
	KBot
	KCtrl
	KInt
	KIntTop
	KIntBot
	KBool
	KBoolTop
	KBoolBot
	KTuple
	KTupleTop
	KTupleBot
)

// Typ is a single element of the lattice. Typ values are compared with
// Equal, never with ==, because Tuple carries a slice.
type Typ struct {
	kind    Kind
	ival    int64
	bval    bool
	tupElts []Typ
}

var (
	Top  = Typ{kind: KTop}
	Bot  = Typ{kind: KBot}
	Ctrl = Typ{kind: KCtrl}

	IntTop = Typ{kind: KIntTop}
	IntBot = Typ{kind: KIntBot}

	BoolTop = Typ{kind: KBoolTop}
	BoolBot = Typ{kind: KBoolBot}

	TupleTop = Typ{kind: KTupleTop}
	TupleBot = Typ{kind: KTupleBot}
)

// Int returns the lattice element for the single constant integer v.
func Int(v int64) Typ { return Typ{kind: KInt, ival: v} }

// Bool returns the lattice element for the single constant boolean v.
func Bool(v bool) Typ { return Typ{kind: KBool, bval: v} }

// Tuple returns the lattice element describing a fixed-width tuple of
// component types, e.g. Start's (Ctrl, arg) result.
func Tuple(elts ...Typ) Typ {
	cp := make([]Typ, len(elts))
	copy(cp, elts)
	return Typ{kind: KTuple, tupElts: cp}
}

func (t Typ) Kind() Kind { return t.kind }

// IntVal returns the constant carried by an Int element. It is only
// meaningful when Kind() == KInt.
func (t Typ) IntVal() int64 { return t.ival }

// BoolVal returns the constant carried by a Bool element. It is only
// meaningful when Kind() == KBool.
func (t Typ) BoolVal() bool { return t.bval }

// TupleElems returns the component types of a Tuple element. It is only
// meaningful when Kind() == KTuple.
func (t Typ) TupleElems() []Typ { return t.tupElts }

// Equal reports structural equality of two lattice elements.
func (t Typ) Equal(o Typ) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KInt:
		return t.ival == o.ival
	case KBool:
		return t.bval == o.bval
	case KTuple:
		if len(t.tupElts) != len(o.tupElts) {
			return false
		}
		for i := range t.tupElts {
			if !t.tupElts[i].Equal(o.tupElts[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// IsConstant reports whether t denotes a single, known compile-time
// value: Top (the degenerate empty set, any value at all would do), or a
// concrete Int/Bool constant.
func (t Typ) IsConstant() bool {
	return t.kind == KTop || t.kind == KInt || t.kind == KBool
}

// Dual swaps Top and Bot within each family; constants, Ctrl, and Tuple
// element types are self-dual.
func (t Typ) Dual() Typ {
	switch t.kind {
	case KTop:
		return Bot
	case KBot:
		return Top
	case KIntTop:
		return IntBot
	case KIntBot:
		return IntTop
	case KBoolTop:
		return BoolBot
	case KBoolBot:
		return BoolTop
	case KTupleTop:
		return TupleBot
	case KTupleBot:
		return TupleTop
	default:
		return t
	}
}

// Meet computes the greatest lower bound of t and o.
func (t Typ) Meet(o Typ) Typ {
	switch t.kind {
	case KBot:
		return Bot
	case KTop:
		return o
	case KCtrl:
		if o.kind == KTop || o.kind == KCtrl {
			return Ctrl
		}
		return Bot
	case KInt:
		switch o.kind {
		case KInt:
			if t.ival == o.ival {
				return t
			}
			return IntBot
		case KIntTop, KTop:
			return t
		case KIntBot:
			return IntBot
		default:
			return Bot
		}
	case KIntTop:
		switch o.kind {
		case KTop:
			return t
		case KInt, KIntTop, KIntBot:
			return o
		default:
			return Bot
		}
	case KIntBot:
		switch o.kind {
		case KTop:
			return t
		case KInt, KIntTop, KIntBot:
			return IntBot
		default:
			return Bot
		}
	case KBool:
		switch o.kind {
		case KBool:
			if t.bval == o.bval {
				return t
			}
			return BoolBot
		case KBoolTop, KTop:
			return t
		case KBoolBot:
			return BoolBot
		default:
			return Bot
		}
	case KBoolTop:
		switch o.kind {
		case KTop:
			return t
		case KBool, KBoolTop, KBoolBot:
			return o
		default:
			return Bot
		}
	case KBoolBot:
		switch o.kind {
		case KTop:
			return t
		case KBool, KBoolTop, KBoolBot:
			return BoolBot
		default:
			return Bot
		}
	case KTuple:
		switch o.kind {
		case KTop:
			return t
		case KTupleTop:
			return t
		case KTupleBot:
			return TupleBot
		case KTuple:
			if len(t.tupElts) != len(o.tupElts) {
				return TupleBot
			}
			elts := make([]Typ, len(t.tupElts))
			for i := range elts {
				elts[i] = t.tupElts[i].Meet(o.tupElts[i])
			}
			return Tuple(elts...)
		default:
			return Bot
		}
	case KTupleTop:
		switch o.kind {
		case KTop:
			return t
		case KTuple, KTupleTop, KTupleBot:
			return o
		default:
			return Bot
		}
	case KTupleBot:
		switch o.kind {
		case KTop:
			return t
		case KTuple, KTupleTop, KTupleBot:
			return TupleBot
		default:
			return Bot
		}
	default:
		return Bot
	}
}

// Join computes the least upper bound, defined dually to Meet.
func (t Typ) Join(o Typ) Typ {
	return t.Dual().Meet(o.Dual()).Dual()
}

// TransitionAllowed reports whether moving a node's type from t to o
// respects the lattice: types only ever move up (strictly toward
// constants) as optimization progresses.
func (t Typ) TransitionAllowed(o Typ) bool {
	return t.Meet(o).Equal(t)
}

func (t Typ) String() string {
	switch t.kind {
	case KTop:
		return "Top"
	case KBot:
		return "Bot"
	case KCtrl:
		return "Ctrl"
	case KInt:
		return fmt.Sprintf("Int{%d}", t.ival)
	case KIntTop:
		return "IntTop"
	case KIntBot:
		return "IntBot"
	case KBool:
		return fmt.Sprintf("Bool{%t}", t.bval)
	case KBoolTop:
		return "BoolTop"
	case KBoolBot:
		return "BoolBot"
	case KTuple:
		parts := make([]string, len(t.tupElts))
		for i, e := range t.tupElts {
			parts[i] = e.String()
		}
		return fmt.Sprintf("Tuple{%s}", strings.Join(parts, ", "))
	case KTupleTop:
		return "TupleTop"
	case KTupleBot:
		return "TupleBot"
	default:
		return "?"
	}
}
