// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dot renders a graph.Graph as Graphviz DOT: one cluster for
// value/control nodes, one for the scope node's lexical stack as an HTML
// table per level, with edges linking definitions to uses and scope
// bindings to the values they name.
package dot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sonlang/sonc/graph"
	"github.com/sonlang/sonc/typ"
)

// Emit renders g as a complete `digraph mygraph{...}` document. src is
// embedded verbatim as a /* ... */ comment at the top — the source text
// the graph was parsed from; the comment is written even when src is
// empty.
func Emit(g *graph.Graph, src string) string {
	var b strings.Builder

	b.WriteString("digraph mygraph{\n")
	b.WriteString("/*\n")
	b.WriteString(src)
	b.WriteString("\n*/\n")
	b.WriteString("\trankdir=BT;\n")
	b.WriteString("\tordering=\"in\";\n")
	b.WriteString("\tconcentrate=\"true\";\n")

	valueSlots := collectValueSlots(g)

	b.WriteString("\tsubgraph cluster_Nodes {\n")
	for _, slot := range valueSlots {
		n, err := g.Get(slot)
		if err != nil {
			continue
		}
		b.WriteString("\t\t")
		b.WriteString(nodeTag(slot))
		b.WriteString(" [ ")
		if n.IsCFG() {
			b.WriteString("shape=box style=filled fillcolor=yellow ")
		}
		b.WriteString("label=\"")
		b.WriteString(nodeIcon(g, n))
		b.WriteString("\" ")
		b.WriteString("];\n")
	}
	b.WriteString("\t}\n")

	emitScopeClusters(&b, g)

	b.WriteString("\tedge [ fontname=Helvetica, fontsize=8 ];\n")
	for _, slot := range valueSlots {
		n, err := g.Get(slot)
		if err != nil {
			continue
		}
		for i, defSlot := range n.Inputs() {
			def, err := g.Get(defSlot)
			if err != nil {
				continue
			}
			b.WriteString("\t")
			b.WriteString(nodeTag(slot))
			b.WriteString(" -> ")
			b.WriteString(nodeTag(defSlot))
			b.WriteString(fmt.Sprintf("[taillabel=%d", i))
			switch {
			case n.Kind() == graph.KConstant && def.Kind() == graph.KStart:
				b.WriteString(" style=dotted")
			case def.IsCFG():
				b.WriteString(" color=red")
			}
			b.WriteString("];\n")
		}
	}

	emitScopeEdges(&b, g)

	b.WriteString("}\n")
	return b.String()
}

// collectValueSlots returns every live slot except KeepAlive and Scope,
// in ascending slot order — the reference implementation's graph_iter
// order.
func collectValueSlots(g *graph.Graph) []graph.Slot {
	var slots []graph.Slot
	for slot := graph.Slot(0); int(slot) < g.Len(); slot++ {
		n, err := g.Get(slot)
		if err != nil {
			continue
		}
		if n.Kind() == graph.KKeepAlive || n.Kind() == graph.KScope {
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

func nodeTag(slot graph.Slot) string { return fmt.Sprintf("Node_%d", slot) }

func nodeIcon(g *graph.Graph, n *graph.Node) string {
	switch n.Kind() {
	case graph.KConstant:
		return constantIcon(n.Typ())
	case graph.KReturn:
		return "Return"
	case graph.KStart:
		return "Start"
	case graph.KKeepAlive:
		return "KeepAlive"
	case graph.KAdd:
		return "+"
	case graph.KSub:
		return "-"
	case graph.KMul:
		return "*"
	case graph.KDiv:
		return "/"
	case graph.KMinus:
		return "-"
	case graph.KNot:
		return "!"
	case graph.KComp:
		return n.CompOp().String()
	case graph.KProj:
		return fmt.Sprintf("Proj[%s]", n.ProjLabel())
	case graph.KScope:
		return "Scope"
	default:
		return n.Kind().String()
	}
}

func constantIcon(t typ.Typ) string {
	switch t.Kind() {
	case typ.KInt:
		return fmt.Sprintf("#%d", t.IntVal())
	case typ.KBool:
		return fmt.Sprintf("#%t", t.BoolVal())
	default:
		return t.String()
	}
}

func emitScopeClusters(b *strings.Builder, g *graph.Graph) {
	levels := scopeLevels(g)
	if len(levels) == 0 {
		return
	}

	b.WriteString("\tnode [shape=plaintext];\n")
	for level, names := range levels {
		scopeName := fmt.Sprintf("Node_%d_%d", graph.SlotScope, level)
		b.WriteString("\tsubgraph cluster_")
		b.WriteString(scopeName)
		b.WriteString(" {\n\t\t")
		b.WriteString(scopeName)
		b.WriteString(" [label=<\n\t\t\t<TABLE BORDER=\"0\" CELLBORDER=\"1\" CELLSPACING=\"0\">\n\t\t\t<TR><TD BGCOLOR=\"cyan\">")
		b.WriteString(fmt.Sprintf("%d", level))
		b.WriteString("</TD>")
		for _, name := range names {
			b.WriteString("<TD PORT=\"")
			b.WriteString(fmt.Sprintf("%s_%s", scopeName, name))
			b.WriteString("\">")
			b.WriteString(name)
			b.WriteString("</TD>")
		}
		b.WriteString("</TR>\n\t\t\t</TABLE>>];\n\t}\n")
	}
}

func emitScopeEdges(b *strings.Builder, g *graph.Graph) {
	levels := scopeLevels(g)
	if len(levels) == 0 {
		return
	}
	b.WriteString("\tedge [style=dashed color=cornflowerblue];\n")
	for level, names := range levels {
		scopeName := fmt.Sprintf("Node_%d_%d", graph.SlotScope, level)
		for _, name := range names {
			slot, ok := lookupAtLevel(g, level, name)
			if !ok {
				continue
			}
			b.WriteString("\t")
			b.WriteString(fmt.Sprintf("%s:\"%s_%s\"", scopeName, scopeName, name))
			b.WriteString(" -> ")
			b.WriteString(nodeTag(slot))
			b.WriteString(";\n")
		}
	}
}

// scopeLevels returns, per open lexical level (outermost first), the
// sorted list of bound names — read-only introspection used purely for
// rendering.
func scopeLevels(g *graph.Graph) [][]string {
	names := g.ScopeLevelNames()
	out := make([][]string, len(names))
	for i, level := range names {
		sorted := append([]string(nil), level...)
		sort.Strings(sorted)
		out[i] = sorted
	}
	return out
}

func lookupAtLevel(g *graph.Graph, level int, name string) (graph.Slot, bool) {
	return g.LookupAtLevel(level, name)
}
