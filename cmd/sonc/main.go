// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The sonc command parses a source file into a sea-of-nodes graph,
// prints the rendering of its terminal node, and optionally emits a DOT
// dump of the final graph.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/sonlang/sonc/dot"
	"github.com/sonlang/sonc/graph"
	"github.com/sonlang/sonc/parser"
)

var (
	argFlag        = flag.Int64("arg", 0, "fix the program's implicit `arg` to this value")
	hasArgFlag     = flag.Bool("with-arg", false, "treat -arg as supplied (otherwise arg's type is IntBot)")
	noOptimizeFlag = flag.Bool("no-optimize", false, "skip the peephole/idealizer pipeline; the refiner still runs")
	dotFlag        = flag.Bool("dot", false, "print a DOT rendering of the final graph to stdout")
	writeFlag      = flag.String("w", "", "write the DOT rendering to `file` instead of stdout")
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s [flags] <file>

Reads a source file (or stdin if <file> is "-"), parses it into a
sea-of-nodes graph, and prints the rendering of its terminal node.

flags:
`, os.Args[0])
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
	}

	src, err := readSource(flag.Arg(0))
	if err != nil {
		fatal(err)
	}

	var p *parser.Parser
	if *hasArgFlag {
		p = parser.NewWithArg(src, *argFlag, !*noOptimizeFlag)
	} else {
		p = parser.New(src, !*noOptimizeFlag)
	}
	// Wiring this closure, rather than having parser import package dot
	// directly, is what lets #showGraph; work without a parser<->dot
	// circular import.
	p.SetRenderer(func(g *graph.Graph) string { return dot.Emit(g, src) })

	result, err := p.Parse()
	if err != nil {
		fatal(err)
	}

	fmt.Println(p.Graph().String(result))

	for _, dump := range p.DebugDumps() {
		fmt.Fprintln(os.Stderr, dump)
	}

	if *dotFlag || *writeFlag != "" {
		rendered := dot.Emit(p.Graph(), src)
		if *writeFlag != "" {
			if err := ioutil.WriteFile(*writeFlag, []byte(rendered), 0o644); err != nil {
				fatal(err)
			}
		} else {
			fmt.Println(rendered)
		}
	}
}

func readSource(name string) (string, error) {
	if name == "-" {
		b, err := ioutil.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := ioutil.ReadFile(name)
	return string(b), err
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
