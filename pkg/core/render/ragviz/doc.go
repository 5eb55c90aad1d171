// Package ragviz renders resource-allocation graphs using Graphviz.
//
// This package draws the bipartite hold/wait graph built by the rag package:
// processes as ellipses, resources as grey boxes, hold edges solid and wait
// edges dashed, following the usual operating-systems textbook convention.
// A detected deadlock cycle can be passed in for highlighting.
//
// # Architecture
//
// Graphviz handles layout and rendering in a single step:
//
//	Snapshot → rag.Build() → Graph → ToDOT() → DOT → RenderSVG() → SVG
//
// The DOT format serves as the intermediate representation, enabling
// re-rendering without re-building the graph and letting callers feed the
// output to external Graphviz tooling.
//
// # Determinism
//
// Nodes and edges are emitted in graph insertion order and DOT identifiers
// are the stable node IDs ("p0", "r1", ...), so identical snapshots always
// produce byte-identical DOT. Display names only appear in labels, which
// keeps graphs with duplicate display names unambiguous.
//
// # Usage
//
//	g := rag.Build(snap)
//	dot := ragviz.ToDOT(g, ragviz.Options{Rankdir: "LR"})
//	svg, err := ragviz.RenderSVG(dot)
package ragviz
