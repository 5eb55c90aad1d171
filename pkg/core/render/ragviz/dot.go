package ragviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/NishanthRao01/bankguard/pkg/core/rag"
)

// DefaultRankdir is the layout direction used when Options.Rankdir is empty.
const DefaultRankdir = "LR"

// Options configures resource-allocation-graph rendering.
type Options struct {
	// Rankdir sets the Graphviz layout direction (TB, LR, BT, RL).
	Rankdir string

	// Highlight lists edges to emphasize, typically a detected deadlock
	// cycle. Edges are matched by endpoint IDs; edges whose endpoints are
	// not in the graph (such as the synthetic starvation cycle) are
	// silently skipped.
	Highlight []rag.Edge
}

// ToDOT converts a resource-allocation graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Hold edges (resource → process) are solid, wait edges (process → resource)
// dashed. Highlighted edges are drawn red with a thicker pen.
func ToDOT(g *rag.Graph, opts Options) string {
	rankdir := opts.Rankdir
	if rankdir == "" {
		rankdir = DefaultRankdir
	}

	highlighted := make(map[[2]string]bool, len(opts.Highlight))
	for _, e := range opts.Highlight {
		highlighted[[2]string{e.From.ID(), e.To.ID()}] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph RAG {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.15,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID(), strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := edgeAttrs(e, highlighted[[2]string{e.From.ID(), e.To.ID()}])
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.ID(), e.To.ID())
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From.ID(), e.To.ID(), strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n rag.Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.Name)}
	switch n.Kind {
	case rag.KindResource:
		attrs = append(attrs, "shape=box", "style=filled", "fillcolor=lightgrey")
	default:
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=white")
	}
	return attrs
}

func edgeAttrs(e rag.Edge, highlighted bool) []string {
	var attrs []string
	if e.Relation == rag.RelationWaits {
		attrs = append(attrs, "style=dashed")
	}
	if highlighted {
		attrs = append(attrs, "color=red", "penwidth=2.0")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// The SVG viewBox is normalized to a zero origin so the output embeds
// cleanly in HTML.
func RenderSVG(dot string) ([]byte, error) {
	data, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
