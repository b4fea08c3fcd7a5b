// Package render generates diagnostic diagrams of constraint graphs.
//
// The constraint graph behind a verdict is often easier to inspect as a
// picture: host nodes in one shade, parasite nodes in another, one arrow
// per temporal constraint. This package converts the wire form of a graph
// to Graphviz DOT and renders it to SVG.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/cophylo/phylotime/pkg/graph"
)

// Options configures constraint graph rendering.
type Options struct {
	// Detailed includes the node origin in labels.
	// When false, only the node name is shown.
	Detailed bool

	// Structural marks edges that come from tree adjacency rather than
	// reconciliation events. Marked edges are drawn dashed and grey.
	Structural map[graph.ConstraintEdge]bool
}

// ToDOT converts a constraint graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Host nodes are drawn as filled boxes, parasite nodes as filled
// ellipses, so the two trees stay visually separate.
func ToDOT(c graph.Constraints, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph constraints {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fontsize=14];\n")
	buf.WriteString("\n")

	seen := make(map[graph.Node]bool)
	writeNode := func(n graph.Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		fmt.Fprintf(&buf, "  %q [label=%q, %s];\n", nodeID(n), fmtLabel(n, opts.Detailed), fmtAttrs(n))
	}

	// Constraints.Nodes lists the graph keys; edge targets may add leaves.
	for _, n := range c.Nodes {
		writeNode(n)
	}
	for _, e := range c.Edges {
		writeNode(e.From)
		writeNode(e.To)
	}

	buf.WriteString("\n")
	for _, e := range c.Edges {
		if opts.Structural[e] {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey];\n", nodeID(e.From), nodeID(e.To))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(e.From), nodeID(e.To))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeID disambiguates same-named nodes from different trees.
func nodeID(n graph.Node) string {
	return n.Name + "/" + n.Origin
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	return n.Name + "\n" + n.Origin
}

func fmtAttrs(n graph.Node) string {
	if n.Origin == graph.OriginParasite {
		return "shape=ellipse, fillcolor=lightyellow"
	}
	return "shape=box, fillcolor=lightblue"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
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
