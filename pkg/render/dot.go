package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/asttree/pkg/diagram"
	"github.com/matzehuels/asttree/pkg/plot"
)

// pointsPerInch converts marker pixels to Graphviz node sizes.
const pointsPerInch = 72.0

// ToDOT converts l to an undirected Graphviz graph with every node pinned at
// its scaled layout position. Node labels become tooltips; markers carry no
// visible text.
func ToDOT(l diagram.Layout) string {
	s := newScaler(l, DefaultMarkerSize)
	height := float64(l.Height)
	size := DefaultMarkerSize / pointsPerInch

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%d,%d\";\n", l.Width, l.Height)
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, width=%.4f, label=\"\", color=%s, penwidth=%.1f];\n",
		size, dotQuote(markerOutline), markerOutlineWidth)
	fmt.Fprintf(&buf, "  edge [color=%s, penwidth=%.1f];\n", dotQuote(l.LineColor), DefaultLineWidth)
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		p := s.point(plot.Point{X: n.X, Y: n.Y})
		// Graphviz puts the origin at the bottom left.
		fmt.Fprintf(&buf, "  n%d [pos=\"%.2f,%.2f!\", fillcolor=%s, tooltip=%s];\n",
			n.Index, p.X, height-p.Y, dotQuote(n.Color), dotQuote(n.Text))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  n%d -- n%d;\n", e.Parent, e.Child)
	}

	buf.WriteString("}\n")
	return buf.String()
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// dotQuote returns s as a DOT double-quoted string. Only backslash and quote
// are escaped; any other character is written as is.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// RenderDOT lays out a DOT graph with neato, keeping pinned positions, and
// renders it to SVG.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
