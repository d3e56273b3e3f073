package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/asttree/pkg/diagram"
	"github.com/matzehuels/asttree/pkg/plot"
)

// Marker and line styling.
const (
	DefaultMarkerSize  = 10.0
	DefaultOpacity     = 0.8
	DefaultLineWidth   = 1.0
	DefaultBackground  = "white"
	markerOutline      = "white"
	markerOutlineWidth = 0.5
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	markerSize float64
	opacity    float64
	lineWidth  float64
	background string
}

// WithMarkerSize sets the marker diameter in pixels.
func WithMarkerSize(size float64) SVGOption { return func(r *svgRenderer) { r.markerSize = size } }

// WithOpacity sets the marker layer opacity.
func WithOpacity(o float64) SVGOption { return func(r *svgRenderer) { r.opacity = o } }

// WithLineWidth sets the edge stroke width.
func WithLineWidth(w float64) SVGOption { return func(r *svgRenderer) { r.lineWidth = w } }

// WithBackground sets the background fill. An empty color draws none.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		markerSize: DefaultMarkerSize,
		opacity:    DefaultOpacity,
		lineWidth:  DefaultLineWidth,
		background: DefaultBackground,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG renders l as an SVG document of l.Width x l.Height pixels.
func RenderSVG(l diagram.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	s := newScaler(l, r.markerSize)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(r.background))
	}

	renderEdges(&buf, l, s, r.lineWidth)
	renderNodes(&buf, l, s, r)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderEdges(buf *bytes.Buffer, l diagram.Layout, s scaler, width float64) {
	if len(l.Edges) == 0 {
		return
	}
	fmt.Fprintf(buf, `  <g class="edges" fill="none" stroke="%s" stroke-width="%.2f" pointer-events="none">`+"\n",
		html.EscapeString(l.LineColor), width)
	buf.WriteString(`    <path d="`)
	for i, e := range l.Edges {
		if i > 0 {
			buf.WriteByte(' ')
		}
		from, to := s.point(e.Points[0]), s.point(e.Points[1])
		fmt.Fprintf(buf, "M%.2f %.2f L%.2f %.2f", from.X, from.Y, to.X, to.Y)
	}
	buf.WriteString(`"/>` + "\n  </g>\n")
}

func renderNodes(buf *bytes.Buffer, l diagram.Layout, s scaler, r svgRenderer) {
	fmt.Fprintf(buf, `  <g class="nodes" opacity="%.2f" stroke="%s" stroke-width="%.2f">`+"\n",
		r.opacity, markerOutline, markerOutlineWidth)
	radius := r.markerSize / 2
	for _, n := range l.Nodes {
		p := s.point(plot.Point{X: n.X, Y: n.Y})
		fmt.Fprintf(buf, `    <circle id="node-%d" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"><title>%s</title></circle>`+"\n",
			n.Index, p.X, p.Y, radius, html.EscapeString(n.Color), html.EscapeString(n.Text))
	}
	buf.WriteString("  </g>\n")
}

// scaler maps layout coordinates to pixels inside the figure margins.
type scaler struct {
	lo        plot.Point
	spanX     float64
	spanY     float64
	left, top float64
	innerW    float64
	innerH    float64
}

func newScaler(l diagram.Layout, inset float64) scaler {
	lo, hi := l.Bounds()
	m := l.Margin
	return scaler{
		lo:     lo,
		spanX:  hi.X - lo.X,
		spanY:  hi.Y - lo.Y,
		left:   float64(m.Left) + inset,
		top:    float64(m.Top) + inset,
		innerW: max(0, float64(l.Width-m.Left-m.Right)-2*inset),
		innerH: max(0, float64(l.Height-m.Top-m.Bottom)-2*inset),
	}
}

func (s scaler) point(p plot.Point) plot.Point {
	return plot.Point{
		X: s.left + axis(p.X-s.lo.X, s.spanX, s.innerW),
		Y: s.top + axis(p.Y-s.lo.Y, s.spanY, s.innerH),
	}
}

// axis scales offset within span onto length; a zero span centers.
func axis(offset, span, length float64) float64 {
	if span == 0 {
		return length / 2
	}
	return offset / span * length
}
