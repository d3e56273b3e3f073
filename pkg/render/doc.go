// Package render draws diagram layouts.
//
// # Overview
//
// Renderers consume a [diagram.Layout] and never recompute positions. Every
// renderer draws the same two layers: edge lines that ignore the pointer, and
// one round marker per node filled with the node's color and carrying its
// label as hover text. No axes, ticks or gridlines are drawn.
//
//   - [RenderSVG] writes a standalone SVG document
//   - [ToDOT] writes Graphviz DOT with every node pinned at its layout
//     position, and [RenderDOT] turns it into SVG with the embedded Graphviz
//   - [ToPDF] and [ToPNG] convert SVG using the external rsvg-convert tool
//
//	l, _ := d.Export(plot.Vertical, diagram.ExportOptions{})
//	svg := render.RenderSVG(l)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// # Scaling
//
// Layout coordinates are stretched independently along each axis to fill the
// figure inside its margins, inset by one marker so edge markers are not
// clipped. Larger y values are drawn lower, so a horizontal layout has its
// root at the top.
//
// [diagram.Layout]: github.com/matzehuels/asttree/pkg/diagram.Layout
package render
