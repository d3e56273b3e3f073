// Package plot maps abstract tidy-tree positions to 2D plot coordinates.
//
// [Transform] is a pure function of a layout, its edges and an [Orientation].
// In [Vertical] mode depth grows along x and sibling order along y, so the
// root sits at the left. In [Horizontal] mode the axes are swapped and the
// root sits at the top (minimal y). The two results for one layout are each
// other's axis swap.
package plot

import (
	"strings"

	"github.com/matzehuels/asttree/pkg/ast"
	"github.com/matzehuels/asttree/pkg/errors"
	"github.com/matzehuels/asttree/pkg/tidy"
)

// Orientation selects how depth and order map onto the plot axes.
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// DefaultOrientation is used when no orientation is given.
const DefaultOrientation = Vertical

// Orientations lists the supported orientations.
var Orientations = []Orientation{Vertical, Horizontal}

// ParseOrientation validates an orientation name. The empty string selects
// [DefaultOrientation].
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return DefaultOrientation, nil
	case Vertical, Horizontal:
		return o, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidOrientation,
			"invalid orientation: %q (must be one of: vertical, horizontal)", s)
	}
}

func (o Orientation) String() string { return string(o) }

// Point is a plot coordinate.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Segment is the straight line drawn for one edge.
type Segment struct {
	Parent int   `json:"parent" msgpack:"parent"`
	Child  int   `json:"child" msgpack:"child"`
	From   Point `json:"from" msgpack:"from"`
	To     Point `json:"to" msgpack:"to"`
}

// Coordinates is the output of [Transform].
type Coordinates struct {
	Orientation Orientation `json:"orientation" msgpack:"orientation"`
	Nodes       []Point     `json:"nodes" msgpack:"nodes"`
	Segments    []Segment   `json:"segments" msgpack:"segments"`
}

// Transform maps positions to plot coordinates and builds one segment per
// edge, in edge order. Unknown orientations are treated as [Vertical].
//
// Every edge endpoint must index into pos. Neither input is modified.
func Transform(pos tidy.Positions, edges []ast.Edge, o Orientation) Coordinates {
	if o != Horizontal {
		o = Vertical
	}
	c := Coordinates{
		Orientation: o,
		Nodes:       make([]Point, len(pos)),
		Segments:    make([]Segment, len(edges)),
	}
	for i, p := range pos {
		c.Nodes[i] = project(p, o)
	}
	for i, e := range edges {
		c.Segments[i] = Segment{
			Parent: e.Parent,
			Child:  e.Child,
			From:   c.Nodes[e.Parent],
			To:     c.Nodes[e.Child],
		}
	}
	return c
}

func project(p tidy.Position, o Orientation) Point {
	depth := float64(p.Depth)
	if o == Horizontal {
		return Point{X: p.Order, Y: depth}
	}
	return Point{X: depth, Y: p.Order}
}

// Trace flattens the segments into a single polyline. A nil entry separates
// consecutive segments so they are not joined when drawn.
func (c Coordinates) Trace() (xs, ys []*float64) {
	xs = make([]*float64, 0, 3*len(c.Segments))
	ys = make([]*float64, 0, 3*len(c.Segments))
	for _, s := range c.Segments {
		xs = append(xs, ptr(s.From.X), ptr(s.To.X), nil)
		ys = append(ys, ptr(s.From.Y), ptr(s.To.Y), nil)
	}
	return xs, ys
}

// Bounds returns the smallest box containing every node.
// Both corners are the origin when there are no nodes.
func (c Coordinates) Bounds() (lo, hi Point) {
	for i, p := range c.Nodes {
		if i == 0 {
			lo, hi = p, p
			continue
		}
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}

func ptr(v float64) *float64 { return &v }
