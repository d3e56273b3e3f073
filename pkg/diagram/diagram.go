package diagram

import (
	"slices"
	"sync"

	"github.com/matzehuels/asttree/pkg/ast"
	"github.com/matzehuels/asttree/pkg/palette"
	"github.com/matzehuels/asttree/pkg/plot"
	"github.com/matzehuels/asttree/pkg/tidy"
)

// Default figure sizes in pixels.
const (
	DefaultWidth          = 700
	DefaultHeight         = 450
	DefaultVerticalHeight = 650
)

// ExportOptions sizes the exported figure. Zero values select defaults for
// the orientation.
type ExportOptions struct {
	Width  int
	Height int
}

// Diagram lazily lays out one tree.
type Diagram struct {
	tree *ast.Tree
	line string

	mu     sync.Mutex
	solved bool
	pos    tidy.Positions
	err    error
	coords map[plot.Orientation]plot.Coordinates
}

// New returns a Diagram for tree. Edge lines use the palette's line color;
// node colors were fixed when tree was built.
func New(tree *ast.Tree, p palette.Palette) *Diagram {
	return &Diagram{
		tree:   tree,
		line:   p.Line,
		coords: make(map[plot.Orientation]plot.Coordinates, len(plot.Orientations)),
	}
}

// Tree returns the underlying tree.
func (d *Diagram) Tree() *ast.Tree { return d.tree }

// Positions returns the tidy layout of the tree.
// A failed solve is remembered and returned on every call.
func (d *Diagram) Positions() (tidy.Positions, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.solve(); err != nil {
		return nil, err
	}
	return d.pos.Clone(), nil
}

// Coordinates returns the plot coordinates for orientation o.
func (d *Diagram) Coordinates(o plot.Orientation) (plot.Coordinates, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, err := d.coordinates(o)
	if err != nil {
		return plot.Coordinates{}, err
	}
	return cloneCoordinates(c), nil
}

// Export builds the renderer-facing layout for orientation o.
func (d *Diagram) Export(o plot.Orientation, opts ExportOptions) (Layout, error) {
	d.mu.Lock()
	c, err := d.coordinates(o)
	pos := d.pos
	d.mu.Unlock()
	if err != nil {
		return Layout{}, err
	}

	width, height := figureSize(c.Orientation, opts)
	l := Layout{
		Orientation: c.Orientation,
		Width:       width,
		Height:      height,
		Margin:      marginFor(c.Orientation),
		LineColor:   d.line,
		Nodes:       make([]Node, len(c.Nodes)),
		Edges:       make([]Edge, len(c.Segments)),
	}
	for i, p := range c.Nodes {
		color, _ := d.tree.Color(i)
		text, _ := d.tree.Text(i)
		l.Nodes[i] = Node{
			Index:    i,
			X:        p.X,
			Y:        p.Y,
			Depth:    pos[i].Depth,
			Color:    color,
			Text:     text,
			Category: d.tree.Category(i),
		}
	}
	for i, s := range c.Segments {
		l.Edges[i] = Edge{Parent: s.Parent, Child: s.Child, Points: [2]plot.Point{s.From, s.To}}
	}
	return l, nil
}

func (d *Diagram) solve() error {
	if !d.solved {
		d.pos, d.err = tidy.Solve(d.tree)
		d.solved = true
	}
	return d.err
}

func (d *Diagram) coordinates(o plot.Orientation) (plot.Coordinates, error) {
	if err := d.solve(); err != nil {
		return plot.Coordinates{}, err
	}
	if o != plot.Horizontal {
		o = plot.Vertical
	}
	if c, ok := d.coords[o]; ok {
		return c, nil
	}
	c := plot.Transform(d.pos, d.tree.Edges(), o)
	d.coords[o] = c
	return c, nil
}

func figureSize(o plot.Orientation, opts ExportOptions) (width, height int) {
	width, height = opts.Width, opts.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
		if o == plot.Vertical {
			height = DefaultVerticalHeight
		}
	}
	return width, height
}

func marginFor(o plot.Orientation) Margin {
	if o == plot.Horizontal {
		return Margin{Left: 40, Right: 40, Bottom: 10}
	}
	return Margin{Left: 10, Right: 10}
}

func cloneCoordinates(c plot.Coordinates) plot.Coordinates {
	return plot.Coordinates{
		Orientation: c.Orientation,
		Nodes:       slices.Clone(c.Nodes),
		Segments:    slices.Clone(c.Segments),
	}
}
