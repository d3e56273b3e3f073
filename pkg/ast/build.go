package ast

import (
	"fmt"

	"github.com/matzehuels/asttree/pkg/errors"
	"github.com/matzehuels/asttree/pkg/palette"
)

// accumulator carries the mutable state of one Build traversal.
// Every write is keyed by node index and checked before it happens.
type accumulator struct {
	declared   int
	palette    palette.Palette
	edges      []Edge
	colors     map[int]string
	text       map[int]string
	categories map[int]string
	path       map[int]bool // indices on the current root-to-node path
}

// newAccumulator sizes its buffers by the nodes actually present, never by
// the declared count, which is untrusted input.
func newAccumulator(declared, present int, p palette.Palette) *accumulator {
	hint := min(declared, present)
	a := &accumulator{
		declared:   declared,
		palette:    p,
		edges:      make([]Edge, 0, hint),
		colors:     make(map[int]string, hint+1),
		text:       make(map[int]string, hint+1),
		categories: make(map[int]string, hint+1),
		path:       make(map[int]bool),
	}
	a.colors[RootIndex] = p.Root
	a.text[RootIndex] = RootLabel
	a.categories[RootIndex] = RootLabel
	return a
}

// visit records the edge parent → n and recurses into n's children in order.
func (a *accumulator) visit(parent int, n Node) error {
	if n.Index < 1 || n.Index > a.declared {
		return errors.SchemaError("node index %d out of range [1, %d]", n.Index, a.declared)
	}
	if a.path[n.Index] {
		return errors.LayoutError("cycle detected: node %d is a descendant of itself", n.Index)
	}
	if _, dup := a.colors[n.Index]; dup {
		return errors.SchemaError("duplicate node index %d", n.Index)
	}
	if err := errors.ValidateCategory(n.Category); err != nil {
		return fmt.Errorf("node %d: %w", n.Index, err)
	}

	a.edges = append(a.edges, Edge{Parent: parent, Child: n.Index})
	a.colors[n.Index] = a.palette.Color(n.Category)
	a.text[n.Index] = Label(n.Index, n.Category)
	a.categories[n.Index] = n.Category

	a.path[n.Index] = true
	for _, child := range n.Children {
		if err := a.visit(n.Index, child); err != nil {
			return err
		}
	}
	delete(a.path, n.Index)
	return nil
}

// countNodes returns the number of nodes in nodes and all their descendants.
func countNodes(nodes []Node) int {
	n := len(nodes)
	for _, child := range nodes {
		n += countNodes(child.Children)
	}
	return n
}

func (a *accumulator) tree() *Tree {
	return &Tree{
		declared:   a.declared,
		edges:      a.edges,
		colors:     a.colors,
		text:       a.text,
		categories: a.categories,
	}
}

// Build converts doc into a [Tree], coloring nodes through p.
//
// The synthetic root gets index 0, the palette's root tint and the label
// "root". Each document node contributes the edge (parent, index), the
// palette color of its category and the label "(index, category)".
//
// Build fails with a schema error when an index is outside [1, NodesCount],
// repeats, or when the number of distinct indices differs from NodesCount. It
// fails with a layout error when a child repeats an ancestor's index. No
// partial tree is returned.
func Build(doc Document, p palette.Palette) (*Tree, error) {
	if doc.NodesCount < 0 {
		return nil, errors.SchemaError("nodes_count must not be negative, got %d", doc.NodesCount)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	acc := newAccumulator(doc.NodesCount, countNodes(doc.Nodes), p)
	for _, n := range doc.Nodes {
		if err := acc.visit(RootIndex, n); err != nil {
			return nil, err
		}
	}

	if found := len(acc.edges); found != doc.NodesCount {
		return nil, errors.SchemaError("nodes_count is %d but document has %d distinct indices", doc.NodesCount, found)
	}
	return acc.tree(), nil
}
