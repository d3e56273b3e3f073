package ast

import (
	"fmt"
	"slices"
)

// RootIndex is the index of the synthetic root node.
const RootIndex = 0

// RootLabel is the display text of the synthetic root node.
const RootLabel = "root"

// Edge is a directed parent → child link between two node indices.
type Edge struct {
	Parent int `json:"parent" msgpack:"parent"`
	Child  int `json:"child" msgpack:"child"`
}

// String returns the edge as "(parent,child)".
func (e Edge) String() string { return fmt.Sprintf("(%d,%d)", e.Parent, e.Child) }

// Tree is the immutable result of [Build].
//
// Nodes are addressed by index in [0, NodeCount()). Index 0 is the synthetic
// root. Every index has a color and a label.
type Tree struct {
	declared   int
	edges      []Edge
	colors     map[int]string
	text       map[int]string
	categories map[int]string
}

// NodeCount returns the number of nodes including the synthetic root.
func (t *Tree) NodeCount() int { return t.declared + 1 }

// EdgeCount returns the number of edges, which equals NodeCount()-1.
func (t *Tree) EdgeCount() int { return len(t.edges) }

// Edges returns a copy of the edge list in depth-first pre-order.
func (t *Tree) Edges() []Edge { return slices.Clone(t.edges) }

// Color returns the color of node i.
func (t *Tree) Color(i int) (string, bool) {
	c, ok := t.colors[i]
	return c, ok
}

// Text returns the label of node i.
func (t *Tree) Text(i int) (string, bool) {
	s, ok := t.text[i]
	return s, ok
}

// Category returns the category tag of node i. The root reports [RootLabel].
func (t *Tree) Category(i int) string { return t.categories[i] }

// Colors returns node colors as a slice indexed by node index.
func (t *Tree) Colors() []string { return t.dense(t.colors) }

// Texts returns node labels as a slice indexed by node index.
func (t *Tree) Texts() []string { return t.dense(t.text) }

func (t *Tree) dense(m map[int]string) []string {
	out := make([]string, t.NodeCount())
	for i := range out {
		out[i] = m[i]
	}
	return out
}

// Label formats the display text of a non-root node, e.g. "(2, variable)".
func Label(index int, category string) string {
	return fmt.Sprintf("(%d, %s)", index, category)
}
