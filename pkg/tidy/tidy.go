package tidy

import (
	"slices"

	"github.com/matzehuels/asttree/pkg/ast"
)

// Tree is the input consumed by [Solve]. Node 0 is the root; node indices
// are [0, NodeCount()). Children are ordered by their position in Edges.
//
// [*ast.Tree] satisfies Tree.
type Tree interface {
	NodeCount() int
	Edges() []ast.Edge
}

// Position is the abstract layout coordinate of one node.
type Position struct {
	Depth int     `json:"depth" msgpack:"depth"`
	Order float64 `json:"order" msgpack:"order"`
}

// Positions holds one [Position] per node, indexed by node index.
type Positions []Position

// MaxDepth returns the greatest depth in p, or -1 if p is empty.
func (p Positions) MaxDepth() int {
	maxDepth := -1
	for _, pos := range p {
		maxDepth = max(maxDepth, pos.Depth)
	}
	return maxDepth
}

// OrderRange returns the smallest and largest order values in p.
// Both are 0 when p is empty.
func (p Positions) OrderRange() (lo, hi float64) {
	for i, pos := range p {
		if i == 0 || pos.Order < lo {
			lo = pos.Order
		}
		if i == 0 || pos.Order > hi {
			hi = pos.Order
		}
	}
	return lo, hi
}

// Clone returns an independent copy of p.
func (p Positions) Clone() Positions { return slices.Clone(p) }

// Solve lays out t as a tidy tree.
//
// The root is placed at depth 0, order 0. Orders of other nodes may be
// negative. Solve returns a layout error, and no positions, when the edges of
// t do not form a rooted tree with root 0.
//
// Time and memory are O(n) in the number of nodes.
func Solve(t Tree) (Positions, error) {
	children, err := validate(t.NodeCount(), t.Edges())
	if err != nil {
		return nil, err
	}
	rel := packSubtrees(children)
	return place(children, rel), nil
}

// packSubtrees runs the bottom-up pass and returns, for every node, its order
// relative to its parent. The root's entry is 0.
func packSubtrees(children [][]int) []float64 {
	n := len(children)
	rel := make([]float64, n)
	contours := make([]*contour, n)

	for _, v := range postOrder(children) {
		kids := children[v]
		if len(kids) == 0 {
			contours[v] = leafContour()
			continue
		}

		// Offsets are relative to the first child while siblings are packed.
		group := contours[kids[0]]
		contours[kids[0]] = nil
		offsets := make([]float64, len(kids))
		for i := 1; i < len(kids); i++ {
			next := contours[kids[i]]
			contours[kids[i]] = nil
			offsets[i] = group.separation(next)
			group = group.merge(next, offsets[i])
		}

		var sum float64
		for _, off := range offsets {
			sum += off
		}
		center := sum / float64(len(kids))
		for i, c := range kids {
			rel[c] = offsets[i] - center
		}
		contours[v] = group.lift(center)
	}
	return rel
}

// place runs the top-down pass, accumulating relative orders from the root.
func place(children [][]int, rel []float64) Positions {
	pos := make(Positions, len(children))
	stack := []int{ast.RootIndex}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range children[v] {
			pos[c] = Position{Depth: pos[v].Depth + 1, Order: pos[v].Order + rel[c]}
			stack = append(stack, c)
		}
	}
	return pos
}

// postOrder lists nodes so that every child precedes its parent.
func postOrder(children [][]int) []int {
	order := make([]int, 0, len(children))
	stack := []int{ast.RootIndex}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, v)
		stack = append(stack, children[v]...)
	}
	// Reversed pre-order with children pushed in order is a valid post-order.
	slices.Reverse(order)
	return order
}
