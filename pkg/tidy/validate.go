package tidy

import (
	"github.com/matzehuels/asttree/pkg/ast"
	"github.com/matzehuels/asttree/pkg/errors"
)

// validate checks that edges form a tree on [0, n) rooted at 0 and returns the
// ordered child lists.
func validate(n int, edges []ast.Edge) ([][]int, error) {
	if n < 1 {
		return nil, errors.LayoutError("tree has no nodes")
	}

	hasParent := make([]bool, n)
	children := make([][]int, n)
	for _, e := range edges {
		if e.Parent < 0 || e.Parent >= n || e.Child < 0 || e.Child >= n {
			return nil, errors.LayoutError("edge %s references a node outside [0, %d)", e, n)
		}
		if e.Child == ast.RootIndex {
			return nil, errors.LayoutError("edge %s points at the root: cycle detected", e)
		}
		if hasParent[e.Child] {
			return nil, errors.LayoutError("node %d has more than one parent", e.Child)
		}
		hasParent[e.Child] = true
		children[e.Parent] = append(children[e.Parent], e.Child)
	}

	for i := 1; i < n; i++ {
		if !hasParent[i] {
			return nil, errors.LayoutError("node %d has no parent: multiple roots", i)
		}
	}

	visited := make([]bool, n)
	visited[ast.RootIndex] = true
	seen := 1
	stack := []int{ast.RootIndex}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range children[v] {
			if visited[c] {
				return nil, errors.LayoutError("node %d visited twice: cycle detected", c)
			}
			visited[c] = true
			seen++
			stack = append(stack, c)
		}
	}
	if seen != n {
		for i, ok := range visited {
			if !ok {
				return nil, errors.LayoutError("node %d is unreachable from the root: cycle detected", i)
			}
		}
	}
	return children, nil
}
