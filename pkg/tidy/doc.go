// Package tidy computes tidy-tree layouts for rooted trees.
//
// # Overview
//
// [Solve] assigns every node an abstract coordinate pair: an integer depth
// (distance from the root) and a real-valued order along the sibling axis.
// The result satisfies the classic tidy-drawing rules:
//
//   - The root is at depth 0 and every child is one level below its parent
//   - Siblings appear in edge order with strictly increasing order values
//   - A parent is centered at the arithmetic mean of its children
//   - Two distinct nodes at the same depth are at least 1 apart, even when
//     they belong to unrelated subtrees
//
// # Algorithm
//
// Layout is a two-pass Reingold-Tilford variant. The bottom-up pass builds a
// contour (leftmost and rightmost order per depth) for every subtree and
// packs sibling subtrees left to right, shifting each one by the smallest
// amount that clears the accumulated contour of its left siblings at every
// shared depth. Contours are merged in time proportional to the shorter of the
// two, so the whole pass is linear in the number of nodes even for deep,
// unbalanced trees. The top-down pass turns parent-relative offsets into
// absolute orders.
//
// Both passes are iterative, so recursion depth does not limit tree height.
//
// # Validation
//
// Before any coordinates are computed, the edge set is checked to be a rooted
// tree on [0, NodeCount()) with root 0. Violations (out-of-range endpoints, a
// node with two parents, a parent for the root, nodes unreachable from the
// root) are reported as layout errors from [github.com/matzehuels/asttree/pkg/errors].
//
// # Concurrency
//
// Solve keeps no package state. Independent trees can be laid out
// concurrently.
package tidy
