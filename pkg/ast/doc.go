// Package ast turns a nested AST description into an immutable, index-addressed tree.
//
// # Input
//
// The input document nests nodes under a synthetic root that is not part of the
// document itself:
//
//	{
//	  "nodes_count": 3,
//	  "nodes": [
//	    {"index": 1, "category": "function", "children": [{"index": 2, "category": "variable"}]},
//	    {"index": 3, "category": "require"}
//	  ]
//	}
//
// Indices must cover [1, nodes_count] exactly once. The legacy keys
// "master_index" and "container" are accepted in place of "index" and
// "category". Documents decode from JSON or YAML (see [Decode], [ReadFile],
// [Fetch]).
//
// # Building
//
// [Build] walks the document depth-first in pre-order, injecting the root at
// index 0, and produces a [Tree]: one [Edge] per non-root node plus a color and
// a label for every index. Child order is preserved in the edge list and is
// what the layout solver uses for left-to-right ordering.
//
// Build is all-or-nothing. Malformed documents fail with a schema error
// (errors.IsSchemaError); a child that repeats one of its ancestors' indices
// fails with a layout error (errors.IsLayoutError) because it would close a cycle.
//
// # Concurrency
//
// A Tree is immutable after Build returns and safe for concurrent reads.
package ast
