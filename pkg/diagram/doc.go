// Package diagram assembles a built AST tree, its tidy layout and its plot
// coordinates into a backend-agnostic [Layout].
//
// # Overview
//
// A [Diagram] wraps one immutable [ast.Tree]. Positions are solved on first
// use and coordinates are cached per orientation, so asking for both
// orientations solves the tree once:
//
//	d := diagram.New(tree, palette.Default())
//	v, _ := d.Export(plot.Vertical, diagram.ExportOptions{})
//	h, _ := d.Export(plot.Horizontal, diagram.ExportOptions{})
//
// Values returned by a Diagram are copies; changing them does not affect
// later calls.
//
// # Serialization
//
// [Layout] is the hand-off format for renderers. It serializes to indented
// JSON ([Marshal], [WriteFile]) for files and tools, and to MessagePack
// ([EncodeMsgpack]) for caches.
//
// # Concurrency
//
// A Diagram is safe for concurrent use.
//
// [ast.Tree]: github.com/matzehuels/asttree/pkg/ast.Tree
package diagram
