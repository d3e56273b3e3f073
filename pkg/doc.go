// Package pkg provides the libraries behind asttree, which draws abstract
// syntax trees as tidy tree diagrams.
//
// # Overview
//
// The pkg directory is organized by pipeline stage:
//
//  1. [ast] - input documents and the attribute builder
//  2. [tidy] - the tidy tree layout solver
//  3. [plot] - orientation-aware coordinate transform
//  4. [diagram] - per-tree layout cache and the exported [diagram.Layout]
//  5. [render] - SVG, DOT, PNG and PDF output
//  6. [pipeline] - orchestration (load → layout → render) with caching
//
// Supporting packages are [palette] (category colors), [cache] (file,
// memory and Redis backends), [errors] (coded errors), [observability]
// (hooks) and [buildinfo].
//
// # Architecture
//
//	AST document (JSON/YAML, file or URL)
//	         ↓
//	    [ast] package (edges, colors, hover text)
//	         ↓
//	    [tidy] package (depth + order per node)
//	         ↓
//	    [plot] package (x/y per orientation)
//	         ↓
//	    [diagram] package (nodes, edges, figure size)
//	         ↓
//	    [render] package (SVG/DOT/PNG/PDF)
//
// # Quick Start
//
//	doc, _ := ast.ReadFile("ast.json")
//	tree, _ := ast.Build(doc, palette.Default())
//	layout, _ := diagram.New(tree, palette.Default()).Export(plot.Vertical, diagram.ExportOptions{})
//	svg := render.RenderSVG(layout)
//
// Or let the pipeline do it, with caching:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{Source: "ast.json"})
//
// [ast]: github.com/matzehuels/asttree/pkg/ast
// [tidy]: github.com/matzehuels/asttree/pkg/tidy
// [plot]: github.com/matzehuels/asttree/pkg/plot
// [diagram]: github.com/matzehuels/asttree/pkg/diagram
// [diagram.Layout]: github.com/matzehuels/asttree/pkg/diagram.Layout
// [render]: github.com/matzehuels/asttree/pkg/render
// [pipeline]: github.com/matzehuels/asttree/pkg/pipeline
// [palette]: github.com/matzehuels/asttree/pkg/palette
// [cache]: github.com/matzehuels/asttree/pkg/cache
// [errors]: github.com/matzehuels/asttree/pkg/errors
// [observability]: github.com/matzehuels/asttree/pkg/observability
// [buildinfo]: github.com/matzehuels/asttree/pkg/buildinfo
package pkg
