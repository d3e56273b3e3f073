package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asttree/pkg/diagram"
	"github.com/matzehuels/asttree/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering a layout file.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		rf      renderFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render diagram files from a computed layout",
		Long: `Render diagram files from a computed layout.

The visualize command takes a layout.json file (produced by 'layout' or
'render -f json') and renders it. The layout carries every position and
color, so this step is purely about drawing.

Use 'render' as a shortcut to go directly from an AST document to output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(cmd.Context(), args[0], rf, noCache)
		},
	}

	rf.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, rf renderFlags, noCache bool) error {
	layout, err := diagram.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := cfg.Options(input)
	if err := rf.apply(&opts); err != nil {
		return err
	}
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	prog.done("Rendered " + input)

	paths := outputPaths(rf.output, input, opts.Formats)
	if err := writeArtifacts(artifacts, paths); err != nil {
		return err
	}

	ui := c.ui()
	ui.success("Visualization complete")
	for _, f := range pipeline.FormatNames {
		if p, ok := paths[f]; ok {
			ui.file(p)
		}
	}
	ui.stats(len(layout.Nodes), len(layout.Edges), cacheHit)
	return nil
}
