package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asttree/pkg/diagram"
)

// layoutCommand creates the layout command for computing a tree layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [ast.json]",
		Short: "Compute the diagram layout of an AST document",
		Long: `Compute the diagram layout of an AST document.

The layout command reads an AST document (JSON or YAML, local path or http(s)
URL), builds the attributed tree, solves the tidy tree layout and writes a
layout.json file (same format as 'render -f json'). The layout can be turned
into SVG/DOT/PNG/PDF with the 'visualize' command.

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the document, computes the layout and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, input, output string, flags layoutFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := cfg.Options(input)
	if err := flags.apply(&opts); err != nil {
		return err
	}
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	doc, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done("Layout computed")

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", sourceName(input)) + ".layout.json"
	}
	if err := diagram.WriteFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	ui := c.ui()
	ui.success("Layout complete")
	ui.file(outputPath)
	ui.stats(len(layout.Nodes), len(layout.Edges), cacheHit)
	ui.newline()
	ui.nextStep("Render", strings.Join([]string{appName, "visualize", outputPath}, " "))

	return nil
}
