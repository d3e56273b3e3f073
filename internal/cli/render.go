package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/asttree/pkg/pipeline"
)

// renderCommand creates the render command, which runs the whole pipeline
// from an AST document to the requested output files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		lf layoutFlags
		rf renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [ast.json]",
		Short: "Render an AST document to diagram files",
		Long: `Render an AST document to diagram files.

The render command is a shortcut for 'layout' followed by 'visualize'. It
writes one file per requested format next to the input, or under the base
path given with -o.

PNG and PDF output require rsvg-convert on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], lf, rf)
		},
	}

	rf.register(cmd)
	lf.register(cmd)

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, lf layoutFlags, rf renderFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := cfg.Options(input)
	if err := lf.apply(&opts); err != nil {
		return err
	}
	if err := rf.apply(&opts); err != nil {
		return err
	}
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, cfg, lf.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := c.startSpinner(ctx, "Rendering "+input+"...")
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		c.ui().failure("Render failed")
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(rf.output, sourceName(input), opts.Formats)
	if err := writeArtifacts(result.Artifacts, paths); err != nil {
		return err
	}

	ui := c.ui()
	ui.success("Rendered %d file(s)", len(paths))
	for _, f := range pipeline.FormatNames {
		if p, ok := paths[f]; ok {
			ui.file(p)
		}
	}
	ui.stats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// startSpinner shows a spinner on stderr unless debug logs would interleave
// with it.
func (c *CLI) startSpinner(ctx context.Context, message string) *Spinner {
	s := newSpinner(ctx, os.Stderr, message)
	if !c.verbose {
		s.Start()
	}
	return s
}

// writeArtifacts writes each artifact to its mapped path.
func writeArtifacts(artifacts map[string][]byte, paths map[string]string) error {
	for format, path := range paths {
		data, ok := artifacts[format]
		if !ok {
			return fmt.Errorf("no %s output produced", format)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
