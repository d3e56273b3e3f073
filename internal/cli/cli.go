// Package cli implements the asttree command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/asttree/internal/config"
	"github.com/matzehuels/asttree/pkg/buildinfo"
	"github.com/matzehuels/asttree/pkg/palette"
	"github.com/matzehuels/asttree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "asttree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// out receives status output; stderr carries logs.
	out        io.Writer
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects status output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "asttree draws abstract syntax trees as tidy tree diagrams",
		Long:         `asttree is a CLI tool that lays out abstract syntax trees with a tidy tree algorithm and renders them as SVG, DOT, PNG or PDF diagrams.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				registerDebugHooks(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+config.ProjectFile+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the root command with ctx.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads configuration, using --config in place of the project file.
func (c *CLI) loadConfig() (config.Config, error) {
	project := config.ProjectFile
	if c.configPath != "" {
		if _, err := os.Stat(c.configPath); err != nil {
			return config.Config{}, fmt.Errorf("config %s: %w", c.configPath, err)
		}
		project = c.configPath
	}
	cfg, err := config.LoadFrom(config.GlobalPath(), project, config.EnvFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	c.Logger.Debug("config loaded", "backend", cfg.Cache.Backend, "orientation", cfg.Render.Orientation)
	return cfg, nil
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	store, keyer, err := cfg.Cache.OpenCache(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// =============================================================================
// Shared Flags
// =============================================================================

// layoutFlags are the options shared by commands that compute a layout.
type layoutFlags struct {
	orientation string
	width       int
	height      int
	inputFormat string
	paletteFile string
	refresh     bool
	noCache     bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.orientation, "orientation", "", "tree orientation: vertical (default), horizontal")
	cmd.Flags().IntVar(&f.width, "width", 0, "figure width in pixels (default: 700)")
	cmd.Flags().IntVar(&f.height, "height", 0, "figure height in pixels (default: 650 vertical, 450 horizontal)")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "input format: json, yaml (default: from extension)")
	cmd.Flags().StringVar(&f.paletteFile, "palette", "", "TOML palette file")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// apply overlays explicitly set flags on opts.
func (f *layoutFlags) apply(opts *pipeline.Options) error {
	if f.orientation != "" {
		opts.Orientation = f.orientation
	}
	if f.width != 0 {
		opts.Width = f.width
	}
	if f.height != 0 {
		opts.Height = f.height
	}
	if f.paletteFile != "" {
		p, err := palette.LoadFile(f.paletteFile)
		if err != nil {
			return err
		}
		opts.Palette = p
	}
	opts.InputFormat = f.inputFormat
	opts.Refresh = f.refresh
	return nil
}

// renderFlags are the options shared by commands that write artifacts.
type renderFlags struct {
	output  string
	formats string
	scale   float64
	engine  string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), json, dot, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "PNG resolution multiplier (default: 2)")
	cmd.Flags().StringVar(&f.engine, "engine", "", "SVG engine: native (default), graphviz")
}

func (f *renderFlags) apply(opts *pipeline.Options) error {
	if f.formats != "" {
		opts.Formats = config.SplitList(f.formats)
	}
	if f.scale != 0 {
		opts.Scale = f.scale
	}
	if f.engine != "" {
		opts.Engine = f.engine
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}
	return pipeline.ValidateFormats(opts.Formats)
}

// =============================================================================
// Output Paths
// =============================================================================

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".layout")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its destination. A single format with an
// explicit output path writes exactly there.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// sourceName returns a local-path-like name for URL sources.
func sourceName(source string) string {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return filepath.Base(source)
	}
	return source
}
