// Package pipeline runs the load → build → layout → render sequence for AST
// tree diagrams.
//
// The CLI and any other front end share this package so that defaults,
// validation and caching behave the same everywhere.
//
// # Stages
//
//  1. Load: read the input document from a file or fetch it from a URL
//  2. Layout: build the attributed tree, solve the tidy layout and export a
//     [diagram.Layout] for the requested orientation
//  3. Render: produce artifacts (json, svg, dot, png, pdf) from the layout
//
// Each stage can be run on its own. Layouts and artifacts are cached by the
// hash of their inputs, so rerunning an unchanged document is a cache hit.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "ast.json",
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// [diagram.Layout]: github.com/matzehuels/asttree/pkg/diagram.Layout
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asttree/pkg/ast"
	"github.com/matzehuels/asttree/pkg/cache"
	"github.com/matzehuels/asttree/pkg/diagram"
	"github.com/matzehuels/asttree/pkg/errors"
	"github.com/matzehuels/asttree/pkg/palette"
	"github.com/matzehuels/asttree/pkg/plot"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// FormatNames lists the output formats in display order.
var FormatNames = []string{FormatJSON, FormatSVG, FormatDOT, FormatPNG, FormatPDF}

// Render engines. The native engine draws SVG directly; the graphviz engine
// renders the pinned DOT graph through the embedded Graphviz.
const (
	EngineNative   = "native"
	EngineGraphviz = "graphviz"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Source is a file path or an http(s) URL.
	Source string `json:"source,omitempty"`
	// InputFormat overrides the format inferred from Source ("json", "yaml").
	InputFormat string `json:"input_format,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`

	Orientation string `json:"orientation,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	// Engine selects how SVG (and PNG/PDF derived from it) is drawn.
	Engine string `json:"engine,omitempty"`

	Palette palette.Palette `json:"-"`
	Logger  *log.Logger     `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and hooks.
	RunID string

	// Document is the decoded input.
	Document ast.Document
	// DocumentHash is the content hash used in cache keys.
	DocumentHash string

	Layout    diagram.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // remote document came from cache
	LayoutHit bool
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForLoad checks that a source is set.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	if o.InputFormat != "" {
		if _, err := ast.ParseFormat(o.InputFormat); err != nil {
			return err
		}
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	orientation, err := plot.ParseOrientation(o.Orientation)
	if err != nil {
		return err
	}
	o.Orientation = string(orientation)
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must not be negative")
	}
	if o.Palette.Root == "" && o.Palette.Line == "" && len(o.Palette.Categories) == 0 {
		o.Palette = palette.Default()
	}
	if err := o.Palette.Validate(); err != nil {
		return err
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	switch o.Engine {
	case "":
		o.Engine = EngineNative
	case EngineNative, EngineGraphviz:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid engine: %q (must be %s or %s)", o.Engine, EngineNative, EngineGraphviz)
	}
	o.setLoggerDefault()
	return nil
}

// ValidateAndSetDefaults runs every stage's validation.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// IsRemote reports whether Source is a URL.
func (o *Options) IsRemote() bool {
	return strings.HasPrefix(o.Source, "http://") || strings.HasPrefix(o.Source, "https://")
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() (cache.LayoutKeyOpts, error) {
	paletteHash, err := cache.HashValue(o.Palette)
	if err != nil {
		return cache.LayoutKeyOpts{}, fmt.Errorf("hash palette: %w", err)
	}
	return cache.LayoutKeyOpts{
		Orientation: o.Orientation,
		Width:       o.Width,
		Height:      o.Height,
		PaletteHash: paletteHash,
	}, nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		if o.Engine != EngineNative {
			opts.Engine = o.Engine
		}
	}
	return opts
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
