package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/asttree/pkg/cache"
	"github.com/matzehuels/asttree/pkg/diagram"
	"github.com/matzehuels/asttree/pkg/observability"
	"github.com/matzehuels/asttree/pkg/render"
)

// RenderWithCacheInfo renders the requested formats and returns whether every
// artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout diagram.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := diagram.EncodeMsgpack(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, ok := r.cacheGet(ctx, kindArtifact, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := r.Render(ctx, layout, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		r.cacheSet(ctx, kindArtifact, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render produces every requested format from layout without caching.
func (r *Runner) Render(ctx context.Context, layout diagram.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(ctx, layout, opts)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, layout diagram.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		if opts.Engine == EngineGraphviz {
			out, err := render.RenderDOT(ctx, render.ToDOT(layout))
			if err != nil {
				return nil, err
			}
			svg = out
			return svg, nil
		}
		svg = render.RenderSVG(layout)
		return svg, nil
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = diagram.Marshal(layout)
		case FormatSVG:
			data, err = svgOnce()
		case FormatDOT:
			data = []byte(render.ToDOT(layout))
		case FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.Scale)
			}
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
