package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/asttree/pkg/ast"
	"github.com/matzehuels/asttree/pkg/cache"
	"github.com/matzehuels/asttree/pkg/diagram"
	"github.com/matzehuels/asttree/pkg/observability"
	"github.com/matzehuels/asttree/pkg/plot"
)

// Key kinds reported to the cache hooks.
const (
	kindDocument = "document"
	kindLayout   = "layout"
	kindArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner keeps no per-run state; several goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete load → layout → render pipeline with caching.
// Options.Logger, when set, replaces the runner's logger for this run.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	base := opts.Logger
	if base == nil {
		base = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := base.With("run", result.RunID[:8])

	loadStart := time.Now()
	doc, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Document = doc
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.LoadHit = loadHit
	logger.Debug("loaded document", "source", opts.Source, "nodes", doc.NodesCount, "cached", loadHit)

	layoutStart := time.Now()
	layout, layoutHit, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.DocumentHash, _ = documentHash(doc)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(layout.Nodes)
	result.Stats.EdgeCount = len(layout.Edges)
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"orientation", layout.Orientation,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build validates doc and builds its attributed tree.
func (r *Runner) Build(ctx context.Context, doc ast.Document, opts Options) (*ast.Tree, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, doc.NodesCount)
	start := time.Now()

	tree, err := ast.Build(doc, opts.Palette)

	nodes := 0
	if tree != nil {
		nodes = tree.NodeCount()
	}
	hooks.OnBuildComplete(ctx, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// LayoutWithCacheInfo builds and lays out doc and returns cache hit info.
// Cached layouts are stored as MessagePack.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, doc ast.Document, opts Options) (diagram.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return diagram.Layout{}, false, err
	}

	cacheKey, err := r.layoutKey(doc, opts)
	if err != nil {
		return diagram.Layout{}, false, err
	}

	if !opts.Refresh {
		if data, ok := r.cacheGet(ctx, kindLayout, cacheKey); ok {
			if cached, err := diagram.DecodeMsgpack(data); err == nil {
				return cached, true, nil
			}
			// Undecodable or invalid entries are recomputed and overwritten.
		}
	}

	tree, err := r.Build(ctx, doc, opts)
	if err != nil {
		return diagram.Layout{}, false, err
	}
	layout, err := r.Layout(ctx, tree, opts)
	if err != nil {
		return diagram.Layout{}, false, err
	}

	if data, err := diagram.EncodeMsgpack(layout); err == nil {
		r.cacheSet(ctx, kindLayout, cacheKey, data, cache.TTLLayout)
	}
	return layout, false, nil
}

// Layout solves and exports an already built tree without caching.
func (r *Runner) Layout(ctx context.Context, tree *ast.Tree, opts Options) (diagram.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return diagram.Layout{}, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Orientation, tree.NodeCount())
	start := time.Now()

	layout, err := diagram.New(tree, opts.Palette).Export(plot.Orientation(opts.Orientation), diagram.ExportOptions{
		Width:  opts.Width,
		Height: opts.Height,
	})

	hooks.OnLayoutComplete(ctx, opts.Orientation, time.Since(start), err)
	if err != nil {
		return diagram.Layout{}, err
	}
	return layout, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) layoutKey(doc ast.Document, opts Options) (string, error) {
	hash, err := documentHash(doc)
	if err != nil {
		return "", err
	}
	keyOpts, err := opts.LayoutKeyOpts()
	if err != nil {
		return "", err
	}
	return r.Keyer.LayoutKey(hash, keyOpts), nil
}

// cacheGet reads key and reports the outcome to the cache hooks under kind.
func (r *Runner) cacheGet(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, kind)
	} else {
		observability.Cache().OnCacheMiss(ctx, kind)
	}
	return data, hit
}

func (r *Runner) cacheSet(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

func documentHash(doc ast.Document) (string, error) {
	data, err := ast.Marshal(doc)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
