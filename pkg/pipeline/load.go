package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/matzehuels/asttree/pkg/ast"
	"github.com/matzehuels/asttree/pkg/cache"
	"github.com/matzehuels/asttree/pkg/errors"
)

// fetchAttempts bounds retries of transient network failures.
const fetchAttempts = 3

// LoadWithCacheInfo reads the input document and returns cache hit info.
// Local files are always read fresh; remote documents are cached.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (ast.Document, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return ast.Document{}, false, err
	}
	if !opts.IsRemote() {
		doc, err := readLocal(opts)
		return doc, false, err
	}

	cacheKey := r.Keyer.HTTPKey("document", opts.Source)
	if !opts.Refresh {
		if data, ok := r.cacheGet(ctx, kindDocument, cacheKey); ok {
			if doc, err := ast.Decode(bytes.NewReader(data), ast.FormatJSON); err == nil {
				return doc, true, nil
			}
		}
	}

	var doc ast.Document
	err := cache.RetryWithBackoff(ctx, fetchAttempts, func() error {
		var ferr error
		doc, ferr = ast.Fetch(ctx, opts.Source)
		if errors.Is(ferr, errors.ErrCodeNetwork) {
			return cache.Retryable(ferr)
		}
		return ferr
	})
	if err != nil {
		return ast.Document{}, false, err
	}

	if data, err := ast.Marshal(doc); err == nil {
		r.cacheSet(ctx, kindDocument, cacheKey, data, cache.TTLHTTP)
	}
	return doc, false, nil
}

// Load is a convenience wrapper that discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (ast.Document, error) {
	doc, _, err := r.LoadWithCacheInfo(ctx, opts)
	return doc, err
}

func readLocal(opts Options) (ast.Document, error) {
	if opts.InputFormat == "" {
		return ast.ReadFile(opts.Source)
	}
	format, err := ast.ParseFormat(opts.InputFormat)
	if err != nil {
		return ast.Document{}, err
	}
	f, err := os.Open(opts.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return ast.Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s", opts.Source)
		}
		return ast.Document{}, fmt.Errorf("open %s: %w", opts.Source, err)
	}
	defer f.Close()
	return ast.Decode(f, format)
}
