package ast

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/matzehuels/asttree/pkg/errors"
	"github.com/matzehuels/asttree/pkg/observability"
)

// maxDocumentBytes caps remote documents.
const maxDocumentBytes = 64 << 20

// fetchTimeout bounds a single remote fetch.
const fetchTimeout = 30 * time.Second

var httpClient = &http.Client{Timeout: fetchTimeout}

// ReadFile reads a document from path, choosing the format from its extension.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s", path)
		}
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

// Fetch downloads and decodes a document from an http(s) URL.
// The format is inferred from the URL path extension.
func Fetch(ctx context.Context, rawURL string) (Document, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return Document{}, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := httpClient.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return Document{}, ctx.Err()
		}
		return Document{}, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Document{}, errors.New(errors.ErrCodeNotFound, "document not found: %s", rawURL)
	case resp.StatusCode >= 400:
		return Document{}, errors.New(errors.ErrCodeNetwork, "fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	return Decode(io.LimitReader(resp.Body, maxDocumentBytes), FormatFromPath(u.Path))
}
