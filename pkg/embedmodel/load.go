package embedmodel

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/todozi/todozi/pkg/errs"
)

// knownDimensions lists the default output dimension for well-known remote
// models, so callers don't have to specify Dimensions explicitly for them.
var knownDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// LoadOptions configures Load. Dimensions is required for any model not in
// knownDimensions. BaseURL/APIKey address a remote OpenAI-compatible
// endpoint; a name prefixed with "local/" selects the deterministic offline
// provider instead, whatever BaseURL/APIKey hold.
type LoadOptions struct {
	CacheDir   string
	BaseURL    string
	APIKey     string
	Dimensions int
}

// Load resolves model_name to a Provider, caching the resolution (provider
// kind, base URL, dimension) on disk under opts.CacheDir so a later process
// can recall the binding. This is the concrete form of spec.md §4.C's
// "load(model_name, device) downloads or retrieves model weights ... from a
// remote model repository, caching on disk": the "weights" here are the
// remote endpoint + dimension binding, not in-process transformer tensors.
func Load(_ context.Context, name string, opts LoadOptions) (Provider, error) {
	if strings.HasPrefix(name, "local/") {
		dims := opts.Dimensions
		if dims == 0 {
			dims = 384
		}
		p := NewLocalProvider(strings.TrimPrefix(name, "local/"), dims)
		if opts.CacheDir != "" {
			_ = writeManifest(opts.CacheDir, manifest{
				Model: name, Provider: "local", Dimensions: dims, CachedAt: time.Now(),
			})
		}
		return p, nil
	}

	dims := opts.Dimensions
	if dims == 0 {
		dims = knownDimensions[name]
	}
	if dims == 0 {
		return nil, errs.Model("unsupported embedding model %q: dimensions not known, pass LoadOptions.Dimensions", name)
	}

	p := NewHTTPProvider(name, opts.BaseURL, opts.APIKey, dims)
	if opts.CacheDir != "" {
		if err := writeManifest(opts.CacheDir, manifest{
			Model: name, Provider: "http", BaseURL: opts.BaseURL, Dimensions: dims, CachedAt: time.Now(),
		}); err != nil {
			slog.Warn("embedmodel: failed to cache model manifest", "model", name, "error", err)
		}
	}
	return p, nil
}
