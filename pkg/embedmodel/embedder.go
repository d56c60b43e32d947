package embedmodel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Embedder wraps a Provider with batching and usage accounting, the way
// the teacher's rag/embed.Embedder wraps a model provider: batch size and
// concurrency are configurable, and token usage from every call (single or
// batched) is accumulated and reported by Usage.
type Embedder struct {
	provider       Provider
	batchSize      int
	maxConcurrency int

	mu    sync.Mutex
	usage UsageStats
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithBatchSize sets how many texts are sent to the provider per call.
func WithBatchSize(n int) Option {
	return func(e *Embedder) { e.batchSize = n }
}

// WithMaxConcurrency bounds how many in-flight batch calls run at once.
func WithMaxConcurrency(n int) Option {
	return func(e *Embedder) { e.maxConcurrency = n }
}

// NewEmbedder wraps provider with the given options. Defaults: batch size
// 50, max concurrency 5 — identical to the teacher's embed.Embedder.
func NewEmbedder(provider Provider, opts ...Option) *Embedder {
	e := &Embedder{provider: provider, batchSize: 50, maxConcurrency: 5}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UsageStats is cumulative token accounting across every Embed/EmbedBatch
// call this Embedder has made.
type UsageStats struct {
	InputTokens int64
	TotalTokens int64
	Calls       int64
}

// ID returns the underlying provider's identifier.
func (e *Embedder) ID() string { return e.provider.ID() }

// Dimensions returns the underlying provider's output dimensionality.
func (e *Embedder) Dimensions() int { return e.provider.Dimensions() }

// Usage returns a snapshot of cumulative usage.
func (e *Embedder) Usage() UsageStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.usage
}

func (e *Embedder) recordUsage(inputTokens, totalTokens int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.usage.InputTokens += inputTokens
	e.usage.TotalTokens += totalTokens
	e.usage.Calls++
}

// Embed encodes a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	r, err := e.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.recordUsage(r.InputTokens, r.TotalTokens)
	return r.Vector, nil
}

// EmbedBatch encodes texts in chunks of e.batchSize, up to e.maxConcurrency
// batches in flight at once, preserving input order in the result —
// directly grounded on the teacher's embedBatchOptimized.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	total := len(texts)
	vectors := make([][]float64, total)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)

	for start := 0; start < total; start += e.batchSize {
		end := min(start+e.batchSize, total)
		g.Go(func() error {
			batch := texts[start:end]
			result, err := e.provider.EmbedBatch(gctx, batch)
			if err != nil {
				return fmt.Errorf("batch [%d:%d] failed: %w", start, end, err)
			}

			mu.Lock()
			copy(vectors[start:end], result.Vectors)
			mu.Unlock()

			e.recordUsage(result.InputTokens, result.TotalTokens)

			slog.Debug("embedmodel: batch embedded", "start", start, "end", end, "provider", e.provider.ID())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
