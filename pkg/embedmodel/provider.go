// Package embedmodel loads named embedding models and turns UTF-8 text into
// fixed-dimension unit vectors.
package embedmodel

import (
	"context"

	"github.com/todozi/todozi/pkg/errs"
)

// Result is one embedding plus the usage it cost to produce.
type Result struct {
	Vector      []float64
	InputTokens int64
	TotalTokens int64
}

// BatchResult is the batched form of Result.
type BatchResult struct {
	Vectors     [][]float64
	InputTokens int64
	TotalTokens int64
}

// Provider loads a named model and encodes text into fixed-dimension unit
// vectors. Concrete providers may talk to a remote inference endpoint or
// compute deterministically in-process; callers never need to know which.
type Provider interface {
	// ID identifies the provider and model, e.g. "openai/text-embedding-3-small".
	ID() string
	// Dimensions is the fixed output vector length for this model.
	Dimensions() int
	// Embed encodes a single text. Empty or whitespace-only text is a
	// ModelError.
	Embed(ctx context.Context, text string) (Result, error)
	// EmbedBatch encodes many texts in one call where the underlying
	// transport supports it.
	EmbedBatch(ctx context.Context, texts []string) (BatchResult, error)
}

func errEmptyInput() error {
	return errs.Model("cannot embed empty or whitespace-only text")
}
