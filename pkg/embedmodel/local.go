package embedmodel

import (
	"context"
	"crypto/sha256"
	"math"
	"strings"

	"github.com/todozi/todozi/pkg/errs"
)

// LocalProvider is a deterministic, network-free provider: it derives a
// fixed-dimension unit vector from a repeated SHA-256 hash of the input
// text. It satisfies the determinism and normalization invariants of
// spec.md §4.C without requiring a real transformer or network access,
// and is the default provider used in tests and offline development.
type LocalProvider struct {
	name string
	dims int
}

var _ Provider = (*LocalProvider)(nil)

// NewLocalProvider returns a LocalProvider producing vectors of the given
// dimension, named for display purposes only.
func NewLocalProvider(name string, dimensions int) *LocalProvider {
	return &LocalProvider{name: name, dims: dimensions}
}

func (p *LocalProvider) ID() string      { return "local/" + p.name }
func (p *LocalProvider) Dimensions() int { return p.dims }

func (p *LocalProvider) Embed(_ context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, errEmptyInput()
	}
	return Result{
		Vector:      hashVector(text, p.dims),
		InputTokens: estimateTokens(text),
		TotalTokens: estimateTokens(text),
	}, nil
}

func (p *LocalProvider) EmbedBatch(ctx context.Context, texts []string) (BatchResult, error) {
	vectors := make([][]float64, len(texts))
	var inTok, totTok int64
	for i, t := range texts {
		r, err := p.Embed(ctx, t)
		if err != nil {
			return BatchResult{}, errs.ModelWrap(err, "local provider: text %d", i)
		}
		vectors[i] = r.Vector
		inTok += r.InputTokens
		totTok += r.TotalTokens
	}
	return BatchResult{Vectors: vectors, InputTokens: inTok, TotalTokens: totTok}, nil
}

// hashVector expands repeated SHA-256 digests of text into dims float64
// components (each digest byte mapped linearly into [-1,1]), then L2-normalizes the result so it is a unit vector — mirroring
// the mean-pool-then-normalize contract of spec.md §4.C without needing an
// actual tokenizer or transformer.
func hashVector(text string, dims int) []float64 {
	out := make([]float64, dims)
	block := 0
	var digest [32]byte
	for i := 0; i < dims; i++ {
		byteIdx := i % 32
		if byteIdx == 0 {
			h := sha256.Sum256([]byte(text + ":" + itoa(block)))
			digest = h
			block++
		}
		out[i] = componentFromByte(digest[byteIdx])
	}
	return normalize(out)
}

func componentFromByte(b byte) float64 {
	return (float64(b)/255.0)*2 - 1
}

func normalize(v []float64) []float64 {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return v
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// estimateTokens is a whitespace word count used when no real tokenizer
// is available, matching the teacher's own usage-accounting approximation
// in spirit (it tracks provider-reported tokens when present and falls back
// to a heuristic otherwise).
func estimateTokens(text string) int64 {
	return int64(len(strings.Fields(text)))
}

func itoa(n int) string {
	var buf [20]byte
	i := len(buf)
	if n == 0 {
		return "0"
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
