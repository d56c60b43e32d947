package embedmodel

import (
	"context"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/todozi/todozi/pkg/errs"
)

// maxBatchInputs mirrors OpenAI's documented per-request embedding limit.
const maxBatchInputs = 2048

// HTTPProvider talks to an OpenAI-compatible /embeddings endpoint. This is
// the concrete meaning of spec.md §4.C's "load model weights ... from a
// remote model repository": instead of hosting transformer weights
// in-process, model selection and inference happen against a remote
// service addressed by base URL, the same way the teacher's DMR client
// talks to a local OpenAI-compatible server.
type HTTPProvider struct {
	client     openai.Client
	model      string
	dimensions int
}

var _ Provider = (*HTTPProvider)(nil)

// NewHTTPProvider builds a provider bound to model, against baseURL (empty
// uses the OpenAI SDK's default) authenticated with apiKey (empty sends no
// auth header, for self-hosted OpenAI-compatible servers).
func NewHTTPProvider(model, baseURL, apiKey string, dimensions int) *HTTPProvider {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &HTTPProvider{
		client:     openai.NewClient(opts...),
		model:      model,
		dimensions: dimensions,
	}
}

func (p *HTTPProvider) ID() string      { return "openai/" + p.model }
func (p *HTTPProvider) Dimensions() int { return p.dimensions }

func (p *HTTPProvider) Embed(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, errEmptyInput()
	}
	batch, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Vector:      batch.Vectors[0],
		InputTokens: batch.InputTokens,
		TotalTokens: batch.TotalTokens,
	}, nil
}

func (p *HTTPProvider) EmbedBatch(ctx context.Context, texts []string) (BatchResult, error) {
	if len(texts) == 0 {
		return BatchResult{Vectors: [][]float64{}}, nil
	}
	if len(texts) > maxBatchInputs {
		return BatchResult{}, errs.Model("batch size %d exceeds provider limit of %d", len(texts), maxBatchInputs)
	}

	slog.Debug("embedmodel: requesting embeddings", "model", p.model, "batch_size", len(texts))

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: p.model,
	}

	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return BatchResult{}, errs.ModelWrap(err, "embeddings request failed")
	}
	if len(resp.Data) != len(texts) {
		return BatchResult{}, errs.Model("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	// §4.C makes unit-norm output the encoder's contract regardless of
	// provider; a remote OpenAI-compatible server isn't guaranteed to
	// L2-normalize, so normalize defensively rather than trust it.
	vectors := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		v := make([]float64, len(d.Embedding))
		copy(v, d.Embedding)
		vectors[i] = normalize(v)
	}

	return BatchResult{
		Vectors:     vectors,
		InputTokens: resp.Usage.PromptTokens,
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}
