package knowledge

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/todozi/todozi/pkg/content"
	"github.com/todozi/todozi/pkg/embedmodel"
	"github.com/todozi/todozi/pkg/errs"
)

// LoadAdditionalModel loads name and registers it under alias, without
// changing the current default model.
func (s *Service) LoadAdditionalModel(ctx context.Context, name, alias string) error {
	provider, err := embedmodel.Load(ctx, name, embedmodel.LoadOptions{
		CacheDir: filepath.Join(s.dataDir, "models"),
	})
	if err != nil {
		return errs.ModelWrap(err, "loading model %q as alias %q", name, alias)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[alias] = embedmodel.NewEmbedder(provider)
	return nil
}

// SetModel changes the default inference model to alias, which must
// already be loaded via Initialize or LoadAdditionalModel. Existing vectors
// are NOT auto-regenerated: callers that want a vector refreshed under the
// new model must call EmbedContent or TrackEmbeddingDrift explicitly, which
// emits a drift snapshot labeled with the old and new model ids.
func (s *Service) SetModel(alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.models[alias]; !ok {
		return errs.NotFound("alias", "model alias %q is not loaded", alias)
	}
	s.current = alias
	return nil
}

// CompareModels embeds text under every named alias and reports each
// alias's vector and inference time. The result holds no alias-to-alias
// cosine; PairwiseCosine computes it for two aliases of a result.
func (s *Service) CompareModels(ctx context.Context, text string, aliases []string) (map[string]ModelComparison, error) {
	s.mu.Lock()
	embedders := make(map[string]*embedmodel.Embedder, len(aliases))
	for _, alias := range aliases {
		e, ok := s.models[alias]
		if !ok {
			s.mu.Unlock()
			return nil, errs.NotFound("alias", "model alias %q is not loaded", alias)
		}
		embedders[alias] = e
	}
	s.mu.Unlock()

	out := make(map[string]ModelComparison, len(aliases))
	for _, alias := range aliases {
		start := time.Now()
		vec, err := embedders[alias].Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[alias] = ModelComparison{Alias: alias, Vector: vec, InferenceTime: time.Since(start)}
	}
	return out, nil
}

// PairwiseCosine returns the cosine similarity between two aliases' vectors
// from a CompareModels result, memoized per alias pair and vector contents
// within the service's short memoize window so a caller diffing every
// alias against every other alias in a loop does not redo the same dot
// product repeatedly.
func (s *Service) PairwiseCosine(comparisons map[string]ModelComparison, a, b string) (float64, bool) {
	ca, ok := comparisons[a]
	if !ok {
		return 0, false
	}
	cb, ok := comparisons[b]
	if !ok {
		return 0, false
	}

	key := "pairwise:" + a + ":" + b + ":" + content.Fingerprint(fmt.Sprint(ca.Vector)) + ":" + content.Fingerprint(fmt.Sprint(cb.Vector))
	v, err, _ := s.memo.Memoize(key, func() (any, error) {
		return cosine(ca.Vector, cb.Vector), nil
	})
	if err != nil {
		return 0, false
	}
	return v.(float64), true
}
