package knowledge

import (
	"context"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/todozi/todozi/pkg/content"
	"github.com/todozi/todozi/pkg/errs"
	"github.com/todozi/todozi/pkg/registry"
)

const snippetLen = 120

func snippet(text string) string {
	if len(text) <= snippetLen {
		return text
	}
	return text[:snippetLen] + "…"
}

// CosineSearch embeds queryText, iterates the registry (narrowed by
// filter), and returns the top-k entries by descending cosine similarity.
// Ties are broken by most recent update time. Searching with zero
// candidates returns an empty result, not an error.
func (s *Service) CosineSearch(ctx context.Context, queryText string, filter registry.Filter, k int) ([]SearchResult, error) {
	qv, err := s.GenerateEmbedding(ctx, queryText)
	if err != nil {
		return nil, err
	}
	return s.cosineSearchVector(qv, filter, nil, k), nil
}

// cosineSearchVector runs the shared ranking logic used by CosineSearch,
// FindSimilar and RecommendSimilar: it never itself calls the model.
func (s *Service) cosineSearchVector(qv []float64, filter registry.Filter, exclude map[string]bool, k int) []SearchResult {
	candidates := s.reg.All(filter)

	results := make([]SearchResult, 0, len(candidates))
	for _, c := range candidates {
		if exclude != nil && exclude[c.ID] {
			continue
		}
		if len(c.Vector) == 0 {
			continue
		}
		results = append(results, SearchResult{ID: c.ID, Score: cosine(qv, c.Vector), Snippet: snippet(c.Text)})
	}

	return topKByScore(results, candidates, k)
}

func topKByScore(results []SearchResult, candidates []registry.Entry, k int) []SearchResult {
	updatedAt := make(map[string]int64, len(candidates))
	for _, c := range candidates {
		updatedAt[c.ID] = c.Updated.UnixNano()
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return updatedAt[results[i].ID] > updatedAt[results[j].ID]
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}

// FindSimilar uses the stored vector for contentID and excludes it from the
// results.
func (s *Service) FindSimilar(contentID string, k int) ([]SearchResult, error) {
	entry, ok := s.reg.Get(contentID)
	if !ok {
		return nil, errs.NotFound("content_id", "content %q not found", contentID)
	}
	return s.cosineSearchVector(entry.Vector, registry.Filter{}, map[string]bool{contentID: true}, k), nil
}

// RecommendSimilar forms a centroid from basedOnIDs' stored vectors and runs
// a cosine search excluding both basedOnIDs and excludeIDs.
func (s *Service) RecommendSimilar(basedOnIDs, excludeIDs []string, k int) ([]SearchResult, error) {
	var vectors [][]float64
	exclude := make(map[string]bool, len(basedOnIDs)+len(excludeIDs))
	for _, id := range basedOnIDs {
		exclude[id] = true
		entry, ok := s.reg.Get(id)
		if !ok {
			return nil, errs.NotFound("based_on_ids", "content %q not found", id)
		}
		vectors = append(vectors, entry.Vector)
	}
	for _, id := range excludeIDs {
		exclude[id] = true
	}
	if len(vectors) == 0 {
		return nil, errs.Validation("based_on_ids", "at least one id is required")
	}

	c := centroid(vectors)
	return s.cosineSearchVector(c, registry.Filter{}, exclude, k), nil
}

// HybridSearch combines cosine similarity of the query with a keyword-match
// fraction, scored by bleve over each candidate's indexable text and tags.
// score(i) = w*semantic + (1-w)*keyword, w = semanticWeight.
func (s *Service) HybridSearch(ctx context.Context, queryText string, keywords []string, semanticWeight float64, k int, filter registry.Filter) ([]HybridResult, error) {
	qv, err := s.GenerateEmbedding(ctx, queryText)
	if err != nil {
		return nil, err
	}

	candidates := s.reg.All(filter)
	keywordScores, err := keywordMatchFractions(candidates, keywords)
	if err != nil {
		return nil, err
	}

	results := make([]HybridResult, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Vector) == 0 {
			continue
		}
		sem := cosine(qv, c.Vector)
		kw := keywordScores[c.ID]
		results = append(results, HybridResult{
			ID:       c.ID,
			Semantic: sem,
			Keyword:  kw,
			Score:    semanticWeight*sem + (1-semanticWeight)*kw,
		})
	}

	updatedAt := make(map[string]int64, len(candidates))
	for _, c := range candidates {
		updatedAt[c.ID] = c.Updated.UnixNano()
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Semantic != results[j].Semantic {
			return results[i].Semantic > results[j].Semantic
		}
		return updatedAt[results[i].ID] > updatedAt[results[j].ID]
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// keywordMatchFractions builds a throwaway in-memory bleve index over every
// candidate's indexable text plus tags, then queries it once per keyword to
// find which candidates matched; the fraction of matched keywords becomes
// each candidate's keyword score. No keywords means every candidate scores 0.
func keywordMatchFractions(candidates []registry.Entry, keywords []string) (map[string]float64, error) {
	scores := make(map[string]float64, len(candidates))
	if len(keywords) == 0 {
		return scores, nil
	}

	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, errs.ModelWrap(err, "creating keyword index")
	}
	defer index.Close()

	for _, c := range candidates {
		doc := strings.ToLower(c.Text + " " + strings.Join(c.Tags, " "))
		if err := index.Index(c.ID, map[string]any{"text": doc}); err != nil {
			return nil, errs.ModelWrap(err, "indexing content %q for keyword search", c.ID)
		}
	}

	matched := make(map[string]int, len(candidates))
	for _, kw := range keywords {
		query := bleve.NewMatchQuery(strings.ToLower(kw))
		query.SetField("text")
		req := bleve.NewSearchRequest(query)
		req.Size = len(candidates)
		res, err := index.Search(req)
		if err != nil {
			return nil, errs.ModelWrap(err, "searching for keyword %q", kw)
		}
		for _, hit := range res.Hits {
			matched[hit.ID]++
		}
	}

	for _, c := range candidates {
		scores[c.ID] = float64(matched[c.ID]) / float64(len(keywords))
	}
	return scores, nil
}

// ExplainSearchResult returns the vector dimensions contributing most to the
// similarity between queryText and id, plus the overlap between the query's
// words and the content's indexable text/tags.
func (s *Service) ExplainSearchResult(ctx context.Context, queryText, id string) (Explanation, error) {
	qv, err := s.GenerateEmbedding(ctx, queryText)
	if err != nil {
		return Explanation{}, err
	}
	entry, ok := s.reg.Get(id)
	if !ok {
		return Explanation{}, errs.NotFound("id", "content %q not found", id)
	}

	// Re-asking for the same (query, id) within a batch explain/validate
	// pass recomputes from the same two already-fetched vectors, so the
	// dimension-contribution work is memoized for a short window instead
	// of repeated.
	key := explainMemoKey(queryText, id)
	cached, err, _ := s.memo.Memoize(key, func() (any, error) {
		return buildExplanation(qv, entry.Vector), nil
	})
	if err != nil {
		return Explanation{}, err
	}
	contributions := append([]DimContribution(nil), cached.([]DimContribution)...)

	overlap := wordOverlap(queryText, entry.Text+" "+strings.Join(entry.Tags, " "))

	return Explanation{TopDimensions: contributions, KeywordOverlap: overlap}, nil
}

func explainMemoKey(queryText, id string) string {
	return "explain:" + id + ":" + content.Fingerprint(queryText)
}

func buildExplanation(qv, vec []float64) []DimContribution {
	n := len(qv)
	if len(vec) < n {
		n = len(vec)
	}
	contributions := make([]DimContribution, n)
	for i := 0; i < n; i++ {
		contributions[i] = DimContribution{Index: i, Contribution: qv[i] * vec[i]}
	}
	sort.Slice(contributions, func(i, j int) bool {
		return abs(contributions[i].Contribution) > abs(contributions[j].Contribution)
	})
	const maxDims = 16
	if len(contributions) > maxDims {
		contributions = contributions[:maxDims]
	}
	return contributions
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func wordOverlap(query, text string) []string {
	textLower := strings.ToLower(text)
	seen := make(map[string]bool)
	var overlap []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if seen[w] {
			continue
		}
		if strings.Contains(textLower, w) {
			overlap = append(overlap, w)
			seen[w] = true
		}
	}
	return overlap
}
