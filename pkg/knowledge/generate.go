package knowledge

import (
	"context"
	"time"

	"github.com/todozi/todozi/pkg/content"
	"github.com/todozi/todozi/pkg/embedcache"
	"github.com/todozi/todozi/pkg/embedlog"
	"github.com/todozi/todozi/pkg/registry"
)

// GenerateEmbedding embeds text, cache-first. The cache key uses only the
// text hash (a synthetic "adhoc" id), since the caller has no content id to
// associate the result with.
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	embedder, err := s.currentEmbedder()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	key := embedcache.Key{ContentType: "", ID: "adhoc", TextHash: content.Fingerprint(text)}
	if entry, ok := s.cache.Get(key); ok {
		s.mu.Unlock()
		return entry.Vector, nil
	}
	s.mu.Unlock()

	vec, err := embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache.Put(key, vec, s.current)
	logErr := s.log.Append(embedlog.Record{
		Timestamp:   time.Now(),
		ContentType: "",
		ID:          "adhoc",
		Text:        text,
		Vector:      vec,
		ModelID:     s.current,
	})
	s.mu.Unlock()
	if logErr != nil {
		return nil, logErr
	}
	return vec, nil
}

// EmbedContent embeds text for a specific content id, updates the registry's
// current vector for id, and, when the vector was freshly computed rather
// than a cache hit, appends an entry to id's version history; drift from a
// prior vector at or above the configured threshold is also written to the
// drift log and sent to observers. embed_content calls for a single id are serialized internally
// via the service mutex, so the stored current vector always reflects the
// most recently completed embedding.
func (s *Service) EmbedContent(ctx context.Context, contentType content.Type, id, text, project string, tags []string) ([]float64, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	embedder, err := s.currentEmbedder()
	if err != nil {
		return nil, err
	}

	key := embedcache.Key{ContentType: string(contentType), ID: id, TextHash: content.Fingerprint(text)}
	var vec []float64
	freshlyComputed := false
	if entry, ok := s.cache.Get(key); ok && entry.ModelID == s.current {
		vec = entry.Vector
	} else {
		freshlyComputed = true
		vec, err = embedder.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		s.cache.Put(key, vec, s.current)
		if err := s.log.Append(embedlog.Record{
			Timestamp:   time.Now(),
			ContentType: string(contentType),
			ID:          id,
			Project:     project,
			Text:        text,
			Vector:      vec,
			ModelID:     s.current,
		}); err != nil {
			return nil, err
		}
	}

	prior, hadPrior := s.reg.Get(id)
	now := time.Now()
	s.reg.Put(registry.Entry{
		ID:          id,
		ContentType: contentType,
		Text:        text,
		Vector:      vec,
		ModelID:     s.current,
		Tags:        tags,
		Project:     project,
		Created:     firstNonZero(prior.Created, now),
		Updated:     now,
	})

	// Every freshly computed embedding (not a cache hit reusing the same
	// vector) adds one entry to the id's version history: the first such
	// call is the baseline, later ones record drift relative to the prior
	// stored vector. Only drift at or above the threshold also lands in
	// the separate drift log and fires observers.
	if freshlyComputed {
		snap := DriftSnapshot{ContentID: id, Timestamp: now, NewModelID: s.current, Vector: vec}
		if hadPrior && len(prior.Vector) > 0 {
			snap.Drift = 1 - cosine(prior.Vector, vec)
			snap.OldModelID = prior.ModelID
		}
		if err := s.versions.append(id, snap); err != nil {
			return nil, err
		}
		if hadPrior && len(prior.Vector) > 0 && snap.Drift >= s.cfg.Embedding.DriftThreshold {
			if err := s.drift.append(snap); err != nil {
				return nil, err
			}
			s.notify(snap)
		}
	}

	return vec, nil
}

func firstNonZero(t, fallback time.Time) time.Time {
	if t.IsZero() {
		return fallback
	}
	return t
}

// GenerateEmbeddingsBatch embeds every text, cache-first: misses are
// partitioned out, embedded with one Embedder.EmbedBatch call (which splits
// them into provider-sized batches), and the result is merged back
// preserving input order.
func (s *Service) GenerateEmbeddingsBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	embedder, err := s.currentEmbedder()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	out := make([][]float64, len(texts))
	var missIdx []int
	var missTexts []string
	keys := make([]embedcache.Key, len(texts))
	for i, t := range texts {
		key := embedcache.Key{ContentType: "", ID: "adhoc", TextHash: content.Fingerprint(t)}
		keys[i] = key
		if entry, ok := s.cache.Get(key); ok {
			out[i] = entry.Vector
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	s.mu.Unlock()

	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := embedder.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for j, i := range missIdx {
		out[i] = vecs[j]
		s.cache.Put(keys[i], vecs[j], s.current)
		if err := s.log.Append(embedlog.Record{
			Timestamp:   time.Now(),
			ContentType: "",
			ID:          "adhoc",
			Text:        missTexts[j],
			Vector:      vecs[j],
			ModelID:     s.current,
		}); err != nil {
			return nil, err
		}
	}
	return out, nil
}
