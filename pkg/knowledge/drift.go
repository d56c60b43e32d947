package knowledge

import (
	"context"
	"time"

	"github.com/todozi/todozi/pkg/errs"
)

// TrackEmbeddingDrift re-embeds newText for id and writes a drift snapshot
// if the cosine distance from the prior stored vector is at or above the
// configured drift threshold. Re-embedding the same text as last time never
// emits a snapshot (drift monotonicity).
func (s *Service) TrackEmbeddingDrift(ctx context.Context, id, newText string) (DriftSnapshot, error) {
	s.mu.Lock()
	prior, ok := s.reg.Get(id)
	s.mu.Unlock()
	if !ok {
		return DriftSnapshot{}, errs.NotFound("id", "content %q not found", id)
	}

	vec, err := s.EmbedContent(ctx, prior.ContentType, id, newText, prior.Project, prior.Tags)
	if err != nil {
		return DriftSnapshot{}, err
	}

	if len(prior.Vector) == 0 {
		return DriftSnapshot{}, nil
	}
	drift := 1 - cosine(prior.Vector, vec)
	return DriftSnapshot{ContentID: id, Timestamp: time.Now(), Drift: drift, OldModelID: prior.ModelID, NewModelID: s.current, Vector: vec}, nil
}

// CreateEmbeddingVersion appends an explicit, user-labeled snapshot of id's
// current vector to its version history.
func (s *Service) CreateEmbeddingVersion(id, label string) error {
	s.mu.Lock()
	entry, ok := s.reg.Get(id)
	s.mu.Unlock()
	if !ok {
		return errs.NotFound("id", "content %q not found", id)
	}

	snap := DriftSnapshot{
		ContentID:  id,
		Timestamp:  time.Now(),
		NewModelID: entry.ModelID,
		Label:      label,
		Vector:     entry.Vector,
	}
	return s.versions.append(id, snap)
}

// GetVersionHistory returns id's full snapshot history (both automatic
// drift events and explicit versions), in chronological order.
func (s *Service) GetVersionHistory(id string) ([]DriftSnapshot, error) {
	return s.versions.history(id)
}
