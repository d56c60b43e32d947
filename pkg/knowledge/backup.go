package knowledge

import (
	"bytes"
	"encoding/json"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/natefinch/atomic"
	"github.com/todozi/todozi/pkg/content"
	"github.com/todozi/todozi/pkg/embedlog"
	"github.com/todozi/todozi/pkg/errs"
	"github.com/todozi/todozi/pkg/registry"
)

// BackupEmbeddings writes a consolidated snapshot of the embedding log to
// path, via the log's own atomic Backup.
func (s *Service) BackupEmbeddings(path string) error {
	records, err := s.log.All()
	if err != nil {
		return err
	}
	if err := s.log.Backup(path); err != nil {
		return err
	}
	slog.Info("knowledge: backed up embedding log", "path", path, "records", humanize.Comma(int64(len(records))))
	return nil
}

// RestoreEmbeddings reads a backup written by BackupEmbeddings and replays
// every record into the registry's current vector for its id (skipping
// "adhoc" synthetic entries from GenerateEmbedding), so a fresh Service can
// be rehydrated without re-embedding.
func (s *Service) RestoreEmbeddings(path string) error {
	records, err := embedlog.Restore(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if r.ID == "" || r.ID == "adhoc" {
			continue
		}
		prior, _ := s.reg.Get(r.ID)
		s.reg.Put(registry.Entry{
			ID:          r.ID,
			ContentType: content.Type(r.ContentType),
			Text:        r.Text,
			Vector:      r.Vector,
			ModelID:     r.ModelID,
			Tags:        prior.Tags,
			Project:     r.Project,
			Created:     firstNonZero(prior.Created, r.Timestamp),
			Updated:     r.Timestamp,
		})
	}
	slog.Info("knowledge: restored embedding log", "path", path, "records", humanize.Comma(int64(len(records))))
	return nil
}

// fineTuneRecord is one line of the export_for_fine_tuning output.
type fineTuneRecord struct {
	Text        string    `json:"text"`
	Vector      []float64 `json:"vector"`
	ContentType string    `json:"content_type"`
	Tags        []string  `json:"tags,omitempty"`
	Project     string    `json:"project,omitempty"`
}

// ExportForFineTuning writes every registry entry as a line-delimited file
// of {text, vector, content_type, tags, project}.
func (s *Service) ExportForFineTuning(path string) error {
	entries := s.reg.All(registry.Filter{})

	var buf bytes.Buffer
	for _, e := range entries {
		rec := fineTuneRecord{
			Text:        e.Text,
			Vector:      e.Vector,
			ContentType: string(e.ContentType),
			Tags:        e.Tags,
			Project:     e.Project,
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return errs.StorageWrap(err, "marshaling fine-tune record for %q", e.ID)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return errs.StorageWrap(err, "writing fine-tune export to %q", path)
	}
	return nil
}
