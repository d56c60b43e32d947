package knowledge

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/todozi/todozi/pkg/errs"
)

// versionStore is the per-content ordered history of DriftSnapshots:
// both automatic drift events and explicit labeled versions land here, so
// get_version_history returns a single chronological timeline for an id.
// Each id's file is small (one content's history), so it is written with a
// simple append — unlike the embedding log, no rotation is needed here.
type versionStore struct {
	mu  sync.Mutex
	dir string
}

func newVersionStore(dir string) (*versionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.StorageWrap(err, "creating version directory %q", dir)
	}
	return &versionStore{dir: dir}, nil
}

func (s *versionStore) path(id string) string {
	return filepath.Join(s.dir, sanitizeID(id)+".jsonl")
}

func sanitizeID(id string) string {
	return filepath.Base(id)
}

func (s *versionStore) append(id string, snap DriftSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path(id), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return errs.StorageWrap(err, "opening version history for %q", id)
	}
	defer f.Close()

	data, err := json.Marshal(snap)
	if err != nil {
		return errs.StorageWrap(err, "marshaling version snapshot for %q", id)
	}
	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		return errs.StorageWrap(err, "appending version snapshot for %q", id)
	}
	return nil
}

func (s *versionStore) history(id string) ([]DriftSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.StorageWrap(err, "reading version history for %q", id)
	}
	defer f.Close()

	var out []DriftSnapshot
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var snap DriftSnapshot
		if err := json.Unmarshal(line, &snap); err != nil {
			continue
		}
		out = append(out, snap)
	}
	return out, scanner.Err()
}
