package knowledge

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/todozi/todozi/pkg/errs"
	"github.com/todozi/todozi/pkg/logging"
)

// driftLog is the append-only drift log (embed/drift.jsonl), following the
// same RotatingFile-backed shape as pkg/embedlog but for DriftSnapshot
// records instead of embedding-generation events.
type driftLog struct {
	path string
	rf   *logging.RotatingFile
}

func openDriftLog(path string) (*driftLog, error) {
	rf, err := logging.NewRotatingFile(path, logging.WithDailyRotation())
	if err != nil {
		return nil, errs.StorageWrap(err, "opening drift log at %q", path)
	}
	return &driftLog{path: path, rf: rf}, nil
}

func (d *driftLog) append(snap DriftSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return errs.StorageWrap(err, "marshaling drift snapshot for %q", snap.ContentID)
	}
	data = append(data, '\n')
	_, err = d.rf.Write(data)
	return err
}

func (d *driftLog) all() ([]DriftSnapshot, error) {
	f, err := os.Open(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.StorageWrap(err, "opening drift log at %q", d.path)
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
			slog.Warn("knowledge: skipping malformed drift record", "error", err)
			continue
		}
		out = append(out, snap)
	}
	return out, scanner.Err()
}

func (d *driftLog) close() error {
	return d.rf.Close()
}
