package embedmodel

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/todozi/todozi/pkg/errs"
)

// manifest is the on-disk record of a loaded model: which provider backs
// it, at what dimension, cached under the model cache directory so a
// process restart can recall the binding without re-resolving it.
type manifest struct {
	Model      string    `json:"model"`
	Provider   string    `json:"provider"` // "local" or "http"
	BaseURL    string    `json:"base_url,omitempty"`
	Dimensions int       `json:"dimensions"`
	CachedAt   time.Time `json:"cached_at"`
}

func manifestPath(cacheDir, name string) string {
	safe := strings.ReplaceAll(name, "/", "_")
	return filepath.Join(cacheDir, safe+".json")
}

// writeManifest persists m under cacheDir atomically: a crash mid-write
// never leaves a half-written manifest for the next Load to trip over.
func writeManifest(cacheDir string, m manifest) error {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return errs.StorageWrap(err, "creating model cache dir %q", cacheDir)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errs.StorageWrap(err, "marshaling model manifest for %q", m.Model)
	}
	if err := atomic.WriteFile(manifestPath(cacheDir, m.Model), bytes.NewReader(data)); err != nil {
		return errs.StorageWrap(err, "writing model manifest for %q", m.Model)
	}
	return nil
}

func readManifest(cacheDir, name string) (manifest, bool) {
	data, err := os.ReadFile(manifestPath(cacheDir, name))
	if err != nil {
		return manifest{}, false
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return manifest{}, false
	}
	return m, true
}
