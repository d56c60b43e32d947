package embedmodel

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/todozi/todozi/pkg/errs"
)

// WatchManifests watches cacheDir for manifest writes and invokes onChange
// with the model name whenever one is (re)written, e.g. by another process
// refreshing a model's remote endpoint binding. The watcher stops when ctx
// is cancelled. The model name comes from the manifest's own "model" field,
// not the on-disk filename, since manifestPath replaces "/" with "_" and
// that encoding isn't reversible from the path alone.
func WatchManifests(ctx context.Context, cacheDir string, onChange func(model string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.StorageWrap(err, "creating model cache watcher")
	}
	if err := watcher.Add(cacheDir); err != nil {
		watcher.Close()
		return errs.StorageWrap(err, "watching model cache dir %q", cacheDir)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if !strings.HasSuffix(ev.Name, ".json") {
					continue
				}
				model, ok := modelNameFromManifestFile(ev.Name)
				if !ok {
					continue
				}
				onChange(model)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("embedmodel: cache watcher error", "error", err)
			}
		}
	}()

	return nil
}

func modelNameFromManifestFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		slog.Warn("embedmodel: skipping malformed manifest on watch event", "path", path, "error", err)
		return "", false
	}
	return m.Model, true
}
