package embedmodel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchManifests_NotifiesOnManifestRewrite(t *testing.T) {
	dir := t.TempDir()

	changed := make(chan string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, WatchManifests(ctx, dir, func(model string) {
		select {
		case changed <- model:
		default:
		}
	}))

	require.NoError(t, writeManifest(dir, manifest{Model: "local/test", Provider: "local", Dimensions: 32}))

	select {
	case model := <-changed:
		assert.Equal(t, "local/test", model)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for manifest change notification")
	}
}

func TestModelNameFromManifestFile_ReadsModelField(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeManifest(dir, manifest{Model: "sentence-transformers/all-MiniLM-L6-v2", Provider: "local", Dimensions: 384}))

	name, ok := modelNameFromManifestFile(manifestPath(dir, "sentence-transformers/all-MiniLM-L6-v2"))
	require.True(t, ok)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", name)
}

func TestModelNameFromManifestFile_RejectsMissingFile(t *testing.T) {
	_, ok := modelNameFromManifestFile("/nonexistent/path.json")
	assert.False(t, ok)
}
