package embedmodel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/todozi/todozi/pkg/errs"
)

func TestLoad_LocalProvider(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(context.Background(), "local/dev", LoadOptions{CacheDir: dir, Dimensions: 48})
	assert.NoError(t, err)
	assert.Equal(t, 48, p.Dimensions())

	m, ok := readManifest(dir, "local/dev")
	assert.True(t, ok)
	assert.Equal(t, "local", m.Provider)
	assert.Equal(t, 48, m.Dimensions)
}

func TestLoad_KnownRemoteModel(t *testing.T) {
	p, err := Load(context.Background(), "text-embedding-3-small", LoadOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 1536, p.Dimensions())
}

func TestLoad_UnknownModelWithoutDimensionsFails(t *testing.T) {
	_, err := Load(context.Background(), "some-custom-model", LoadOptions{})
	assert.True(t, errs.Is(err, errs.KindModel))
}

func TestLoad_UnknownModelWithExplicitDimensions(t *testing.T) {
	p, err := Load(context.Background(), "some-custom-model", LoadOptions{Dimensions: 768})
	assert.NoError(t, err)
	assert.Equal(t, 768, p.Dimensions())
}

func TestManifestPath_SanitizesSlashes(t *testing.T) {
	path := manifestPath("/tmp/cache", "local/dev")
	assert.Equal(t, filepath.Join("/tmp/cache", "local_dev.json"), path)
}
