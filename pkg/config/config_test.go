package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 384, cfg.Embedding.Dimensions)
	assert.Equal(t, 0.2, cfg.Embedding.DriftThreshold)
	assert.True(t, cfg.Chunking.EnforceAcyclic)
}

func TestLoad_OverridesOnlySpecifiedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedding:\n  drift_threshold: 0.5\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Embedding.DriftThreshold)
	assert.Equal(t, 384, cfg.Embedding.Dimensions, "unset keys keep their default")
}

func TestLoad_RejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedding:\n  bogus_key: 1\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
