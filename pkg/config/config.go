// Package config loads the single YAML configuration document that
// controls embedding and chunking behavior.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/todozi/todozi/pkg/errs"
)

// EmbeddingConfig controls the embedding service's model, cache and
// drift/similarity thresholds.
type EmbeddingConfig struct {
	ModelName           string  `yaml:"model_name"`
	Dimensions          int     `yaml:"dimensions"`
	CacheMaxEntries     int     `yaml:"cache_max_entries"`
	CacheTTLSeconds     int     `yaml:"cache_ttl_seconds"`
	DriftThreshold      float64 `yaml:"drift_threshold"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

// ChunkingConfig holds the chunking section of the config document.
// pkg/chunking does not read it: Graph applies the fixed per-level
// ChunkLevel.TokenLimit budgets and reports cycles whatever EnforceAcyclic is.
type ChunkingConfig struct {
	TokenLimits    map[string]int `yaml:"token_limits"`
	EnforceAcyclic bool           `yaml:"enforce_acyclic"`
}

// Config is the full document.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{
			ModelName:           "sentence-transformers/all-MiniLM-L6-v2",
			Dimensions:          384,
			CacheMaxEntries:     4096,
			CacheTTLSeconds:     3600,
			DriftThreshold:      0.2,
			SimilarityThreshold: 0.75,
		},
		Chunking: ChunkingConfig{
			EnforceAcyclic: true,
		},
	}
}

// Load reads a YAML document at path and decodes it into the defaults,
// so any key the document omits keeps its default value. Strict decoding
// rejects unknown keys to catch typos early.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errs.StorageWrap(err, "reading config file %q", path)
	}

	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return Config{}, errs.ParseWrap(err, "parsing config file %q", path)
	}
	return cfg, nil
}
