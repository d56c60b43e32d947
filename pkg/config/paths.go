package config

import (
	"os"
	"path/filepath"
)

// GetConfigDir returns the user's config directory, falling back to a
// temp directory if the home directory cannot be determined.
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".todozi-config")
	}
	return filepath.Join(homeDir, ".config", "todozi")
}

// DataDir returns the root data directory holding the embedding log, drift
// log, per-content version histories and cached model files.
func DataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".todozi-data")
	}
	return filepath.Join(homeDir, ".local", "share", "todozi")
}
