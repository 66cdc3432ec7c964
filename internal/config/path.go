// Package config provides configuration loading and path utilities.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDataDir returns the default location for lootsweep state
// (exclusion lists, the cache database).
func DefaultDataDir() string {
	return ExpandPath("~/.local/share/lootsweep")
}

// DefaultConfigDir returns the default location of the config file.
func DefaultConfigDir() string {
	return ExpandPath("~/.config/lootsweep")
}
