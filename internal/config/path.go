// Package config loads typed settings for the books command from viper.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDatabasePath is where the ledger lives unless configured otherwise.
func DefaultDatabasePath() string {
	return filepath.Join("~", ".local", "share", "books", "books.db")
}

// DefaultConfigDir holds config.yaml and the Sheets token.
func DefaultConfigDir() string {
	return ExpandPath(filepath.Join("~", ".config", "books"))
}
