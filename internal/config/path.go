// Package config resolves application configuration from viper: file
// locations and the planning run parameters (dates, rules, candidate pool).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ExpandPath expands ~ and environment variables in a file path.
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

// DatabasePath returns the configured sqlite database location.
func DatabasePath() string {
	if path := viper.GetString("database.path"); path != "" {
		return ExpandPath(path)
	}
	return ExpandPath("~/.local/share/mise/mise.db")
}

// CatalogPath returns the configured meal catalog location.
func CatalogPath() string {
	if path := viper.GetString("catalog.path"); path != "" {
		return ExpandPath(path)
	}
	return ExpandPath("~/.config/mise/meals.yaml")
}
