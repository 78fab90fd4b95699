// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/constant"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/key"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "VIDLINK_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be overridden via the VIDLINK_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Vidlink))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Vidlink))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the watch history persistence file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries resolves the registry of previously parsed links.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Enrichment resolves the directory holding cached enrichment records.
func Enrichment() string {
	return ensureDir(filepath.Join(Cache(), "enrichment"))
}

// Downloads resolves the directory force-downloaded videos are written to.
// Resolution order: downloads.path, then ~/Downloads/vidlink, then the current directory.
func Downloads() string {
	if custom := viper.GetString(key.DownloadsPath); custom != "" {
		return ensureDir(custom)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ensureDir(filepath.Join(".", constant.Vidlink))
	}
	return ensureDir(filepath.Join(home, "Downloads", constant.Vidlink))
}

// Captures resolves the directory captured frames are saved to.
func Captures() string {
	if custom := viper.GetString(key.CapturesPath); custom != "" {
		return ensureDir(custom)
	}
	return ensureDir(filepath.Join(Downloads(), "captures"))
}

// Temp resolves a volatile directory for transient artifacts such as mpv sockets and raw screenshots.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Vidlink))
}
