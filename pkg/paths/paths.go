// Package paths provides centralized path handling for ember.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/embermod/ember/pkg/errors"
)

// Environment variable names
const (
	// EnvCacheDir overrides the XDG cache directory for ember
	EnvCacheDir = "EMBER_CACHE_DIR"

	// EnvConfigDir overrides the XDG config directory for ember
	EnvConfigDir = "EMBER_CONFIG_DIR"

	// EnvDataDir overrides the XDG data directory for ember
	EnvDataDir = "EMBER_DATA_DIR"
)

// Default directories and files
// These constants define ember's on-disk layout and are NOT user-configurable;
// user-configurable paths live in pkg/config.
const (
	// AppDirName is the directory name for ember-specific files
	AppDirName = "ember"

	// IndexFileName is the name of the local install index file
	IndexFileName = "installed.json"

	// ConfigFileName is the name of the ember config file
	ConfigFileName = "ember.toml"
)

// CacheDir returns the directory used for downloaded archives.
func CacheDir() string {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.CacheHome, AppDirName)
}

// ConfigDir returns the directory holding ember's config file.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// DataDir returns the directory holding ember's persistent state,
// including the local install index.
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.DataHome, AppDirName)
}

// IndexFile returns the default path of the local install index.
func IndexFile() string {
	return filepath.Join(DataDir(), IndexFileName)
}

// ConfigFile returns the default path of the ember config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// EnsureDirs creates the cache, config and data directories if missing.
func EnsureDirs() error {
	for _, dir := range []string{CacheDir(), ConfigDir(), DataDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dir)
		}
	}
	return nil
}
