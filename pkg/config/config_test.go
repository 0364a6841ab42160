package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/testutil"
	"github.com/embermod/ember/pkg/thunderstore"
)

// isolateEnv clears the overrides that would leak host state into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"EMBER_GAME_DIR", "EMBER_MODS_DIR", "EMBER_CACHE_DIR", "EMBER_INDEX_FILE", "EMBER_CATALOG_URL", "EMBER_CONFIG_DIR", "EMBER_DATA_DIR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)
	t.Setenv("EMBER_CONFIG_DIR", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, thunderstore.DefaultIndexURL, cfg.CatalogURL)
	assert.NotEmpty(t, cfg.ModsDir)
	assert.Equal(t, filepath.Join(cfg.ModsDir, "installed.json"), cfg.IndexFile)
	assert.NotEmpty(t, cfg.CacheDir)
}

func TestLoadFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "ember.toml", `
game_dir = "/games/Titanfall2"
catalog_url = "http://localhost:9999/package/"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/games/Titanfall2", cfg.GameDir)
	assert.Equal(t, "http://localhost:9999/package/", cfg.CatalogURL)
	// Mods dir derives from the game dir when not set explicitly.
	assert.Equal(t, filepath.Join("/games/Titanfall2", "R2Northstar", "mods"), cfg.ModsDir)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	isolateEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadBadTOML(t *testing.T) {
	isolateEnv(t)
	path := testutil.CreateFile(t, t.TempDir(), "ember.toml", `game_dir = [broken`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestEnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	path := testutil.CreateFile(t, t.TempDir(), "ember.toml", `catalog_url = "http://from-file/"`)
	t.Setenv("EMBER_CATALOG_URL", "http://from-env/")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env/", cfg.CatalogURL)
}

func TestExplicitModsDirWins(t *testing.T) {
	isolateEnv(t)
	path := testutil.CreateFile(t, t.TempDir(), "ember.toml", `
game_dir = "/games/Titanfall2"
mods_dir = "/elsewhere/mods"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/mods", cfg.ModsDir)
	assert.Equal(t, filepath.Join("/elsewhere/mods", "installed.json"), cfg.IndexFile)
}

func TestGenerateRoundTrip(t *testing.T) {
	isolateEnv(t)
	cfg := &Config{
		GameDir:    "/games/Titanfall2",
		ModsDir:    "/games/Titanfall2/R2Northstar/mods",
		CacheDir:   "/home/user/.cache/ember",
		IndexFile:  "/games/Titanfall2/R2Northstar/mods/installed.json",
		CatalogURL: thunderstore.DefaultIndexURL,
	}

	path := filepath.Join(t.TempDir(), "ember.toml")
	require.NoError(t, WriteDefault(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	// A second write must not clobber the user's file.
	err = WriteDefault(cfg, path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
