package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvCacheDir, filepath.Join(tmp, "cache"))
	t.Setenv(EnvConfigDir, filepath.Join(tmp, "config"))
	t.Setenv(EnvDataDir, filepath.Join(tmp, "data"))

	assert.Equal(t, filepath.Join(tmp, "cache"), CacheDir())
	assert.Equal(t, filepath.Join(tmp, "config"), ConfigDir())
	assert.Equal(t, filepath.Join(tmp, "data"), DataDir())
	assert.Equal(t, filepath.Join(tmp, "data", IndexFileName), IndexFile())
	assert.Equal(t, filepath.Join(tmp, "config", ConfigFileName), ConfigFile())
}

func TestDefaultsUseAppDir(t *testing.T) {
	t.Setenv(EnvCacheDir, "")
	t.Setenv("XDG_CACHE_HOME", "")

	assert.Equal(t, AppDirName, filepath.Base(CacheDir()))
}

func TestEnsureDirs(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvCacheDir, filepath.Join(tmp, "cache"))
	t.Setenv(EnvConfigDir, filepath.Join(tmp, "config"))
	t.Setenv(EnvDataDir, filepath.Join(tmp, "data"))

	require.NoError(t, EnsureDirs())

	for _, dir := range []string{CacheDir(), ConfigDir(), DataDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
