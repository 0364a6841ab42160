package install

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermod/ember/pkg/index"
	"github.com/embermod/ember/pkg/testutil"
)

// setupCatalog runs a fake Thunderstore serving one package and points the
// app environment at it. Returns the mods directory.
func setupCatalog(t *testing.T) string {
	t.Helper()

	archive := testutil.ModArchive(t, `{"name":"Server_Utilities","version_number":"1.4.2"}`, "Fifty.ServerUtilities", `{"Name":"Fifty.ServerUtilities"}`)

	mux := http.NewServeMux()
	mux.HandleFunc("/dl", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/package/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{
				"name": "Server_Utilities",
				"owner": "Fifty",
				"versions": [
					{
						"version_number": "1.4.2",
						"download_url": "` + srv.URL + `/dl",
						"description": "utilities",
						"file_size": 1024,
						"dependencies": []
					}
				]
			}
		]`))
	})

	mods := t.TempDir()
	t.Setenv("EMBER_MODS_DIR", mods)
	t.Setenv("EMBER_CACHE_DIR", t.TempDir())
	t.Setenv("EMBER_CONFIG_DIR", t.TempDir())
	t.Setenv("EMBER_CATALOG_URL", srv.URL+"/package/")
	return mods
}

func TestInstallCmd(t *testing.T) {
	mods := setupCatalog(t)

	cmd := NewCommand()
	cmd.SetArgs([]string{"Server_Utilities"})
	require.NoError(t, cmd.Execute())

	assert.DirExists(t, filepath.Join(mods, "Fifty.ServerUtilities"))

	idx, err := index.Load(filepath.Join(mods, "installed.json"))
	require.NoError(t, err)
	rec, ok := idx.GetMod("Server_Utilities")
	require.True(t, ok)
	assert.Equal(t, "1.4.2", rec.Version)
}

func TestInstallCmdBatchErrorStillPersistsIndex(t *testing.T) {
	mods := setupCatalog(t)

	cmd := NewCommand()
	cmd.SetArgs([]string{"Server_Utilities", "Nonexistent"})
	err := cmd.Execute()
	require.Error(t, err)

	// The first package is installed on disk; its record must be in the
	// saved index even though the batch failed.
	assert.DirExists(t, filepath.Join(mods, "Fifty.ServerUtilities"))

	idx, err := index.Load(filepath.Join(mods, "installed.json"))
	require.NoError(t, err)
	_, ok := idx.GetMod("Server_Utilities")
	assert.True(t, ok)
}
