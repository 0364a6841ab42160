package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermod/ember/pkg/errors"
)

func sampleIndex(path string) *LocalIndex {
	idx := New(path)
	idx.Mods["Server_Utilities"] = &LocalMod{
		Package: "Server_Utilities",
		Version: "1.4.2",
		Mods: []SubMod{
			{Name: "Fifty.ServerUtilities", Path: "Fifty.ServerUtilities"},
		},
		Deps: []string{"SomeLib"},
	}
	return idx
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "installed.json"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingFile))
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installed.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
}

func TestLoadOrCreateWritesEmptyIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installed.json")

	idx, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Empty(t, idx.Mods)
	assert.FileExists(t, path)

	// A second call loads the persisted file.
	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Empty(t, again.Mods)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installed.json")
	idx := sampleIndex(path)
	require.NoError(t, idx.Save())

	loaded, err := Load(path)
	require.NoError(t, err)

	require.Contains(t, loaded.Mods, "Server_Utilities")
	m := loaded.Mods["Server_Utilities"]
	assert.Equal(t, "1.4.2", m.Version)
	require.Len(t, m.Mods, 1)
	assert.Equal(t, "Fifty.ServerUtilities", m.Mods[0].Name)
	assert.Equal(t, []string{"SomeLib"}, m.Deps)
}

func TestSaveIfChangedIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installed.json")
	idx := sampleIndex(path)

	wrote, err := idx.SaveIfChanged()
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = idx.SaveIfChanged()
	require.NoError(t, err)
	assert.False(t, wrote)

	idx.Mods["Server_Utilities"].Version = "1.5.0"
	wrote, err = idx.SaveIfChanged()
	require.NoError(t, err)
	assert.True(t, wrote)
}

func TestGetModChecksLinked(t *testing.T) {
	idx := New(filepath.Join(t.TempDir(), "installed.json"))
	idx.Linked["DevMod"] = &LocalMod{Package: "DevMod", Version: "0.0.1"}

	m, ok := idx.GetMod("DevMod")
	require.True(t, ok)
	assert.Equal(t, "0.0.1", m.Version)

	_, ok = idx.GetMod("Absent")
	assert.False(t, ok)
}

func TestSubModEffectivePath(t *testing.T) {
	s := SubMod{Name: "A", Path: "A"}
	assert.Equal(t, "A", s.EffectivePath())

	s.Disabled = true
	assert.Equal(t, ".disabled/A", s.EffectivePath())
}

func TestLoadNormalizesSentinelPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"mods": {
			"Old": {
				"package": "Old",
				"version": "1.0.0",
				"mods": [{"name": "Old.Sub", "path": ".disabled/Old.Sub"}]
			}
		}
	}`), 0644))

	idx, err := Load(path)
	require.NoError(t, err)

	sub := idx.Mods["Old"].Mods[0]
	assert.Equal(t, "Old.Sub", sub.Path)
	assert.True(t, sub.Disabled)
	assert.Equal(t, ".disabled/Old.Sub", sub.EffectivePath())
}

func TestParentDir(t *testing.T) {
	idx := New("/game/R2Northstar/mods/installed.json")
	assert.Equal(t, "/game/R2Northstar/mods", idx.ParentDir())
}

func TestFindSubmod(t *testing.T) {
	idx := New(filepath.Join(t.TempDir(), "installed.json"))
	idx.Mods["Server_Utilities"] = &LocalMod{
		Package: "Server_Utilities",
		Version: "1.4.2",
		Mods: []SubMod{
			{Name: "Fifty.ServerUtilities", Path: "Fifty.ServerUtilities"},
		},
	}

	owner, sub, ok := idx.FindSubmod("fifty.serverutilities")
	require.True(t, ok)
	assert.Equal(t, "Server_Utilities", owner.Package)
	assert.Equal(t, "Fifty.ServerUtilities", sub.Name)

	// The returned pointer aliases the index record.
	sub.Disabled = true
	assert.True(t, idx.Mods["Server_Utilities"].Mods[0].Disabled)

	_, _, ok = idx.FindSubmod("unknown")
	assert.False(t, ok)
}
