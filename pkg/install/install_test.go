package install

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/index"
	"github.com/embermod/ember/pkg/modstring"
	"github.com/embermod/ember/pkg/testutil"
)

const testManifest = `{"name":"Server_Utilities","version_number":"1.4.2","website_url":"","description":"utilities","dependencies":[]}`

func writeArchive(t *testing.T, dir string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, "Server_Utilities_1.4.2.zip")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func newTestInstaller() *Installer {
	return NewInstaller(modstring.NewParser())
}

func TestInstallSingleSubmod(t *testing.T) {
	work := t.TempDir()
	root := filepath.Join(work, "mods")
	data := testutil.ModArchive(t, testManifest, "Fifty.ServerUtilities", `{"Name":"Fifty.ServerUtilities","Version":"1.4.2"}`)
	zipPath := writeArchive(t, work, data)

	inst, err := newTestInstaller().Install("Fifty-Server_Utilities-1.4.2", zipPath, root)
	require.NoError(t, err)

	assert.Equal(t, "Server_Utilities", inst.Package)
	assert.Equal(t, "Fifty", inst.Author)
	assert.Equal(t, "1.4.2", inst.Version)
	require.Len(t, inst.Submods, 1)
	assert.Equal(t, "Fifty.ServerUtilities", inst.Submods[0].Path)

	perm := filepath.Join(root, "Fifty.ServerUtilities")
	require.Equal(t, []string{perm}, inst.Paths)

	// Descriptor, copied manifest and author marker all exist.
	assert.FileExists(t, filepath.Join(perm, "mod.json"))
	assert.FileExists(t, filepath.Join(perm, "manifest.json"))
	author, err := os.ReadFile(filepath.Join(perm, "thunderstore_author.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Fifty", string(author))

	// Scratch directories are gone.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Fifty.ServerUtilities", entries[0].Name())
}

func TestInstallMultipleSubmods(t *testing.T) {
	work := t.TempDir()
	root := filepath.Join(work, "mods")
	data := testutil.NewZip().
		Add("manifest.json", testManifest).
		Add("mods/Alpha/mod.json", `{"Name":"Pack.Alpha"}`).
		Add("mods/Beta/mod.json", `{"Name":"Pack.Beta"}`).
		Bytes(t)
	zipPath := writeArchive(t, work, data)

	inst, err := newTestInstaller().Install("Fifty-Server_Utilities-1.4.2", zipPath, root)
	require.NoError(t, err)

	require.Len(t, inst.Submods, 2)
	assert.DirExists(t, filepath.Join(root, "Alpha"))
	assert.DirExists(t, filepath.Join(root, "Beta"))
}

func TestInstallSingleRootDirArchive(t *testing.T) {
	// No "mods" folder: the submod directory sits at the archive root.
	work := t.TempDir()
	root := filepath.Join(work, "mods")
	data := testutil.NewZip().
		Add("OnlyMod/mod.json", `{"Name":"Author.OnlyMod"}`).
		Bytes(t)
	zipPath := writeArchive(t, work, data)

	inst, err := newTestInstaller().Install("Fifty-Server_Utilities-1.4.2", zipPath, root)
	require.NoError(t, err)
	require.Len(t, inst.Submods, 1)
	assert.DirExists(t, filepath.Join(root, "OnlyMod"))
}

func TestInstallReplacesPriorInstall(t *testing.T) {
	work := t.TempDir()
	root := filepath.Join(work, "mods")
	testutil.CreateFile(t, root, "Fifty.ServerUtilities/stale.txt", "left over from 1.4.1")

	data := testutil.ModArchive(t, testManifest, "Fifty.ServerUtilities", `{"Name":"Fifty.ServerUtilities"}`)
	zipPath := writeArchive(t, work, data)

	_, err := newTestInstaller().Install("Fifty-Server_Utilities-1.4.2", zipPath, root)
	require.NoError(t, err)

	// No merge: the stale file is gone.
	assert.NoFileExists(t, filepath.Join(root, "Fifty.ServerUtilities", "stale.txt"))
	assert.FileExists(t, filepath.Join(root, "Fifty.ServerUtilities", "mod.json"))
}

func TestInstallNoModDirectory(t *testing.T) {
	work := t.TempDir()
	data := testutil.NewZip().
		Add("readme.txt", "no dirs at all").
		Bytes(t)
	zipPath := writeArchive(t, work, data)

	_, err := newTestInstaller().Install("Fifty-Server_Utilities-1.4.2", zipPath, filepath.Join(work, "mods"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoModDirectory))
}

func TestInstallInvalidModstring(t *testing.T) {
	work := t.TempDir()
	data := testutil.ModArchive(t, testManifest, "X", `{"Name":"X"}`)
	zipPath := writeArchive(t, work, data)

	_, err := newTestInstaller().Install("not a modstring", zipPath, filepath.Join(work, "mods"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidName))
}

func TestInstallSanityFailed(t *testing.T) {
	work := t.TempDir()
	data := testutil.ModArchive(t, testManifest, "X", `{"Name":"X"}`)
	zipPath := writeArchive(t, work, data)

	reject := func(r io.ReaderAt, size int64) error {
		return errors.New(errors.ErrSanity, "rejected by test")
	}
	_, err := newTestInstaller().InstallWithSanity("Fifty-Server_Utilities-1.4.2", zipPath, filepath.Join(work, "mods"), reject)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSanity))
}

func TestInstallNotAZip(t *testing.T) {
	work := t.TempDir()
	zipPath := filepath.Join(work, "Server_Utilities_1.4.2.zip")
	require.NoError(t, os.WriteFile(zipPath, []byte("html error page, not a zip"), 0644))

	_, err := newTestInstaller().Install("Fifty-Server_Utilities-1.4.2", zipPath, filepath.Join(work, "mods"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSanity))
}

func TestInstallMissingArchive(t *testing.T) {
	work := t.TempDir()
	_, err := newTestInstaller().Install("Fifty-Server_Utilities-1.4.2", filepath.Join(work, "gone.zip"), work)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingFile))
}

func installVersion(t *testing.T, ins *Installer, idx *index.LocalIndex, version, submodName string) *Installed {
	t.Helper()
	work := t.TempDir()
	data := testutil.ModArchive(t, testManifest, submodName, `{"Name":"`+submodName+`"}`)
	zipPath := writeArchive(t, work, data)

	inst, err := ins.Install("Fifty-Server_Utilities-"+version, zipPath, idx.ParentDir())
	require.NoError(t, err)
	ins.Record(idx, inst, nil)
	return inst
}

func TestRecordFreshInstall(t *testing.T) {
	root := t.TempDir()
	idx := index.New(filepath.Join(root, "installed.json"))
	ins := newTestInstaller()

	installVersion(t, ins, idx, "1.4.2", "Fifty.ServerUtilities")

	rec, ok := idx.GetMod("Server_Utilities")
	require.True(t, ok)
	assert.Equal(t, "1.4.2", rec.Version)
	require.Len(t, rec.Mods, 1)
	assert.False(t, rec.Mods[0].Disabled)
}

func TestUpdatePreservesDisabledState(t *testing.T) {
	root := t.TempDir()
	idx := index.New(filepath.Join(root, "installed.json"))
	ins := newTestInstaller()

	installVersion(t, ins, idx, "1.4.2", "Fifty.ServerUtilities")

	// User disables the submod; the directory moves under the sentinel.
	rec := idx.Mods["Server_Utilities"]
	moved, err := ins.Disable(root, &rec.Mods[0])
	require.NoError(t, err)
	require.True(t, moved)
	disabledPath := filepath.Join(root, ".disabled", "Fifty.ServerUtilities")
	require.DirExists(t, disabledPath)

	// Update to a new version.
	installVersion(t, ins, idx, "1.5.0", "Fifty.ServerUtilities")

	rec = idx.Mods["Server_Utilities"]
	assert.Equal(t, "1.5.0", rec.Version)
	require.Len(t, rec.Mods, 1)
	assert.True(t, rec.Mods[0].Disabled)

	// Still physically at the original disabled-marker path, and not at
	// the enabled location.
	assert.DirExists(t, disabledPath)
	assert.NoDirExists(t, filepath.Join(root, "Fifty.ServerUtilities"))

	// The relocated directory holds the new version's files.
	assert.FileExists(t, filepath.Join(disabledPath, "thunderstore_author.txt"))
}

func TestUpdateKeepsEnabledSubmodsInPlace(t *testing.T) {
	root := t.TempDir()
	idx := index.New(filepath.Join(root, "installed.json"))
	ins := newTestInstaller()

	installVersion(t, ins, idx, "1.4.2", "Fifty.ServerUtilities")
	installVersion(t, ins, idx, "1.5.0", "Fifty.ServerUtilities")

	rec := idx.Mods["Server_Utilities"]
	assert.Equal(t, "1.5.0", rec.Version)
	assert.False(t, rec.Mods[0].Disabled)
	assert.DirExists(t, filepath.Join(root, "Fifty.ServerUtilities"))
	assert.NoDirExists(t, filepath.Join(root, ".disabled"))
}

func TestUninstall(t *testing.T) {
	root := t.TempDir()
	idx := index.New(filepath.Join(root, "installed.json"))
	ins := newTestInstaller()

	installVersion(t, ins, idx, "1.4.2", "Fifty.ServerUtilities")
	require.DirExists(t, filepath.Join(root, "Fifty.ServerUtilities"))

	require.NoError(t, ins.Uninstall(idx, "Server_Utilities"))
	assert.NoDirExists(t, filepath.Join(root, "Fifty.ServerUtilities"))
	_, ok := idx.GetMod("Server_Utilities")
	assert.False(t, ok)
}

func TestUninstallBatchContinuesPastFailures(t *testing.T) {
	root := t.TempDir()
	idx := index.New(filepath.Join(root, "installed.json"))
	ins := newTestInstaller()

	installVersion(t, ins, idx, "1.4.2", "Fifty.ServerUtilities")

	err := ins.Uninstall(idx, "NotInstalled", "Server_Utilities")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	// The valid package in the batch was still removed.
	_, ok := idx.GetMod("Server_Utilities")
	assert.False(t, ok)
}

func TestUninstallRemovesDisabledSubmods(t *testing.T) {
	root := t.TempDir()
	idx := index.New(filepath.Join(root, "installed.json"))
	ins := newTestInstaller()

	installVersion(t, ins, idx, "1.4.2", "Fifty.ServerUtilities")
	rec := idx.Mods["Server_Utilities"]
	_, err := ins.Disable(root, &rec.Mods[0])
	require.NoError(t, err)

	require.NoError(t, ins.Uninstall(idx, "Server_Utilities"))
	assert.NoDirExists(t, filepath.Join(root, ".disabled", "Fifty.ServerUtilities"))
}

func TestDisableEnableRoundTrip(t *testing.T) {
	root := t.TempDir()
	idx := index.New(filepath.Join(root, "installed.json"))
	ins := newTestInstaller()

	installVersion(t, ins, idx, "1.4.2", "Fifty.ServerUtilities")
	sub := &idx.Mods["Server_Utilities"].Mods[0]

	moved, err := ins.Disable(root, sub)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.True(t, sub.Disabled)
	assert.DirExists(t, filepath.Join(root, ".disabled", "Fifty.ServerUtilities"))

	// Disabling again is a no-op.
	moved, err = ins.Disable(root, sub)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = ins.Enable(root, sub)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.False(t, sub.Disabled)
	assert.DirExists(t, filepath.Join(root, "Fifty.ServerUtilities"))

	moved, err = ins.Enable(root, sub)
	require.NoError(t, err)
	assert.False(t, moved)
}
