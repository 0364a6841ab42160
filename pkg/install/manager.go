package install

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/embermod/ember/pkg/cache"
	"github.com/embermod/ember/pkg/deps"
	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/index"
	"github.com/embermod/ember/pkg/modstring"
	"github.com/embermod/ember/pkg/thunderstore"
)

// rootLocks serializes the filesystem-mutating phase per install root.
// Downloads may run concurrently; two installs racing on the same submod
// paths may not.
var rootLocks sync.Map

func lockRoot(root string) func() {
	mu, _ := rootLocks.LoadOrStore(root, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

// Manager ties the catalog client, the archive cache, the installer and
// the local index together into whole-package operations.
type Manager struct {
	Client    *thunderstore.Client
	Cache     *cache.Cache
	Installer *Installer
	Parser    *modstring.Parser

	// Progress, when set, receives download progress.
	Progress thunderstore.ProgressFunc
}

// NewManager wires a Manager from its parts.
func NewManager(client *thunderstore.Client, c *cache.Cache, parser *modstring.Parser) *Manager {
	return &Manager{
		Client:    client,
		Cache:     c,
		Installer: NewInstaller(parser),
		Parser:    parser,
	}
}

// InstallPackage installs one catalog package at the given version (empty
// means latest) into the index's install root: validate its dependencies
// against the catalog, fetch the archive (cache hit or download), run the
// reconciler, record the result, and prune superseded cache entries.
func (m *Manager) InstallPackage(ctx context.Context, catalog []*thunderstore.Package, pkg *thunderstore.Package, version string, idx *index.LocalIndex) (*Installed, error) {
	if version == "" {
		version = pkg.Latest
	}
	ver := pkg.GetVersion(version)
	if ver == nil {
		return nil, errors.Newf(errors.ErrNotFound, "package %s has no version %s", pkg.Name, version)
	}

	resolved, err := deps.Resolve(ver.Deps, catalog, m.Parser)
	if err != nil {
		return nil, err
	}
	depNames := make([]string, 0, len(resolved))
	for _, d := range resolved {
		depNames = append(depNames, d.Name)
	}

	modStr := pkg.FullName(version)
	ms, err := m.Parser.Parse(modStr)
	if err != nil {
		return nil, err
	}

	archivePath, ok := m.Cache.Get(ms.Name, version)
	if !ok {
		archivePath = filepath.Join(m.Cache.Dir(), ms.CacheFileName())
		if err := m.Client.DownloadFile(ctx, ver.URL, archivePath, m.Progress); err != nil {
			return nil, err
		}
		if err := m.Cache.Add(archivePath); err != nil {
			return nil, err
		}
	}

	unlock := lockRoot(idx.ParentDir())
	defer unlock()

	inst, err := m.Installer.Install(modStr, archivePath, idx.ParentDir())
	if err != nil {
		return nil, err
	}
	m.Installer.Record(idx, inst, depNames)

	if _, err := m.Cache.Clean(ms.Name, version); err != nil {
		return inst, err
	}
	return inst, nil
}

// UpdateOutdated installs the latest version of every outdated package.
// Per-package failures are logged and skipped so one broken package cannot
// block the rest of the batch; the first error is returned at the end.
func (m *Manager) UpdateOutdated(ctx context.Context, catalog []*thunderstore.Package, idx *index.LocalIndex) ([]*Installed, error) {
	var firstErr error
	var installed []*Installed
	for _, pkg := range GetOutdated(catalog, idx) {
		inst, err := m.InstallPackage(ctx, catalog, pkg, "", idx)
		if err != nil {
			m.Installer.logger.Error().Err(err).Str("mod", pkg.Name).Msg("Failed to update mod")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		installed = append(installed, inst)
	}
	return installed, firstErr
}
