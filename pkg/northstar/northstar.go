// Package northstar installs the Northstar client itself into a Titanfall 2
// directory. Unlike mods, the release archive is laid out under a top-level
// "Northstar/" folder whose contents belong directly in the game root.
package northstar

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/embermod/ember/pkg/cache"
	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/logging"
	"github.com/embermod/ember/pkg/modfile"
	"github.com/embermod/ember/pkg/thunderstore"
)

// PackageName is the catalog name of the Northstar release package.
const PackageName = "Northstar"

// prefixDir is the top-level folder inside release archives.
const prefixDir = "Northstar"

var logger = logging.GetLogger("northstar")

// Install fetches the given version of Northstar (empty for latest) and
// unpacks it into gamePath. The archive is cached like any other package.
// Returns the version that was installed.
func Install(ctx context.Context, client *thunderstore.Client, c *cache.Cache, catalog []*thunderstore.Package, gamePath, version string, progress thunderstore.ProgressFunc) (string, error) {
	pkg := thunderstore.FindPackage(catalog, PackageName)
	if pkg == nil {
		return "", errors.Newf(errors.ErrNotFound, "package %q not found in the catalog", PackageName)
	}
	if version == "" {
		version = pkg.Latest
	}
	ver := pkg.GetVersion(version)
	if ver == nil {
		return "", errors.Newf(errors.ErrNotFound, "package %s has no version %s", pkg.Name, version)
	}

	archivePath, ok := c.Get(pkg.Name, version)
	if !ok {
		archivePath = filepath.Join(c.Dir(), pkg.Name+"_"+version+".zip")
		if err := client.DownloadFile(ctx, ver.URL, archivePath, progress); err != nil {
			return "", err
		}
		if err := c.Add(archivePath); err != nil {
			return "", err
		}
	}

	if err := extractRelease(archivePath, gamePath); err != nil {
		return "", err
	}
	if err := seedEnabledMods(gamePath); err != nil {
		return "", err
	}

	if _, err := c.Clean(pkg.Name, version); err != nil {
		return version, err
	}

	logger.Info().Str("version", version).Str("path", gamePath).Msg("Installed Northstar")
	return version, nil
}

// seedEnabledMods writes an all-enabled enabledmods.json into the game's
// mods directory when none exists. An existing file is the user's and is
// left untouched, unparsable or not.
func seedEnabledMods(gamePath string) error {
	modsDir := filepath.Join(gamePath, "R2Northstar", "mods")
	path := filepath.Join(modsDir, modfile.EnabledModsName)

	if _, err := modfile.LoadEnabledMods(path); err == nil || !errors.IsErrorCode(err, errors.ErrMissingFile) {
		return nil
	}

	if err := os.MkdirAll(modsDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", modsDir)
	}
	if err := modfile.DefaultEnabledMods(path).Save(); err != nil {
		return err
	}
	logger.Debug().Str("path", path).Msg("Seeded default enabled mods file")
	return nil
}

// extractRelease unpacks a Northstar release archive into the game root,
// stripping the top-level "Northstar/" folder. Entries outside that folder
// (release notes and the like) are skipped.
func extractRelease(archivePath, gamePath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", archivePath)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", archivePath)
	}

	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		return errors.Wrap(err, errors.ErrArchive, "failed to read release archive")
	}

	if err := os.MkdirAll(gamePath, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", gamePath)
	}

	for _, entry := range r.File {
		name := path.Clean(entry.Name)
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			logger.Warn().Str("entry", entry.Name).Msg("Skipping unsafe archive entry")
			continue
		}
		rel, ok := strings.CutPrefix(name, prefixDir+"/")
		if !ok || rel == "" {
			continue
		}

		out := filepath.Join(gamePath, filepath.FromSlash(rel))
		if strings.HasSuffix(entry.Name, "/") {
			if err := os.MkdirAll(out, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", out)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(out))
		}
		if err := writeEntry(entry, out); err != nil {
			return err
		}
		logger.Trace().Str("file", out).Msg("Wrote release file")
	}

	return nil
}

func writeEntry(entry *zip.File, out string) error {
	rc, err := entry.Open()
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchive, "failed to open archive entry %s", entry.Name)
	}
	defer func() { _ = rc.Close() }()

	dst, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", out)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, rc); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", out)
	}
	return nil
}
