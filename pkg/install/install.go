// Package install is the reconciler at the center of ember: it unpacks a
// mod archive, discovers the submods inside, moves them into the install
// root, and keeps the local index and the filesystem agreeing with each
// other on every install, update and uninstall.
package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/embermod/ember/pkg/archive"
	"github.com/embermod/ember/pkg/discover"
	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/index"
	"github.com/embermod/ember/pkg/logging"
	"github.com/embermod/ember/pkg/modfile"
	"github.com/embermod/ember/pkg/modstring"
)

// AuthorFileName is the attribution marker written into every installed
// submod directory.
const AuthorFileName = "thunderstore_author.txt"

// Installer performs filesystem-level installs and reconciles them with a
// LocalIndex.
type Installer struct {
	parser *modstring.Parser
	logger zerolog.Logger
}

// NewInstaller returns an Installer using the given modstring parser.
func NewInstaller(parser *modstring.Parser) *Installer {
	return &Installer{
		parser: parser,
		logger: logging.GetLogger("install"),
	}
}

// Installed describes a completed filesystem install.
type Installed struct {
	Package string
	Author  string
	Version string
	// Submods are the installed units; Path is relative to the install
	// root (the "mods" prefix from the archive is already stripped).
	Submods []index.SubMod
	// Paths are the absolute permanent directories written.
	Paths []string
}

// Install unpacks the archive at archivePath into root under the identity
// modStr, with the default is-it-a-zip sanity check.
func (ins *Installer) Install(modStr, archivePath, root string) (*Installed, error) {
	return ins.InstallWithSanity(modStr, archivePath, root, archive.IsZip)
}

// InstallWithSanity is Install with a caller-supplied pre-install check
// over the raw archive. The operation fails with SANITY_FAILED when the
// check rejects the archive.
//
// The install is staged: every submod is prepared in a scratch directory
// and the final renames happen only after all of them succeeded. A rename
// failure rolls the already-renamed submods back, so a failed install never
// leaves a half-written package behind.
func (ins *Installer) InstallWithSanity(modStr, archivePath, root string, check archive.SanityCheck) (*Installed, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrMissingFile, "no such file %s", archivePath)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", archivePath)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", archivePath)
	}

	if check != nil {
		if err := check(f, info.Size()); err != nil {
			if errors.IsErrorCode(err, errors.ErrSanity) {
				return nil, err
			}
			return nil, errors.Wrap(err, errors.ErrSanity, "sanity check rejected archive")
		}
	}

	ms, err := ins.parser.Parse(modStr)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create install root %s", root)
	}

	// The scratch lives inside the install root so the final renames never
	// cross a filesystem boundary.
	scratch, err := archive.NewScratch(root)
	if err != nil {
		return nil, err
	}
	defer scratch.Remove()

	ins.logger.Debug().Str("mod", modStr).Str("root", root).Msg("Starting mod install")

	if err := archive.Extract(f, info.Size(), scratch.Path); err != nil {
		return nil, err
	}

	submods, err := discover.FindSubmods(scratch.Path)
	if err != nil {
		return nil, err
	}

	manifestPath := scratch.Join(modfile.ManifestName)
	hasManifest := fileExists(manifestPath)

	// Finish each submod directory in the scratch so the commit below is
	// nothing but renames.
	for _, sub := range submods {
		dir := scratch.Join(filepath.FromSlash(sub.Path))
		if hasManifest {
			if err := copyFile(manifestPath, filepath.Join(dir, modfile.ManifestName)); err != nil {
				return nil, err
			}
		}
		if err := os.WriteFile(filepath.Join(dir, AuthorFileName), []byte(ms.Author), 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write author marker in %s", dir)
		}
	}

	result := &Installed{
		Package: ms.Name,
		Author:  ms.Author,
		Version: ms.Version.String(),
	}
	if err := ins.commit(scratch, submods, root, result); err != nil {
		return nil, err
	}

	ins.logger.Info().Str("mod", modStr).Int("submods", len(result.Submods)).Msg("Installed mod")
	return result, nil
}

// commit renames every staged submod into its permanent path. Existing
// occupants are moved aside first and restored if a later rename fails.
func (ins *Installer) commit(scratch *archive.Scratch, submods []discover.Submod, root string, result *Installed) error {
	type move struct {
		sub      discover.Submod
		from     string // staged dir in scratch
		to       string // permanent dir
		rel      string // permanent path relative to root
		displace string // where a prior occupant was parked, if any
	}

	moves := make([]move, 0, len(submods))
	for _, sub := range submods {
		// Discovery never yields a bare mods-folder path today; the guard
		// keeps a future discovery change from renaming onto the root.
		rel := discover.InstallPath(sub.Path)
		if rel == "" {
			return errors.Newf(errors.ErrPathPrefix, "cannot relate submod %q to the package mods root", sub.Path)
		}
		moves = append(moves, move{
			sub:  sub,
			from: scratch.Join(filepath.FromSlash(sub.Path)),
			to:   filepath.Join(root, filepath.FromSlash(rel)),
			rel:  rel,
		})
	}

	rollback := func(done []move) {
		for i := len(done) - 1; i >= 0; i-- {
			m := done[i]
			if err := os.Rename(m.to, m.from); err != nil {
				ins.logger.Error().Err(err).Str("path", m.to).Msg("Rollback failed, leaving partial install")
				continue
			}
			if m.displace != "" {
				if err := os.Rename(m.displace, m.to); err != nil {
					ins.logger.Error().Err(err).Str("path", m.to).Msg("Failed to restore prior install during rollback")
				}
			}
		}
	}

	var done []move
	for i := range moves {
		m := &moves[i]

		// No merge with a prior installation: park it, then replace it.
		if fileExists(m.to) {
			m.displace = filepath.Join(scratch.Path, fmt.Sprintf(".displaced-%s", uuid.NewString()[:8]))
			if err := os.Rename(m.to, m.displace); err != nil {
				rollback(done)
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to replace existing install at %s", m.to)
			}
		}
		if err := os.Rename(m.from, m.to); err != nil {
			if m.displace != "" {
				if rerr := os.Rename(m.displace, m.to); rerr != nil {
					ins.logger.Error().Err(rerr).Str("path", m.to).Msg("Failed to restore prior install")
				}
			}
			rollback(done)
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to move submod into place at %s", m.to)
		}
		done = append(done, *m)
	}

	for _, m := range done {
		result.Submods = append(result.Submods, index.SubMod{Name: m.sub.Name, Path: m.rel})
		result.Paths = append(result.Paths, m.to)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", src)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", dst)
	}
	return nil
}
