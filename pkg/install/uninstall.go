package install

import (
	"errors"
	"os"
	"path/filepath"

	emberrs "github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/index"
)

// Uninstall removes the named packages' directories and their index
// records. A path that fails to remove as a directory gets one more
// attempt as a single file. A package that still fails is reported but
// does not abort the rest of the batch; the combined error is returned at
// the end.
func (ins *Installer) Uninstall(idx *index.LocalIndex, names ...string) error {
	root := idx.ParentDir()

	var errs []error
	for _, name := range names {
		rec, ok := idx.Mods[name]
		if !ok {
			errs = append(errs, emberrs.Newf(emberrs.ErrNotFound, "mod %q is not installed", name))
			continue
		}

		failed := false
		for _, sub := range rec.Mods {
			path := filepath.Join(root, filepath.FromSlash(sub.EffectivePath()))
			if err := removePath(path); err != nil {
				ins.logger.Error().Err(err).Str("path", path).Msg("Failed to remove submod")
				errs = append(errs, err)
				failed = true
			}
		}
		if failed {
			continue
		}

		delete(idx.Mods, name)
		ins.logger.Info().Str("mod", name).Msg("Uninstalled mod")
	}

	return errors.Join(errs...)
}

// removePath removes a directory tree, falling back to single-file removal
// for entries that turn out not to be directories. A path that is already
// gone counts as removed.
func removePath(path string) error {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(path); err == nil {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return emberrs.Wrapf(err, emberrs.ErrFileAccess, "failed to remove %s", path)
	}
	return nil
}
