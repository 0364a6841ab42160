package install

import (
	"os"
	"path/filepath"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/index"
)

// Disable relocates a submod under the disabled-marker directory and flips
// its record. It reports false without touching anything when the submod
// is already disabled. The record is only updated after the move succeeds,
// so index and filesystem cannot disagree.
func (ins *Installer) Disable(root string, m *index.SubMod) (bool, error) {
	if m.Disabled {
		return false, nil
	}

	oldPath := filepath.Join(root, filepath.FromSlash(m.EffectivePath()))

	m.Disabled = true
	newPath := filepath.Join(root, filepath.FromSlash(m.EffectivePath()))
	m.Disabled = false

	if err := os.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(newPath))
	}
	ins.logger.Debug().Str("from", oldPath).Str("to", newPath).Msg("Disabling submod")
	if err := os.Rename(oldPath, newPath); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to move %s", oldPath)
	}

	m.Disabled = true
	return true, nil
}

// Enable is the inverse of Disable.
func (ins *Installer) Enable(root string, m *index.SubMod) (bool, error) {
	if !m.Disabled {
		return false, nil
	}

	oldPath := filepath.Join(root, filepath.FromSlash(m.EffectivePath()))

	m.Disabled = false
	newPath := filepath.Join(root, filepath.FromSlash(m.EffectivePath()))
	m.Disabled = true

	ins.logger.Debug().Str("from", oldPath).Str("to", newPath).Msg("Enabling submod")
	if err := os.Rename(oldPath, newPath); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to move %s", oldPath)
	}

	m.Disabled = false
	return true, nil
}
