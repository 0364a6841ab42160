package install

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/embermod/ember/pkg/index"
	"github.com/embermod/ember/pkg/thunderstore"
)

// Record reconciles a completed filesystem install with the local index.
//
// For a fresh install it creates the package's record. For an update it
// bumps the version and replaces the submod list, preserving per-submod
// disabled state: each new submod paired (by case-insensitive name order)
// with a previously disabled one is physically relocated to the old
// disabled-marker path and recorded as disabled. Relocation failures are
// logged and skipped, not fatal: losing a user preference is less severe
// than losing the update.
func (ins *Installer) Record(idx *index.LocalIndex, inst *Installed, deps []string) *index.LocalMod {
	root := idx.ParentDir()

	existing, ok := idx.Mods[inst.Package]
	if !ok {
		rec := &index.LocalMod{
			Package: inst.Package,
			Version: inst.Version,
			Mods:    inst.Submods,
			Deps:    deps,
		}
		idx.Mods[inst.Package] = rec
		return rec
	}

	oldMods := sortedByName(existing.Mods)
	newMods := sortedByName(inst.Submods)

	for i := range newMods {
		if i >= len(oldMods) {
			break
		}
		old := oldMods[i]
		if !old.Disabled {
			continue
		}

		newPath := filepath.Join(root, filepath.FromSlash(newMods[i].EffectivePath()))
		oldPath := filepath.Join(root, filepath.FromSlash(old.EffectivePath()))

		// Clear whatever stale version still sits at the disabled path.
		if err := os.RemoveAll(oldPath); err != nil {
			ins.logger.Warn().Err(err).Str("path", oldPath).Msg("Failed to clear old disabled submod")
		}
		if err := os.MkdirAll(filepath.Dir(oldPath), 0755); err != nil {
			ins.logger.Warn().Err(err).Str("path", oldPath).Msg("Failed to prepare disabled directory")
			continue
		}
		if err := os.Rename(newPath, oldPath); err != nil {
			ins.logger.Warn().Err(err).
				Str("from", newPath).Str("to", oldPath).
				Msg("Unable to move submod back to its disabled path")
			continue
		}

		newMods[i].Path = old.Path
		newMods[i].Disabled = true
		ins.logger.Debug().Str("submod", newMods[i].Name).Msg("Preserved disabled state across update")
	}

	existing.Version = inst.Version
	existing.Mods = newMods
	if deps != nil {
		existing.Deps = deps
	}
	return existing
}

func sortedByName(mods []index.SubMod) []index.SubMod {
	out := make([]index.SubMod, len(mods))
	copy(out, mods)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// GetOutdated returns the catalog entries whose latest version differs from
// the installed one. Versions are compared as semver when both parse;
// otherwise a plain string mismatch counts as outdated.
func GetOutdated(catalog []*thunderstore.Package, idx *index.LocalIndex) []*thunderstore.Package {
	var outdated []*thunderstore.Package
	for _, pkg := range catalog {
		installed, ok := idx.GetMod(pkg.Name)
		if !ok {
			continue
		}
		if versionsDiffer(strings.TrimSpace(installed.Version), strings.TrimSpace(pkg.Latest)) {
			outdated = append(outdated, pkg)
		}
	}
	return outdated
}

func versionsDiffer(installed, latest string) bool {
	iv, ierr := semver.Parse(installed)
	lv, lerr := semver.Parse(latest)
	if ierr == nil && lerr == nil {
		return !iv.Equals(lv)
	}
	return installed != latest
}
