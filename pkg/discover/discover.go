// Package discover locates installable submods inside an extracted package
// tree. Packages have no fixed shape: some nest several submods under a
// conventional "mods" folder, others ship exactly one submod directory at
// the archive root.
package discover

import (
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/logging"
	"github.com/embermod/ember/pkg/modfile"
)

// Submod is one discovered installable unit.
type Submod struct {
	// Name comes from the descriptor's Name field, falling back to the
	// directory name when the descriptor is unreadable or unnamed.
	Name string
	// Path is the submod's directory relative to the extraction root,
	// always slash-separated.
	Path string
}

// ModsDir is the conventional folder multiple submods nest under.
const ModsDir = "mods"

// FindSubmods walks root for mod.json descriptors at any depth and maps
// each to its submod directory: the descriptor's top-level ancestor, or one
// level deeper when that ancestor is the conventional "mods" folder. An
// archive with no descriptors fails with NO_MOD_DIRECTORY. Results are
// sorted by name so persisted ordering is deterministic across platforms.
func FindSubmods(root string) ([]Submod, error) {
	logger := logging.GetLogger("discover")

	matches, err := doublestar.Glob(os.DirFS(root), "**/"+modfile.ModJSONName)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to scan %s for descriptors", root)
	}

	seen := make(map[string]bool)
	var submods []Submod
	for _, m := range matches {
		rel, ok := submodRoot(m)
		if !ok {
			logger.Debug().Str("descriptor", m).Msg("Skipping descriptor with no submod directory")
			continue
		}
		if seen[rel] {
			continue
		}
		seen[rel] = true

		name := path.Base(rel)
		if mj, err := modfile.ReadModJSON(path.Join(root, m)); err == nil && mj.Name != "" {
			name = mj.Name
		} else if err != nil {
			logger.Warn().Err(err).Str("descriptor", m).Msg("Unreadable descriptor, using directory name")
		}

		logger.Debug().Str("name", name).Str("path", rel).Msg("Discovered submod")
		submods = append(submods, Submod{Name: name, Path: rel})
	}

	if len(submods) == 0 {
		return nil, errors.Newf(errors.ErrNoModDirectory, "no mod directory found in %s", root)
	}

	sort.Slice(submods, func(i, j int) bool {
		return strings.ToLower(submods[i].Name) < strings.ToLower(submods[j].Name)
	})
	return submods, nil
}

// submodRoot maps a descriptor path (slash-separated, relative to the
// extraction root) to its submod directory.
func submodRoot(descriptor string) (string, bool) {
	segs := strings.Split(descriptor, "/")
	if len(segs) < 2 {
		// A descriptor sitting at the archive root names nothing
		// installable.
		return "", false
	}
	if segs[0] == ModsDir {
		if len(segs) < 3 {
			return "", false
		}
		return path.Join(segs[0], segs[1]), true
	}
	return segs[0], true
}

// InstallPath strips the conventional "mods" prefix from a discovered
// submod path, yielding the directory name the submod occupies under the
// install root.
func InstallPath(rel string) string {
	if rel == ModsDir {
		return ""
	}
	return strings.TrimPrefix(rel, ModsDir+"/")
}
