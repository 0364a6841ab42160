// Package cache tracks downloaded mod archives on disk, keyed by package
// name and version, and prunes versions superseded by an update.
package cache

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/logging"
)

type key struct {
	name    string
	version string
}

// Cache is an in-memory view over a cache directory's archive files.
type Cache struct {
	dir     string
	entries map[key]string
}

// fileNamePattern matches "name_X.Y.Z.zip", "name-X.Y.Z.zip" and the same
// without the extension. Names may themselves contain separators, so the
// version match anchors at the end.
var fileNamePattern = regexp.MustCompile(`^(.+)[_-](\d+\.\d+\.\d+)(?:\.zip)?$`)

// Build scans dir and indexes every file whose name parses as a cache
// entry. Unparsable names are logged and skipped. A missing dir is created
// empty.
func Build(dir string) (*Cache, error) {
	logger := logging.GetLogger("cache")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create cache directory %s", dir)
	}

	listing, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read cache directory %s", dir)
	}

	c := &Cache{dir: dir, entries: make(map[key]string)}
	for _, e := range listing {
		if e.IsDir() {
			continue
		}
		name, version, ok := parseFileName(e.Name())
		if !ok {
			logger.Warn().Str("file", e.Name()).Msg("Ignoring unrecognized file in cache directory")
			continue
		}
		c.entries[key{name, version}] = filepath.Join(dir, e.Name())
	}

	return c, nil
}

func parseFileName(name string) (string, string, bool) {
	m := fileNamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Check reports whether an entry matching the candidate path's file name is
// tracked.
func (c *Cache) Check(path string) bool {
	name, version, ok := parseFileName(filepath.Base(path))
	if !ok {
		return false
	}
	_, tracked := c.entries[key{name, version}]
	return tracked
}

// Get returns the tracked archive path for (name, version).
func (c *Cache) Get(name, version string) (string, bool) {
	path, ok := c.entries[key{name, version}]
	return path, ok
}

// Add registers an archive file written into the cache directory after the
// fact (normally right after a download). The file name must parse.
func (c *Cache) Add(path string) error {
	name, version, ok := parseFileName(filepath.Base(path))
	if !ok {
		return errors.Newf(errors.ErrCache, "file name %q does not parse as a cache entry", filepath.Base(path))
	}
	c.entries[key{name, version}] = path
	return nil
}

// Clear deletes every tracked archive and returns how many were removed.
// Untracked files in the directory are left alone.
func (c *Cache) Clear() (int, error) {
	logger := logging.GetLogger("cache")

	removed := 0
	for k, path := range c.entries {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, errors.Wrapf(err, errors.ErrCache, "failed to remove cached archive %s", path)
		}
		delete(c.entries, k)
		removed++
		logger.Debug().Str("name", k.name).Str("version", k.version).Msg("Removed cached archive")
	}
	return removed, nil
}

// Clean deletes every tracked archive for name whose version differs from
// keepVersion, from disk and from the index. It reports whether anything
// was removed. A file that fails to delete stays tracked and aborts the
// whole call.
func (c *Cache) Clean(name, keepVersion string) (bool, error) {
	logger := logging.GetLogger("cache")

	removed := false
	for k, path := range c.entries {
		if k.name != name || k.version == keepVersion {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return removed, errors.Wrapf(err, errors.ErrCache, "failed to remove cached archive %s", path)
		}
		delete(c.entries, k)
		removed = true
		logger.Debug().Str("name", k.name).Str("version", k.version).Msg("Pruned cached archive")
	}
	return removed, nil
}
