// Package index persists the record of installed packages and their
// submods. The index file is the single source of truth for "is X
// installed"; every install, update and uninstall flows through it.
package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/gohugoio/hashstructure"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/logging"
)

// LocalMod is one installed top-level package.
type LocalMod struct {
	Package string   `json:"package"`
	Version string   `json:"version"`
	Mods    []SubMod `json:"mods"`
	// Deps holds the package names this mod depends on; DependedBy the
	// reverse edges.
	Deps       []string `json:"deps,omitempty"`
	DependedBy []string `json:"depended_by,omitempty"`
}

// LocalIndex is the persisted mapping of package name to installed record,
// plus a secondary map of externally managed (linked) packages.
type LocalIndex struct {
	Mods   map[string]*LocalMod `json:"mods"`
	Linked map[string]*LocalMod `json:"linked"`

	path     string
	loadHash uint64
}

// New returns an empty index targeting path. Nothing is written until Save.
func New(path string) *LocalIndex {
	idx := &LocalIndex{
		Mods:   make(map[string]*LocalMod),
		Linked: make(map[string]*LocalMod),
		path:   path,
	}
	idx.loadHash = idx.contentHash()
	return idx
}

// Load reads the index at path. A missing file yields MISSING_FILE.
func Load(path string) (*LocalIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrMissingFile, "no such file %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	idx := New(path)
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, errors.Wrapf(err, errors.ErrParse, "failed to parse index %s", path)
	}
	if idx.Mods == nil {
		idx.Mods = make(map[string]*LocalMod)
	}
	if idx.Linked == nil {
		idx.Linked = make(map[string]*LocalMod)
	}
	for _, m := range idx.Mods {
		for i := range m.Mods {
			m.Mods[i].normalize()
		}
	}

	idx.loadHash = idx.contentHash()
	return idx, nil
}

// LoadOrCreate loads the index at path, or initializes an empty one and
// persists it immediately when absent.
func LoadOrCreate(path string) (*LocalIndex, error) {
	idx, err := Load(path)
	if err == nil {
		return idx, nil
	}
	if !errors.IsErrorCode(err, errors.ErrMissingFile) {
		return nil, err
	}

	logger := logging.GetLogger("index")
	logger.Info().Str("path", path).Msg("Creating new local index")

	idx = New(path)
	if err := idx.Save(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Path returns the index file's own path.
func (i *LocalIndex) Path() string {
	return i.path
}

// ParentDir returns the directory containing the index file, which is the
// package install root.
func (i *LocalIndex) ParentDir() string {
	return filepath.Dir(i.path)
}

// GetMod looks a package up by name in the primary map, then in the linked
// map.
func (i *LocalIndex) GetMod(name string) (*LocalMod, bool) {
	if m, ok := i.Mods[name]; ok {
		return m, true
	}
	if m, ok := i.Linked[name]; ok {
		return m, true
	}
	return nil, false
}

// FindSubmod looks a submod up by name (case-insensitive) across every
// installed package. Returns the owning package and the submod record.
func (i *LocalIndex) FindSubmod(name string) (*LocalMod, *SubMod, bool) {
	for _, m := range i.Mods {
		for j := range m.Mods {
			if strings.EqualFold(m.Mods[j].Name, name) {
				return m, &m.Mods[j], true
			}
		}
	}
	return nil, nil, false
}

// Save serializes the index as indented JSON and writes it via a sibling
// temp file plus rename, so a crash mid-write cannot truncate the previous
// index.
func (i *LocalIndex) Save() error {
	if i.path == "" {
		return errors.New(errors.ErrMissingPath, "index has no file path set")
	}

	data, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return errors.Wrap(err, errors.ErrParse, "failed to encode index")
	}

	dir := filepath.Dir(i.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(i.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to create temp index file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write temp index file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to close temp index file")
	}
	if err := os.Rename(tmpName, i.path); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to move index into place at %s", i.path)
	}

	i.loadHash = i.contentHash()
	return nil
}

// SaveIfChanged persists the index only when its contents differ from what
// was loaded. It reports whether a write happened. Callers must invoke this
// (or Save) on every exit path of a session that mutated the index.
func (i *LocalIndex) SaveIfChanged() (bool, error) {
	if i.contentHash() == i.loadHash {
		return false, nil
	}
	if err := i.Save(); err != nil {
		return false, err
	}
	return true, nil
}

func (i *LocalIndex) contentHash() uint64 {
	h, err := hashstructure.Hash(struct {
		Mods   map[string]*LocalMod
		Linked map[string]*LocalMod
	}{i.Mods, i.Linked}, nil)
	if err != nil {
		return 0
	}
	return h
}
