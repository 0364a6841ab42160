package modfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gohugoio/hashstructure"

	"github.com/embermod/ember/pkg/errors"
)

// EnabledModsName is the file Northstar reads to decide which mods load.
const EnabledModsName = "enabledmods.json"

// JSON keys of the three built-in Northstar components.
const (
	keyNorthstarClient        = "Northstar.Client"
	keyNorthstarCustom        = "Northstar.Custom"
	keyNorthstarCustomServers = "Northstar.CustomServers"
)

// EnabledMods tracks which core components and user submods are toggled on.
// A submod absent from the file counts as enabled. Persistence is explicit:
// callers mutate the struct and invoke Save or SaveIfChanged themselves.
type EnabledMods struct {
	NorthstarClient        bool
	NorthstarCustom        bool
	NorthstarCustomServers bool
	Mods                   map[string]bool

	// Extra holds unknown non-boolean fields, preserved verbatim on save.
	Extra map[string]json.RawMessage

	path     string
	loadHash uint64
}

// DefaultEnabledMods returns the all-enabled default state targeting path.
func DefaultEnabledMods(path string) *EnabledMods {
	e := &EnabledMods{
		NorthstarClient:        true,
		NorthstarCustom:        true,
		NorthstarCustomServers: true,
		Mods:                   make(map[string]bool),
		Extra:                  make(map[string]json.RawMessage),
		path:                   path,
	}
	e.loadHash = e.contentHash()
	return e
}

// LoadEnabledMods reads the file at path. A missing file yields a
// MISSING_FILE error; callers wanting the default state on absence should
// fall back to DefaultEnabledMods.
func LoadEnabledMods(path string) (*EnabledMods, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrMissingFile, "no such file %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Wrapf(err, errors.ErrParse, "failed to parse %s", path)
	}

	e := DefaultEnabledMods(path)
	for key, raw := range fields {
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			// Not a boolean. Keep it around so a save doesn't destroy it.
			e.Extra[key] = raw
			continue
		}
		switch key {
		case keyNorthstarClient:
			e.NorthstarClient = b
		case keyNorthstarCustom:
			e.NorthstarCustom = b
		case keyNorthstarCustomServers:
			e.NorthstarCustomServers = b
		default:
			e.Mods[key] = b
		}
	}

	e.loadHash = e.contentHash()
	return e, nil
}

// IsEnabled reports the effective state of a submod by name.
// Absence means enabled.
func (e *EnabledMods) IsEnabled(name string) bool {
	if b, ok := e.Mods[name]; ok {
		return b
	}
	return true
}

// Set records the state of a submod by name.
func (e *EnabledMods) Set(name string, enabled bool) {
	if e.Mods == nil {
		e.Mods = make(map[string]bool)
	}
	e.Mods[name] = enabled
}

// Path returns the file path this state was loaded from or targets.
func (e *EnabledMods) Path() string {
	return e.path
}

// Save writes the file to its path, creating parent directories as needed.
// It fails with MISSING_PATH when no path is set.
func (e *EnabledMods) Save() error {
	if e.path == "" {
		return errors.New(errors.ErrMissingPath, "enabledmods has no file path set")
	}

	data, err := json.MarshalIndent(e, "", "    ")
	if err != nil {
		return errors.Wrap(err, errors.ErrParse, "failed to encode enabledmods")
	}

	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(e.path))
	}
	if err := os.WriteFile(e.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", e.path)
	}

	e.loadHash = e.contentHash()
	return nil
}

// SaveIfChanged persists the file only when the contents differ from what
// was loaded. It reports whether a write happened.
func (e *EnabledMods) SaveIfChanged() (bool, error) {
	if e.contentHash() == e.loadHash {
		return false, nil
	}
	if err := e.Save(); err != nil {
		return false, err
	}
	return true, nil
}

// MarshalJSON merges the fixed keys, the open submod map and the preserved
// extras into one flat object.
func (e *EnabledMods) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(e.Mods)+len(e.Extra)+3)
	for k, v := range e.Extra {
		fields[k] = v
	}
	for name, enabled := range e.Mods {
		raw, err := json.Marshal(enabled)
		if err != nil {
			return nil, err
		}
		fields[name] = raw
	}
	for key, val := range map[string]bool{
		keyNorthstarClient:        e.NorthstarClient,
		keyNorthstarCustom:        e.NorthstarCustom,
		keyNorthstarCustomServers: e.NorthstarCustomServers,
	} {
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		fields[key] = raw
	}
	return json.Marshal(fields)
}

func (e *EnabledMods) contentHash() uint64 {
	h, err := hashstructure.Hash(struct {
		Client  bool
		Custom  bool
		Servers bool
		Mods    map[string]bool
	}{e.NorthstarClient, e.NorthstarCustom, e.NorthstarCustomServers, e.Mods}, nil)
	if err != nil {
		return 0
	}
	return h
}
