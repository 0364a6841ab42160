// Package modfile contains the file formats ember reads and writes inside
// mod packages and the game directory: the per-submod mod.json descriptor,
// the package manifest.json, and Northstar's enabledmods.json.
package modfile

import (
	"encoding/json"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/embermod/ember/pkg/errors"
)

// ModJSONName is the file name of the per-submod descriptor.
const ModJSONName = "mod.json"

// ModJSON is a submod's descriptor. Mod authors hand-write these, often
// with comments and trailing commas, so parsing is JSON5-tolerant.
// Unrecognized keys are kept verbatim in Extra.
type ModJSON struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
	Version     string `json:"Version"`

	Extra map[string]json.RawMessage `json:"-"`
}

var modJSONKnownKeys = map[string]bool{
	"Name":        true,
	"Description": true,
	"Version":     true,
}

// ParseModJSON decodes a descriptor from raw bytes.
func ParseModJSON(data []byte) (*ModJSON, error) {
	clean := jsonc.ToJSON(data)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(clean, &fields); err != nil {
		return nil, errors.Wrap(err, errors.ErrParse, "failed to parse mod.json")
	}

	m := &ModJSON{Extra: make(map[string]json.RawMessage)}
	for key, raw := range fields {
		var dst *string
		switch key {
		case "Name":
			dst = &m.Name
		case "Description":
			dst = &m.Description
		case "Version":
			dst = &m.Version
		default:
			m.Extra[key] = raw
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, errors.Wrapf(err, errors.ErrParse, "invalid %s in mod.json", key)
		}
	}

	return m, nil
}

// ReadModJSON loads and decodes the descriptor at path.
func ReadModJSON(path string) (*ModJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrMissingFile, "no such file %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}
	return ParseModJSON(data)
}

// MarshalJSON re-merges the known fields with the preserved extras.
func (m *ModJSON) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(m.Extra)+3)
	for k, v := range m.Extra {
		if !modJSONKnownKeys[k] {
			fields[k] = v
		}
	}
	for key, val := range map[string]string{
		"Name":        m.Name,
		"Description": m.Description,
		"Version":     m.Version,
	} {
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		fields[key] = raw
	}
	return json.Marshal(fields)
}
