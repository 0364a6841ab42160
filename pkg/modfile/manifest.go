package modfile

import (
	"encoding/json"
	"os"

	"github.com/embermod/ember/pkg/errors"
)

// ManifestName is the file name of the package manifest shipped inside
// Thunderstore archives and copied into each installed submod.
const ManifestName = "manifest.json"

// Manifest is a Thunderstore package manifest.
type Manifest struct {
	Name          string   `json:"name"`
	VersionNumber string   `json:"version_number"`
	WebsiteURL    string   `json:"website_url"`
	Description   string   `json:"description"`
	Dependencies  []string `json:"dependencies"`
}

// ReadManifest loads and decodes the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrMissingFile, "no such file %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrParse, "failed to parse %s", path)
	}
	return &m, nil
}
