// Package thunderstore is a client for the Thunderstore package catalog:
// it fetches the community package index and downloads release archives.
package thunderstore

import (
	"encoding/json"
	"fmt"
)

// Package is one catalog entry with all of its published versions.
type Package struct {
	Name   string
	Author string
	// Latest is the version key of the newest published version.
	Latest string
	// Versions maps version strings to version records. VersionOrder keeps
	// the catalog's own ordering (newest first).
	Versions     map[string]*PackageVersion
	VersionOrder []string

	// Extra holds catalog fields ember doesn't model. The catalog grows
	// fields over time and they must never break decoding.
	Extra map[string]json.RawMessage
}

// PackageVersion is one published version of a package.
type PackageVersion struct {
	Name        string
	Version     string
	URL         string
	Description string
	FileSize    int64
	// Deps are the raw dependency strings ("owner-name-version").
	Deps []string

	Extra map[string]json.RawMessage
}

// GetLatest returns the newest version record, or nil for an entry with no
// versions (which the catalog should never produce).
func (p *Package) GetLatest() *PackageVersion {
	return p.Versions[p.Latest]
}

// GetVersion returns a specific version record, or nil if unknown.
func (p *Package) GetVersion(version string) *PackageVersion {
	return p.Versions[version]
}

// FullName returns the canonical "author-name-version" modstring of a
// package at the given version.
func (p *Package) FullName(version string) string {
	return fmt.Sprintf("%s-%s-%s", p.Author, p.Name, version)
}

// FileSizeString renders the download size for display.
func (v *PackageVersion) FileSizeString() string {
	if v.FileSize >= 1_000_000 {
		return fmt.Sprintf("%.2f MB", float64(v.FileSize)/1_048_576)
	}
	return fmt.Sprintf("%.2f KB", float64(v.FileSize)/1024)
}
