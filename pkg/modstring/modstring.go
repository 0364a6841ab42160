// Package modstring parses the canonical "author-name-X.Y.Z" identifier
// used by the Thunderstore catalog and by ember's on-disk layout.
package modstring

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/embermod/ember/pkg/errors"
)

// ModString is a parsed "author-name-X.Y.Z" identifier.
type ModString struct {
	Author  string
	Name    string
	Version semver.Version
}

// String reassembles the canonical identifier.
func (m ModString) String() string {
	return fmt.Sprintf("%s-%s-%s", m.Author, m.Name, m.Version)
}

// DirName is the directory name a package installs under, which is the
// same as the canonical identifier.
func (m ModString) DirName() string {
	return m.String()
}

// CacheFileName is the archive file name used for cache entries.
func (m ModString) CacheFileName() string {
	return fmt.Sprintf("%s_%s.zip", m.Name, m.Version)
}

// Parser validates and parses modstrings. Construct one with NewParser and
// pass it to whatever needs it; there is no package-level instance.
type Parser struct {
	re *regexp.Regexp
}

// NewParser returns a ready-to-use Parser.
func NewParser() *Parser {
	return &Parser{
		re: regexp.MustCompile(`^(\w+)-(\w+)-(\d+\.\d+\.\d+)$`),
	}
}

// Parse splits s into its author, name and version components. It fails
// with an INVALID_NAME error when s does not match the grammar.
func (p *Parser) Parse(s string) (ModString, error) {
	m := p.re.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ModString{}, errors.Newf(errors.ErrInvalidName, "invalid mod name %q, expected author-name-X.Y.Z", s)
	}

	ver, err := semver.Parse(m[3])
	if err != nil {
		return ModString{}, errors.Wrapf(err, errors.ErrInvalidName, "invalid version in mod name %q", s)
	}

	return ModString{Author: m[1], Name: m[2], Version: ver}, nil
}

// Validate reports whether s matches the modstring grammar.
func (p *Parser) Validate(s string) bool {
	_, err := p.Parse(s)
	return err == nil
}

// PackageName extracts the middle (package name) segment of a raw
// dependency string of the form "owner-name-version". The version segment
// may be absent. It fails with a DEPENDENCY error when s has fewer than
// two segments.
func (p *Parser) PackageName(s string) (string, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return "", errors.Newf(errors.ErrDependency, "malformed dependency string %q", s)
	}
	return parts[1], nil
}
