// Package deps validates a package's declared dependency strings against a
// catalog snapshot. This is a single-hop lookup, not a solver: each raw
// "owner-name-version" string either resolves to a catalog entry or fails
// the whole call.
package deps

import (
	"strings"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/logging"
	"github.com/embermod/ember/pkg/modstring"
	"github.com/embermod/ember/pkg/thunderstore"
)

// CoreFrameworkName is the base modding framework every package implicitly
// depends on. Dependencies on it are not tracked: the framework is managed
// separately from mods.
const CoreFrameworkName = "Northstar"

// Resolve maps raw dependency strings to catalog entries. Dependencies on
// the core framework are skipped and never appear in the result. A
// malformed string or a name absent from the catalog fails the entire
// resolution with a DEPENDENCY error carrying the original string; no
// partial result is returned.
func Resolve(rawDeps []string, catalog []*thunderstore.Package, parser *modstring.Parser) ([]*thunderstore.Package, error) {
	logger := logging.GetLogger("deps")

	var resolved []*thunderstore.Package
	for _, raw := range rawDeps {
		name, err := parser.PackageName(raw)
		if err != nil {
			return nil, errors.Newf(errors.ErrDependency, "unresolvable dependency %q", raw).WithDetail("dep", raw)
		}
		if strings.EqualFold(name, CoreFrameworkName) {
			logger.Debug().Str("dep", raw).Msg("Skipping implicit core framework dependency")
			continue
		}

		pkg := findByName(catalog, name)
		if pkg == nil {
			return nil, errors.Newf(errors.ErrDependency, "unresolvable dependency %q", raw).WithDetail("dep", raw)
		}
		resolved = append(resolved, pkg)
	}
	return resolved, nil
}

// findByName matches by exact name, unlike the case-insensitive search used
// for user input: dependency strings come from manifests and must be exact.
func findByName(catalog []*thunderstore.Package, name string) *thunderstore.Package {
	for _, p := range catalog {
		if p.Name == name {
			return p
		}
	}
	return nil
}
