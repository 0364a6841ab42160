package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/modstring"
	"github.com/embermod/ember/pkg/thunderstore"
)

func catalog(names ...string) []*thunderstore.Package {
	var pkgs []*thunderstore.Package
	for _, n := range names {
		pkgs = append(pkgs, &thunderstore.Package{Name: n, Author: "author", Latest: "1.0.0"})
	}
	return pkgs
}

func TestResolve(t *testing.T) {
	parser := modstring.NewParser()
	cat := catalog("RealDep", "OtherDep")

	resolved, err := Resolve([]string{"author-RealDep-1.0.0"}, cat, parser)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "RealDep", resolved[0].Name)
}

func TestResolveMissingFailsWhole(t *testing.T) {
	parser := modstring.NewParser()
	cat := catalog("RealDep")

	resolved, err := Resolve([]string{"author-RealDep-1.0.0", "author-Missing-1.0.0"}, cat, parser)
	require.Error(t, err)
	assert.Nil(t, resolved)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDependency))
	assert.Contains(t, err.Error(), "author-Missing-1.0.0")
}

func TestResolveSkipsCoreFramework(t *testing.T) {
	parser := modstring.NewParser()

	// The core framework need not be in the catalog at all.
	resolved, err := Resolve([]string{"Northstar-Northstar-1.0.0"}, catalog(), parser)
	require.NoError(t, err)
	assert.Empty(t, resolved)

	resolved, err = Resolve([]string{"northstar-Northstar-1.9.7"}, catalog("RealDep"), parser)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestResolveMalformed(t *testing.T) {
	parser := modstring.NewParser()

	_, err := Resolve([]string{"nodashes"}, catalog("RealDep"), parser)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDependency))
	assert.Contains(t, err.Error(), "nodashes")
}

func TestResolveExactNameMatch(t *testing.T) {
	parser := modstring.NewParser()

	_, err := Resolve([]string{"author-realdep-1.0.0"}, catalog("RealDep"), parser)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDependency))
}
