package install

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embermod/ember/internal/cli"
	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/thunderstore"
)

// NewCommand creates the install command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "install <name|modstring>...",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE:    run,
	}

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	app, err := cli.FromCommand(cmd)
	if err != nil {
		return err
	}
	app.EnableProgress()

	catalog, err := app.FetchCatalog(cmd.Context())
	if err != nil {
		return err
	}

	var runErr error
	for _, arg := range args {
		pkg, version, err := resolveArg(app, catalog, arg)
		if err != nil {
			runErr = err
			break
		}
		if version == "" {
			version = pkg.Latest
		}

		inst, err := app.Manager.InstallPackage(cmd.Context(), catalog, pkg, version, app.Index)
		if err != nil {
			runErr = err
			break
		}
		fmt.Printf("Installed %s %s (%d submods)\n", inst.Package, inst.Version, len(inst.Submods))
	}

	// Earlier installs in the batch are already on disk; persist their
	// records even when a later one failed.
	if err := app.SaveIndex(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// resolveArg accepts either a full modstring pinning a version or a bare
// package name meaning latest.
func resolveArg(app *cli.App, catalog []*thunderstore.Package, arg string) (*thunderstore.Package, string, error) {
	if app.Parser.Validate(arg) {
		ms, err := app.Parser.Parse(arg)
		if err != nil {
			return nil, "", err
		}
		pkg := thunderstore.FindPackage(catalog, ms.Name)
		if pkg == nil {
			return nil, "", errors.Newf(errors.ErrNotFound, "package %q not found in the catalog", ms.Name)
		}
		return pkg, ms.Version.String(), nil
	}

	pkg := thunderstore.FindPackage(catalog, arg)
	if pkg == nil {
		return nil, "", errors.Newf(errors.ErrNotFound, "package %q not found in the catalog", arg)
	}
	return pkg, "", nil
}
