package update

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embermod/ember/internal/cli"
	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/thunderstore"
)

// NewCommand creates the update command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "update [name...]",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		RunE:    run,
	}
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

	if len(args) == 0 {
		installed, err := app.Manager.UpdateOutdated(cmd.Context(), catalog, app.Index)
		if saveErr := app.SaveIndex(); saveErr != nil && err == nil {
			err = saveErr
		}
		if err != nil {
			return err
		}
		if len(installed) == 0 {
			fmt.Println("Everything is up to date")
			return nil
		}
		for _, inst := range installed {
			fmt.Printf("Updated %s to %s\n", inst.Package, inst.Version)
		}
		return nil
	}

	var runErr error
	for _, name := range args {
		if _, ok := app.Index.GetMod(name); !ok {
			runErr = errors.Newf(errors.ErrNotFound, "mod %q is not installed", name)
			break
		}
		pkg := thunderstore.FindPackage(catalog, name)
		if pkg == nil {
			runErr = errors.Newf(errors.ErrNotFound, "package %q not found in the catalog", name)
			break
		}
		inst, err := app.Manager.InstallPackage(cmd.Context(), catalog, pkg, "", app.Index)
		if err != nil {
			runErr = err
			break
		}
		fmt.Printf("Updated %s to %s\n", inst.Package, inst.Version)
	}

	// Earlier updates in the batch are already on disk; persist their
	// records even when a later one failed.
	if err := app.SaveIndex(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
