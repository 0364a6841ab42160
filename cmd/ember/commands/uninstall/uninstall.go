package uninstall

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embermod/ember/internal/cli"
)

// NewCommand creates the uninstall command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall <name>...",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE:    run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	app, err := cli.FromCommand(cmd)
	if err != nil {
		return err
	}

	removeErr := app.Manager.Installer.Uninstall(app.Index, args...)

	// Persist whatever did come out, even when part of the batch failed.
	if err := app.SaveIndex(); err != nil {
		return err
	}
	if removeErr != nil {
		return removeErr
	}

	fmt.Printf("Uninstalled %d mod(s)\n", len(args))
	return nil
}
