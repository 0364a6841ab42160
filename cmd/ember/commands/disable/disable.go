package disable

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embermod/ember/internal/cli"
	"github.com/embermod/ember/pkg/errors"
)

// NewCommand creates the disable command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "disable <submod>...",
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

	var runErr error
	for _, name := range args {
		_, sub, ok := app.Index.FindSubmod(name)
		if !ok {
			runErr = errors.Newf(errors.ErrNotFound, "submod %q is not installed", name)
			break
		}
		moved, err := app.Manager.Installer.Disable(app.Index.ParentDir(), sub)
		if err != nil {
			runErr = err
			break
		}
		if moved {
			fmt.Printf("Disabled %s\n", sub.Name)
		} else {
			fmt.Printf("%s is already disabled\n", sub.Name)
		}
	}

	// Earlier iterations already moved directories; persist their records
	// even when the batch stopped early.
	if err := app.SaveIndex(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
