package cachecmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embermod/ember/internal/cli"
)

// NewCommand creates the cache command and its subcommands
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "misc",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached archive",
		RunE:  runClear,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory",
		RunE:  runDir,
	})

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	app, err := cli.FromCommand(cmd)
	if err != nil {
		return err
	}

	removed, err := app.Cache.Clear()
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d cached archive(s)\n", removed)
	return nil
}

func runDir(cmd *cobra.Command, args []string) error {
	app, err := cli.FromCommand(cmd)
	if err != nil {
		return err
	}
	fmt.Println(app.Cache.Dir())
	return nil
}
