package northstarcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embermod/ember/internal/cli"
	"github.com/embermod/ember/pkg/northstar"
	"github.com/embermod/ember/pkg/steam"
)

// NewCommand creates the northstar command and its subcommands
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "northstar",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
	}

	installCmd := &cobra.Command{
		Use:   "install [version]",
		Short: "Install or update the Northstar client",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInstall,
	}
	cmd.AddCommand(installCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "find-game",
		Short: "Print the detected Titanfall 2 directory",
		Args:  cobra.NoArgs,
		RunE:  runFindGame,
	})

	return cmd
}

func runInstall(cmd *cobra.Command, args []string) error {
	app, err := cli.FromCommand(cmd)
	if err != nil {
		return err
	}
	app.EnableProgress()

	gamePath := app.Config.GameDir
	if gamePath == "" {
		// Fall back to probing the Steam libraries.
		gamePath, err = steam.TitanfallDir()
		if err != nil {
			return err
		}
	}

	version := ""
	if len(args) == 1 {
		version = args[0]
	}

	catalog, err := app.FetchCatalog(cmd.Context())
	if err != nil {
		return err
	}

	installed, err := northstar.Install(cmd.Context(), app.Client, app.Cache, catalog, gamePath, version, app.Manager.Progress)
	if err != nil {
		return err
	}
	fmt.Printf("Installed Northstar %s to %s\n", installed, gamePath)
	return nil
}

func runFindGame(cmd *cobra.Command, args []string) error {
	dir, err := steam.TitanfallDir()
	if err != nil {
		return err
	}
	fmt.Println(dir)
	return nil
}
