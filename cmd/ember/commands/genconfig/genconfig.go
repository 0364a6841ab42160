package genconfig

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embermod/ember/internal/cli"
	"github.com/embermod/ember/pkg/config"
	"github.com/embermod/ember/pkg/paths"
)

// NewCommand creates the gen-config command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "misc",
		RunE:    run,
	}

	cmd.Flags().BoolP("write", "w", false, "Write the config file instead of printing it")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	app, err := cli.FromCommand(cmd)
	if err != nil {
		return err
	}

	write, _ := cmd.Flags().GetBool("write")
	if write {
		path := paths.ConfigFile()
		if err := config.WriteDefault(app.Config, path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	}

	data, err := config.Generate(app.Config)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
