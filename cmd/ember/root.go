// Package ember assembles the ember command tree.
package ember

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/embermod/ember/cmd/ember/commands/cachecmd"
	"github.com/embermod/ember/cmd/ember/commands/disable"
	"github.com/embermod/ember/cmd/ember/commands/enable"
	"github.com/embermod/ember/cmd/ember/commands/genconfig"
	"github.com/embermod/ember/cmd/ember/commands/install"
	"github.com/embermod/ember/cmd/ember/commands/list"
	"github.com/embermod/ember/cmd/ember/commands/northstarcmd"
	"github.com/embermod/ember/cmd/ember/commands/search"
	"github.com/embermod/ember/cmd/ember/commands/uninstall"
	"github.com/embermod/ember/cmd/ember/commands/update"
	"github.com/embermod/ember/internal/version"
	"github.com/embermod/ember/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "ember",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().String("config", "", MsgFlagConfig)

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Add all commands
	rootCmd.AddCommand(install.NewCommand())
	rootCmd.AddCommand(uninstall.NewCommand())
	rootCmd.AddCommand(update.NewCommand())
	rootCmd.AddCommand(list.NewCommand())
	rootCmd.AddCommand(search.NewCommand())
	rootCmd.AddCommand(enable.NewCommand())
	rootCmd.AddCommand(disable.NewCommand())
	rootCmd.AddCommand(northstarcmd.NewCommand())
	rootCmd.AddCommand(cachecmd.NewCommand())
	rootCmd.AddCommand(genconfig.NewCommand())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print version information",
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ember version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
