package list

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/embermod/ember/internal/cli"
)

// NewCommand creates the list command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE:    run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	app, err := cli.FromCommand(cmd)
	if err != nil {
		return err
	}

	if len(app.Index.Mods) == 0 {
		fmt.Println("No mods installed")
		return nil
	}

	names := make([]string, 0, len(app.Index.Mods))
	for name := range app.Index.Mods {
		names = append(names, name)
	}
	sort.Slice(names, func(a, b int) bool {
		return strings.ToLower(names[a]) < strings.ToLower(names[b])
	})

	rows := pterm.TableData{{"NAME", "VERSION", "SUBMODS"}}
	for _, name := range names {
		m := app.Index.Mods[name]
		subs := make([]string, 0, len(m.Mods))
		for _, sub := range m.Mods {
			label := sub.Name
			if sub.Disabled {
				label += " (disabled)"
			}
			subs = append(subs, label)
		}
		rows = append(rows, []string{m.Package, m.Version, strings.Join(subs, ", ")})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
