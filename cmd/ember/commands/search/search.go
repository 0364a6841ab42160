package search

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/embermod/ember/internal/cli"
	"github.com/embermod/ember/pkg/thunderstore"
)

// NewCommand creates the search command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "search <term>...",
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

	catalog, err := app.FetchCatalog(cmd.Context())
	if err != nil {
		return err
	}

	rows := pterm.TableData{{"NAME", "AUTHOR", "VERSION", "SIZE", "DESCRIPTION"}}
	matched := 0
	for _, pkg := range catalog {
		if !matches(pkg, args) {
			continue
		}
		latest := pkg.GetLatest()
		if latest == nil {
			continue
		}
		rows = append(rows, []string{pkg.Name, pkg.Author, latest.Version, latest.FileSizeString(), latest.Description})
		matched++
	}

	if matched == 0 {
		fmt.Println("No packages matched")
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// matches reports whether every term occurs in the package name, author or
// latest description, case-insensitively.
func matches(pkg *thunderstore.Package, terms []string) bool {
	haystack := strings.ToLower(pkg.Name + " " + pkg.Author)
	if latest := pkg.GetLatest(); latest != nil {
		haystack += " " + strings.ToLower(latest.Description)
	}
	for _, term := range terms {
		if !strings.Contains(haystack, strings.ToLower(term)) {
			return false
		}
	}
	return true
}
