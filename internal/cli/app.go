// Package cli wires ember's packages into the runtime the commands share:
// configuration, catalog client, archive cache, local index and the install
// manager.
package cli

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/embermod/ember/pkg/cache"
	"github.com/embermod/ember/pkg/config"
	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/index"
	"github.com/embermod/ember/pkg/install"
	"github.com/embermod/ember/pkg/modstring"
	"github.com/embermod/ember/pkg/thunderstore"
)

// App is the assembled runtime behind every command.
type App struct {
	Config  *config.Config
	Client  *thunderstore.Client
	Cache   *cache.Cache
	Index   *index.LocalIndex
	Parser  *modstring.Parser
	Manager *install.Manager
}

// NewApp loads configuration and builds the full runtime. An empty
// configPath means the default config file location.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	c, err := cache.Build(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.ModsDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create mods directory %s", cfg.ModsDir)
	}
	idx, err := index.LoadOrCreate(cfg.IndexFile)
	if err != nil {
		return nil, err
	}

	client := thunderstore.NewClient(thunderstore.WithIndexURL(cfg.CatalogURL))
	parser := modstring.NewParser()
	mgr := install.NewManager(client, c, parser)

	return &App{
		Config:  cfg,
		Client:  client,
		Cache:   c,
		Index:   idx,
		Parser:  parser,
		Manager: mgr,
	}, nil
}

// FromCommand builds the App for a command invocation, honoring the
// root --config flag.
func FromCommand(cmd *cobra.Command) (*App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	return NewApp(configPath)
}

// FetchCatalog downloads the package catalog.
func (a *App) FetchCatalog(ctx context.Context) ([]*thunderstore.Package, error) {
	return a.Client.FetchIndex(ctx)
}

// SaveIndex persists the local index if it changed.
func (a *App) SaveIndex() error {
	_, err := a.Index.SaveIfChanged()
	return err
}

// EnableProgress attaches a download progress bar to the manager when
// stdout is a terminal.
func (a *App) EnableProgress() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return
	}
	var bar *pterm.ProgressbarPrinter
	a.Manager.Progress = func(delta, current, total int64) {
		if bar == nil {
			bar, _ = pterm.DefaultProgressbar.
				WithTotal(int(total)).
				WithTitle("Downloading").
				WithShowCount(false).
				Start()
		}
		if bar == nil {
			return
		}
		bar.Add(int(delta))
		if current >= total {
			_, _ = bar.Stop()
			bar = nil
		}
	}
}
