// Package config loads ember's configuration: built-in defaults, then the
// user's ember.toml, then EMBER_-prefixed environment variables, each layer
// overriding the one before it.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/paths"
	"github.com/embermod/ember/pkg/thunderstore"
)

// EnvPrefix namespaces ember's environment overrides, e.g.
// EMBER_CATALOG_URL or EMBER_GAME_DIR.
const EnvPrefix = "EMBER_"

// Config is ember's effective configuration.
type Config struct {
	// GameDir is the Titanfall 2 install directory. Optional; when set and
	// ModsDir is empty, mods go to <GameDir>/R2Northstar/mods.
	GameDir string `koanf:"game_dir"`

	// ModsDir is where packages are installed and the index lives.
	ModsDir string `koanf:"mods_dir"`

	// CacheDir holds downloaded archives.
	CacheDir string `koanf:"cache_dir"`

	// IndexFile is the local install index. Defaults to
	// <ModsDir>/installed.json.
	IndexFile string `koanf:"index_file"`

	// CatalogURL is the Thunderstore package listing endpoint.
	CatalogURL string `koanf:"catalog_url"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"game_dir":    "",
		"mods_dir":    "",
		"cache_dir":   paths.CacheDir(),
		"index_file":  "",
		"catalog_url": thunderstore.DefaultIndexURL,
	}
}

// Load builds the effective configuration. An empty path means the default
// config file location; a missing file at the default location is fine, an
// explicitly named file must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default configuration")
	}

	explicit := path != ""
	if !explicit {
		path = paths.ConfigFile()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", path)
		}
	} else if explicit {
		return nil, errors.Newf(errors.ErrConfigLoad, "config file %s does not exist", path)
	}

	// Keys are flat, so EMBER_CATALOG_URL maps straight to catalog_url.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	cfg.applyDerived()
	return &cfg, nil
}

// applyDerived fills the fields whose defaults depend on other fields.
func (c *Config) applyDerived() {
	if c.ModsDir == "" {
		if c.GameDir != "" {
			c.ModsDir = filepath.Join(c.GameDir, "R2Northstar", "mods")
		} else {
			c.ModsDir = filepath.Join(paths.DataDir(), "mods")
		}
	}
	if c.IndexFile == "" {
		c.IndexFile = filepath.Join(c.ModsDir, paths.IndexFileName)
	}
	if c.CacheDir == "" {
		c.CacheDir = paths.CacheDir()
	}
	if c.CatalogURL == "" {
		c.CatalogURL = thunderstore.DefaultIndexURL
	}
}
