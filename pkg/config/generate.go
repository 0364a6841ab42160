package config

import (
	"bytes"
	"os"
	"path/filepath"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/embermod/ember/pkg/errors"
)

const generatedHeader = `# ember configuration.
# Every key can also be set through the environment as EMBER_<KEY>,
# e.g. EMBER_GAME_DIR or EMBER_CATALOG_URL.

`

// tomlConfig mirrors Config with toml tags for generation.
type tomlConfig struct {
	GameDir    string `toml:"game_dir"`
	ModsDir    string `toml:"mods_dir"`
	CacheDir   string `toml:"cache_dir"`
	IndexFile  string `toml:"index_file"`
	CatalogURL string `toml:"catalog_url"`
}

// Generate renders cfg as a TOML document suitable as a starting config
// file.
func Generate(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)

	enc := gotoml.NewEncoder(&buf)
	if err := enc.Encode(tomlConfig{
		GameDir:    cfg.GameDir,
		ModsDir:    cfg.ModsDir,
		CacheDir:   cfg.CacheDir,
		IndexFile:  cfg.IndexFile,
		CatalogURL: cfg.CatalogURL,
	}); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to encode configuration")
	}
	return buf.Bytes(), nil
}

// WriteDefault writes cfg to path, creating parent directories. It refuses
// to overwrite an existing file.
func WriteDefault(cfg *Config, path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf(errors.ErrConfigLoad, "config file %s already exists", path)
	}

	data, err := Generate(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return nil
}
