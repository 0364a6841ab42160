// Package steam locates a Steam installation and the Titanfall 2 game
// directory inside its library folders. Discovery is best effort: every
// function returns MISSING_PATH when probing comes up empty.
package steam

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"

	"github.com/adrg/xdg"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/logging"
)

// EnvSteamDir overrides Steam root discovery.
const EnvSteamDir = "EMBER_STEAM_DIR"

// TitanfallFolder is the game's folder name under steamapps/common.
const TitanfallFolder = "Titanfall2"

var logger = logging.GetLogger("steam")

// libraryfolders.vdf entries look like:  "path"  "/mnt/games/SteamLibrary"
var vdfPathLine = regexp.MustCompile(`"path"\s+"(.+)"`)

// Dir returns the Steam root: the EMBER_STEAM_DIR override when set, else
// the first known install location containing a steamapps directory.
func Dir() (string, error) {
	if dir := os.Getenv(EnvSteamDir); dir != "" {
		return dir, nil
	}

	candidates := []string{
		filepath.Join(xdg.DataHome, "Steam"),
		filepath.Join(xdg.Home, ".steam", "steam"),
		filepath.Join(xdg.Home, ".steam", "root"),
		filepath.Join(xdg.Home, ".var", "app", "com.valvesoftware.Steam", "data", "Steam"),
	}
	for _, dir := range candidates {
		if info, err := os.Stat(filepath.Join(dir, "steamapps")); err == nil && info.IsDir() {
			logger.Debug().Str("path", dir).Msg("Found Steam root")
			return dir, nil
		}
	}
	return "", errors.New(errors.ErrMissingPath, "no Steam installation found")
}

// Libraries returns every Steam library folder, the root itself included,
// read from the root's steamapps/libraryfolders.vdf.
func Libraries() ([]string, error) {
	root, err := Dir()
	if err != nil {
		return nil, err
	}
	return LibrariesIn(root)
}

// LibrariesIn parses steamapps/libraryfolders.vdf under the given Steam
// root. Only the "path" lines matter; the rest of the vdf structure is
// ignored. Listed libraries that no longer exist on disk are dropped.
func LibrariesIn(root string) ([]string, error) {
	vdfPath := filepath.Join(root, "steamapps", "libraryfolders.vdf")
	f, err := os.Open(vdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Old Steam installs have no manifest; the root is the only
			// library.
			return []string{root}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", vdfPath)
	}
	defer func() { _ = f.Close() }()

	libs := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := vdfPathLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		lib := filepath.Clean(m[1])
		if _, err := os.Stat(lib); err != nil {
			logger.Warn().Str("path", lib).Msg("Skipping missing Steam library")
			continue
		}
		libs = append(libs, lib)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", vdfPath)
	}

	if len(libs) == 0 {
		libs = append(libs, root)
	}
	return libs, nil
}

// TitanfallDir returns the Titanfall 2 install directory, probing every
// Steam library for steamapps/common/Titanfall2.
func TitanfallDir() (string, error) {
	libs, err := Libraries()
	if err != nil {
		return "", err
	}
	return titanfallIn(libs)
}

func titanfallIn(libs []string) (string, error) {
	for _, lib := range libs {
		dir := filepath.Join(lib, "steamapps", "common", TitanfallFolder)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			logger.Debug().Str("path", dir).Msg("Found Titanfall 2")
			return dir, nil
		}
	}
	return "", errors.New(errors.ErrMissingPath, "Titanfall 2 not found in any Steam library")
}
