package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gitlab.com/tinyland/lab/perf-pulse/config"
)

// errConfigExists is returned by -write-config when path is already taken.
var errConfigExists = errors.New("config file already exists")

// runWriteConfig writes cfg to path, in TOML or YAML by extension. It
// refuses to replace an existing file.
func runWriteConfig(cfg *config.Config, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", errConfigExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return config.SaveConfig(cfg, path)
}
