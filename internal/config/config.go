// Package config loads the optional formdesigner.toml that tunes how the
// tool edits form sources. All values are advisory: the parser and patch
// engine never enforce them, callers apply the floors and snapping they want.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is looked up in the start directory and its parents.
const FileName = "formdesigner.toml"

// Config is the merged view of one manifest.
type Config struct {
	Grid  GridConfig  `toml:"grid"`
	Sizes SizesConfig `toml:"sizes"`
	Patch PatchConfig `toml:"patch"`
}

// GridConfig controls coordinate snapping for interactive tools.
type GridConfig struct {
	Enabled bool `toml:"enabled"`
	Step    int  `toml:"step"`
}

// SizesConfig carries minimum geometry floors.
type SizesConfig struct {
	MinGadgetWidth  int `toml:"min_gadget_width"`
	MinGadgetHeight int `toml:"min_gadget_height"`
	MinWindowWidth  int `toml:"min_window_width"`
	MinWindowHeight int `toml:"min_window_height"`
}

// PatchConfig tunes compound edit behavior.
type PatchConfig struct {
	// RenameProcedures opts in to renaming Open<Window> procedures and their
	// call sites when a window is renamed.
	RenameProcedures bool `toml:"rename_procedures"`
}

// Manifest is a loaded config plus its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the values used when no manifest exists.
func Default() Config {
	return Config{
		Grid:  GridConfig{Enabled: false, Step: 5},
		Sizes: SizesConfig{MinGadgetWidth: 5, MinGadgetHeight: 5, MinWindowWidth: 30, MinWindowHeight: 30},
	}
}

// Find walks from startDir toward the filesystem root looking for a manifest.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads a manifest file, layering it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Discover locates and loads the nearest manifest. When none exists the
// defaults are returned with ok false.
func Discover(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return &Manifest{Config: Default()}, ok, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func (c Config) validate(path string) error {
	if c.Grid.Step < 0 {
		return fmt.Errorf("%s: [grid].step must not be negative", path)
	}
	if c.Sizes.MinGadgetWidth < 0 || c.Sizes.MinGadgetHeight < 0 ||
		c.Sizes.MinWindowWidth < 0 || c.Sizes.MinWindowHeight < 0 {
		return fmt.Errorf("%s: [sizes] values must not be negative", path)
	}
	return nil
}

// Snap rounds a coordinate to the configured grid.
func (c Config) Snap(v int) int {
	if !c.Grid.Enabled || c.Grid.Step <= 1 {
		return v
	}
	step := c.Grid.Step
	half := step / 2
	if v >= 0 {
		return ((v + half) / step) * step
	}
	return -(((-v + half) / step) * step)
}

// ClampGadget applies the minimum gadget size floors.
func (c Config) ClampGadget(w, h int) (int, int) {
	return maxInt(w, c.Sizes.MinGadgetWidth), maxInt(h, c.Sizes.MinGadgetHeight)
}

// ClampWindow applies the minimum window size floors.
func (c Config) ClampWindow(w, h int) (int, int) {
	return maxInt(w, c.Sizes.MinWindowWidth), maxInt(h, c.Sizes.MinWindowHeight)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
