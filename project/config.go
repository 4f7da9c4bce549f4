// Package project loads the assembler's optional project
// configuration file: default output paths, predefined symbols, and
// the include search path, with environment-variable overrides for a
// small set of CI-relevant fields.
package project

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
)

// DefaultFileName is the config file name consulted when -config isn't given.
const DefaultFileName = "asm8.toml"

// Config is the on-disk (and environment-overridable) project
// configuration. CLI flags always take precedence over every field
// here; see cmd/asm8 for the merge order.
type Config struct {
	FillValue  int64             `toml:"fill_value"`
	OutputPath string            `toml:"output"`
	ListPath   string            `toml:"listing"`
	Include    []string          `toml:"include" env:"ASM8_INCLUDE" envSeparator:","`
	Defines    map[string]string `toml:"defines"`

	Quiet     bool `toml:"quiet" env:"ASM8_QUIET"`
	MaxPasses int  `toml:"max_passes" env:"ASM8_MAXPASSES"`
}

// Default returns the built-in configuration used when no config file
// and no overriding environment variables are present.
func Default() Config {
	return Config{
		FillValue: 0,
		MaxPasses: 7,
	}
}

// Load reads path (a TOML file) on top of Default(), then applies any
// of the env-tagged fields' environment variables on top of that.
// Missing files are not an error; Load then returns Default() with
// only the environment overrides applied.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultFileName
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "unable to parse project config %q", path)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, errors.Wrapf(err, "unable to stat project config %q", path)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "unable to apply environment overrides to project config")
	}

	return cfg, nil
}

// Save writes cfg to path as TOML, for `-dump-config`-style tooling.
func Save(path string, cfg Config) error {
	fd, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create project config %q", path)
	}
	defer fd.Close()

	if err := toml.NewEncoder(fd).Encode(cfg); err != nil {
		return errors.Wrapf(err, "unable to write project config %q", path)
	}
	return nil
}
