// Package config loads the optional minicc.toml file governing non-semantic
// compiler knobs (register naming, peephole toggling, default verbosity).
// None of these affect compilation semantics; the compiler runs with sane
// defaults when no file is present.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the shape of minicc.toml.
type Config struct {
	// RegisterPrefix names the register family emitted by the Code
	// Generator, e.g. "R" for R0, R1, ... Defaults to "R" when empty.
	RegisterPrefix string `toml:"register_prefix"`
	// Peephole toggles the MOV-elision pass. Defaults to true.
	Peephole bool `toml:"peephole"`
	// Verbose sets whether per-stage output is printed by default; the
	// CLI's --quiet flag turns it off regardless of this value.
	Verbose bool `toml:"verbose"`
}

// Default returns the configuration used when no minicc.toml is found.
func Default() Config {
	return Config{RegisterPrefix: "R", Peephole: true, Verbose: true}
}

// Load reads and decodes path. A missing file is not an error: Default is
// returned unchanged so the compiler always has sane behavior.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "decoding config %q", path)
	}
	return cfg, nil
}
