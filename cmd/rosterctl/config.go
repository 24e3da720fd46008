package main

import (
	"github.com/caarlos0/env/v11"
	"github.com/juju/errors"
	"github.com/rs/zerolog"
)

// Config controls where rosterctl reads its book from and where the built
// unit document is written.
type Config struct {
	// Backend selects the store implementation: "yaml" or "sqlite".
	Backend string `env:"WARBAND_BACKEND" envDefault:"yaml"`
	Book    string `env:"WARBAND_BOOK"    envDefault:"data/high-elves.yaml"`

	// Import optionally names a YAML book whose contents are imported into
	// the store before the unit is built.
	Import string `env:"WARBAND_IMPORT"`

	Datasheet string `env:"WARBAND_DATASHEET" envDefault:"High Elf Spearmen"`

	// Output is the path of the unit document; "-" writes to stdout.
	Output   string `env:"WARBAND_OUTPUT"    envDefault:"unit.json"`
	LogLevel string `env:"WARBAND_LOG_LEVEL" envDefault:"info"`
}

// loadConfig parses the configuration using opts. Callers pass a zero
// env.Options to read the process environment.
func loadConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Annotate(err, "parsing configuration")
	}

	switch cfg.Backend {
	case "yaml", "sqlite":
	default:
		return Config{}, errors.NotValidf("store backend %q", cfg.Backend)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, errors.NotValidf("log level %q", cfg.LogLevel)
	}
	return cfg, nil
}
