package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Options controls where Load looks.
type Options struct {
	// ConfigPath is the TOML file to read. Empty means INFERENCO_MCP_CONFIG,
	// and no file at all when that is unset too.
	ConfigPath string
	// DotEnvPath is the .env file to consult. Empty means ".env". A missing
	// file is not an error.
	DotEnvPath string
	// Lookup reads the environment. Defaults to os.LookupEnv.
	Lookup LookupFunc
}

// Load builds the configuration: defaults, then the TOML file, then the
// .env file for keys the environment does not set, then the environment.
// The result is validated; every problem is reported together.
func Load(opts Options) (Config, error) {
	if opts.DotEnvPath == "" {
		opts.DotEnvPath = ".env"
	}
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}

	dotenv, err := godotenv.Read(opts.DotEnvPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", opts.DotEnvPath, err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := opts.Lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	cfg := Default()

	path := opts.ConfigPath
	if path == "" {
		path, _ = lookup(EnvConfig)
	}
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	errs := applyEnv(&cfg, lookup)
	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// LoadFile decodes the TOML file at path over cfg. Keys absent from the file
// keep their current values; unknown keys are an error.
func LoadFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("read config %s: unknown keys %v", path, undecoded)
	}
	cfg.Source = path
	return nil
}
