// Package config resolves loader settings from defaults, an optional YAML
// file and RUWORDNET_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when an explicitly requested config file
// does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// DefaultFileName is read from the working directory when no file is given.
const DefaultFileName = "ruwordnet.yaml"

// Config holds the resolved loader settings.
type Config struct {
	DBPath      string `yaml:"db" env:"RUWORDNET_DB"`
	DumpPath    string `yaml:"dump" env:"RUWORDNET_DUMP"`
	DumpURL     string `yaml:"dump_url" env:"RUWORDNET_DUMP_URL"`
	WithLemmas  bool   `yaml:"with_lemmas" env:"RUWORDNET_WITH_LEMMAS"`
	ForeignKeys bool   `yaml:"foreign_keys" env:"RUWORDNET_FOREIGN_KEYS"`
	BatchSize   int    `yaml:"batch_size" env:"RUWORDNET_BATCH_SIZE"`
	Verbose     bool   `yaml:"verbose" env:"RUWORDNET_VERBOSE"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:    "ruwordnet.db",
		DumpPath:  "ruwordnet",
		BatchSize: 500,
	}
}

// Load resolves the configuration. If path is empty, DefaultFileName is used
// when it exists; a missing explicit path is ErrConfigNotFound.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		if explicit {
			return Config{}, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	// Unset variables leave the file or default value in place.
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("database path must be non-empty")
	}
	if c.DumpPath == "" {
		return errors.New("dump path must be non-empty")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	return nil
}
