// Package config loads the mappa CLI configuration file. The file is
// optional; every field has a flag counterpart and flags win.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mappa-dev/mappa/internal/errors"
)

// Config is the on-disk CLI configuration.
//
//	registry: http://localhost:8080/.mappa/resources
//	coverage: bolt:///var/lib/mappa/coverage.db
//	ignore:
//	  - "@@DebugConsole"
//	id_pattern: "@@[A-Za-z][A-Za-z0-9_]*"
type Config struct {
	// Registry is where to fetch the serialized resource listing:
	// a URL or a local file path.
	Registry string `yaml:"registry"`

	// Coverage is the coverage store connection string
	// ("mem://", "bolt://path").
	Coverage string `yaml:"coverage"`

	// Ignore lists resource-ids excluded from coverage gap reports.
	Ignore []string `yaml:"ignore"`

	// IDPattern overrides the source-scan id regexp.
	IDPattern string `yaml:"id_pattern"`
}

// DefaultPath is where Load looks when no path is given.
const DefaultPath = ".mappa.yml"

// Default returns the built-in configuration.
func Default() Config {
	return Config{}
}

// Load reads a configuration file. A missing file at the default path
// is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, errors.FromError(err, errors.CodeConfigInvalid)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.FromError(err, errors.CodeConfigInvalid).
			WithDetail("in " + path)
	}
	return cfg, nil
}
