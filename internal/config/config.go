// Package config holds interpreter-wide constants and the optional rox.yaml
// project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level rox.yaml configuration.
type Config struct {
	// ModulePaths lists extra directories searched, after the importing file's
	// own directory, for imports that are neither absolute nor start with ./
	// or ../.
	ModulePaths []string `yaml:"module_paths,omitempty"`

	// MaxRecursionDepth overrides the default evaluator call-depth limit. The
	// parser's expression nesting limit always uses the MaxRecursionDepth
	// constant.
	MaxRecursionDepth int `yaml:"max_recursion_depth,omitempty"`
}

// Default returns the configuration used when no rox.yaml is present.
func Default() *Config {
	return &Config{MaxRecursionDepth: MaxRecursionDepth}
}

// Load reads rox.yaml from dir. A missing file is not an error and yields the
// defaults; a malformed file is.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.MaxRecursionDepth <= 0 {
		cfg.MaxRecursionDepth = MaxRecursionDepth
	}

	// Module paths are relative to the config file's directory.
	for i, p := range cfg.ModulePaths {
		if !filepath.IsAbs(p) {
			cfg.ModulePaths[i] = filepath.Join(dir, p)
		}
	}
	return cfg, nil
}
