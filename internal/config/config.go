// Package config loads module filter sets from YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/armn3t/go-modfilter"
)

// EnvPrefix is the prefix for environment variables that override CLI flags.
const EnvPrefix = "MODSEL"

// Config is a filter set plus an optional list of module names to select from.
type Config struct {
	// Include holds filter expressions a module must match. Empty means all.
	Include []string `yaml:"include,omitempty"`

	// Exclude holds filter expressions that remove a module. Empty means none.
	Exclude []string `yaml:"exclude,omitempty"`

	// Modules is the candidate list used when none is given on the command line
	Modules []string `yaml:"modules,omitempty"`
}

// LoadConfig reads and parses the YAML file at path. It does not validate the
// filter expressions; call Validate for that.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a YAML filter set. An empty document yields an empty Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return &cfg, nil
}

// Validate checks every include and exclude expression and reports all
// invalid ones at once. The returned error is a *multierror.Error.
func (c *Config) Validate() error {
	var errs *multierror.Error
	errs = validateFilters(errs, "include", c.Include)
	errs = validateFilters(errs, "exclude", c.Exclude)
	return errs.ErrorOrNil()
}

func validateFilters(errs *multierror.Error, kind string, filters []string) *multierror.Error {
	for i, filter := range filters {
		if _, err := modfilter.ParseFilterExpression(filter); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s[%d]: %w", kind, i, err))
		}
	}
	return errs
}

// Merge appends the filters and modules of other to c, returning a new Config.
// Command-line filters are merged on top of file filters this way.
func (c *Config) Merge(other *Config) *Config {
	merged := &Config{}
	for _, src := range []*Config{c, other} {
		if src == nil {
			continue
		}
		merged.Include = append(merged.Include, src.Include...)
		merged.Exclude = append(merged.Exclude, src.Exclude...)
		merged.Modules = append(merged.Modules, src.Modules...)
	}
	return merged
}
