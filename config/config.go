// Package config provides configuration loading and management for
// gadm2obo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete gadm2obo configuration.
type Config struct {
	Ingest   IngestConfig   `yaml:"ingest"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy"`
	Output   OutputConfig   `yaml:"output"`
	Watch    WatchConfig    `yaml:"watch"`
}

// IngestConfig configures dataset ingestion.
type IngestConfig struct {
	// MaxLevel is the highest administrative level to ingest.
	MaxLevel int `yaml:"max_level"`
	// ContinentsSource is the path to the continents hierarchy file.
	// Required; the run aborts before any processing begins when the
	// file is missing or empty.
	ContinentsSource string `yaml:"continents_source"`
}

// TaxonomyConfig configures term creation and disambiguation.
type TaxonomyConfig struct {
	// AccessionPrefix prefixes every issued accession.
	AccessionPrefix string `yaml:"accession_prefix"`
	// RootName names the global root of the continent hierarchy.
	RootName string `yaml:"root_name"`
	// Disambiguate enables duplicate-name disambiguation. Unset
	// means enabled.
	Disambiguate *bool `yaml:"disambiguate"`
}

// OutputConfig configures ontology serialization.
type OutputConfig struct {
	// OntologyName is the OBO ontology/default-namespace value.
	OntologyName string `yaml:"ontology_name"`
	// Path is the output file; empty means stdout.
	Path string `yaml:"path"`
	// Timestamp enables the OBO date header. Off keeps runs
	// byte-reproducible.
	Timestamp bool `yaml:"timestamp"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Enabled keeps the process alive, rebuilding on input changes.
	Enabled bool `yaml:"enabled"`
	// Debounce is how long to wait for further changes before a
	// rebuild.
	Debounce time.Duration `yaml:"debounce"`
	// MetricsAddr serves Prometheus metrics at this address while
	// watching (empty = disabled).
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Ingest: IngestConfig{
			MaxLevel: 2,
		},
		Taxonomy: TaxonomyConfig{
			AccessionPrefix: "GADM",
			RootName:        "Earth",
		},
		Output: OutputConfig{
			OntologyName: "gadm",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Disambiguate reports whether disambiguation is enabled (default
// true).
func (c *Config) Disambiguate() bool {
	return c.Taxonomy.Disambiguate == nil || *c.Taxonomy.Disambiguate
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Ingest.MaxLevel < 0 {
		return fmt.Errorf("ingest.max_level must not be negative")
	}
	if c.Ingest.ContinentsSource == "" {
		return fmt.Errorf("ingest.continents_source is required")
	}
	if c.Taxonomy.AccessionPrefix == "" {
		return fmt.Errorf("taxonomy.accession_prefix is required")
	}
	if c.Watch.Enabled && c.Output.Path == "" {
		return fmt.Errorf("watch mode requires output.path (stdout would interleave runs)")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence
// for non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Ingest
	if other.Ingest.MaxLevel != 0 {
		c.Ingest.MaxLevel = other.Ingest.MaxLevel
	}
	if other.Ingest.ContinentsSource != "" {
		c.Ingest.ContinentsSource = other.Ingest.ContinentsSource
	}

	// Taxonomy
	if other.Taxonomy.AccessionPrefix != "" {
		c.Taxonomy.AccessionPrefix = other.Taxonomy.AccessionPrefix
	}
	if other.Taxonomy.RootName != "" {
		c.Taxonomy.RootName = other.Taxonomy.RootName
	}
	if other.Taxonomy.Disambiguate != nil {
		c.Taxonomy.Disambiguate = other.Taxonomy.Disambiguate
	}

	// Output
	if other.Output.OntologyName != "" {
		c.Output.OntologyName = other.Output.OntologyName
	}
	if other.Output.Path != "" {
		c.Output.Path = other.Output.Path
	}
	if other.Output.Timestamp {
		c.Output.Timestamp = true
	}

	// Watch
	if other.Watch.Enabled {
		c.Watch.Enabled = true
	}
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if other.Watch.MetricsAddr != "" {
		c.Watch.MetricsAddr = other.Watch.MetricsAddr
	}
}
