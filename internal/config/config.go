package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/reflow-dev/reflow/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "reflow.json"

	// DefaultAddr is the default development server address.
	DefaultAddr = "localhost:3900"

	// DefaultNamespace is the default Prometheus metrics namespace.
	DefaultNamespace = "reflow"
)

// Config represents the complete reflow.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Record contains trace recording and export configuration.
	Record RecordConfig `json:"record,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development server configuration.
type DevConfig struct {
	// Addr is the listen address for the development server.
	Addr string `json:"addr,omitempty"`

	// Tags are the element tags pre-registered in the demo host tree.
	Tags []string `json:"tags,omitempty"`
}

// MetricsConfig contains Prometheus configuration.
type MetricsConfig struct {
	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`

	// Subsystem is the metrics subsystem.
	Subsystem string `json:"subsystem,omitempty"`
}

// RecordConfig contains trace recording and export configuration.
type RecordConfig struct {
	// Bucket is the S3 bucket traces are exported to. Empty disables
	// export.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the S3 key prefix for exported traces.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Dev: DevConfig{
			Addr: DefaultAddr,
			Tags: []string{"div", "span", "p", "ul", "li", "button", "input"},
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Record: RecordConfig{
			Prefix: "traces/",
		},
	}
}

// Load reads reflow.json from dir, searching parent directories until one
// is found. A missing file is not an error: defaults are returned with
// configPath unset.
func Load(dir string) (*Config, error) {
	path, err := find(dir)
	if err != nil {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").Wrap(err)
	}
	cfg.configPath = path

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a specific configuration file. Unlike Load, a missing
// file is an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E122").Wrap(err)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").Wrap(err)
	}
	cfg.configPath = path

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration back to the path it was loaded from, or
// to reflow.json in dir when it was never loaded from disk.
func (c *Config) Save(dir string) error {
	path := c.configPath
	if path == "" {
		path = filepath.Join(dir, ConfigFileName)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E121").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E121").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns where the configuration was loaded from, empty for pure
// defaults.
func (c *Config) Path() string {
	return c.configPath
}

// validate rejects values no component can work with.
func (c *Config) validate() error {
	if c.Dev.Addr == "" {
		return errors.New("E123").WithDetail("dev.addr must not be empty")
	}
	if c.Metrics.Namespace == "" {
		return errors.New("E123").WithDetail("metrics.namespace must not be empty")
	}
	if c.Record.Bucket != "" && c.Record.Region == "" {
		return errors.New("E123").
			WithDetail("record.region is required when record.bucket is set").
			WithSuggestion("Add \"region\" under \"record\" in reflow.json.")
	}
	return nil
}

// find walks from dir upward looking for reflow.json.
func find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E122")
		}
		dir = parent
	}
}
