// Package config loads the disprobe application configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. Command-line flags
// override everything here; the file only sets defaults.
type Config struct {
	Probe  ProbeConfig  `yaml:"probe"`
	Output OutputConfig `yaml:"output"`
}

// ProbeConfig holds fetch and scheduling defaults
type ProbeConfig struct {
	// TimeoutMS is the per-fetch timeout in milliseconds
	TimeoutMS int `yaml:"timeout_ms"`
	// Concurrency bounds in-flight entry resolutions
	Concurrency int `yaml:"concurrency"`
	// RSSConcurrency bounds concurrent feed fetches
	RSSConcurrency int `yaml:"rss_concurrency"`
	// NoBrowser disables the rendered-page fallback
	NoBrowser bool `yaml:"no_browser"`
	// EntriesFile is the default entries file path
	EntriesFile string `yaml:"entries_file"`
	// ProbesFile is the default overrides file path
	ProbesFile string `yaml:"probes_file"`
}

// OutputConfig holds rendering preferences
type OutputConfig struct {
	// NoColor disables colored terminal output
	NoColor bool `yaml:"no_color"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Probe: ProbeConfig{
			TimeoutMS:      15000,
			Concurrency:    8,
			RSSConcurrency: 8,
			EntriesFile:    "distros.txt",
			ProbesFile:     "probes.toml",
		},
	}
}

// Timeout returns the per-fetch timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Probe.TimeoutMS) * time.Millisecond
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/disprobe/config.yaml (XDG standard - priority)
// 2. ~/.disprobe/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "disprobe", "config.yaml"),
		filepath.Join(home, ".disprobe", "config.yaml"),
	}, nil
}

// FindConfigPath returns the first existing config file path, or "" when
// no config file exists.
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// Load reads configuration from the first available config file. A
// missing file yields the defaults: the tool must run unconfigured.
func Load() (*Config, error) {
	path, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from a specific file path, filling unset
// fields from the defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Probe.TimeoutMS <= 0 {
		cfg.Probe.TimeoutMS = 15000
	}
	if cfg.Probe.Concurrency <= 0 {
		cfg.Probe.Concurrency = 8
	}
	if cfg.Probe.RSSConcurrency <= 0 {
		cfg.Probe.RSSConcurrency = 8
	}
	return cfg, nil
}

// SaveTo writes configuration to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
