package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/edm-exporter/internal/export"
	"github.com/Faultbox/edm-exporter/pkg/encoding"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		path, err := homedir.Expand(configPath)
		if err != nil {
			return nil, fmt.Errorf("expanding config path %s: %w", configPath, err)
		}
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if cfg.Logging.LogFile != "" {
		path, err := homedir.Expand(cfg.Logging.LogFile)
		if err != nil {
			return nil, fmt.Errorf("expanding log file path: %w", err)
		}
		cfg.Logging.LogFile = path
	}

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./edmtool.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := homedir.Dir()
		return filepath.Join(home, "Library", "Application Support", "EDMExporter")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "EDMExporter")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "edm-exporter")
		}
		home, _ := homedir.Dir()
		return filepath.Join(home, ".config", "edm-exporter")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// ExportOptions converts the config into exporter options.
func (c *Config) ExportOptions() (export.Options, error) {
	cp, err := encoding.Lookup(c.Output.StringEncoding)
	if err != nil {
		return export.Options{}, fmt.Errorf("output.string_encoding: %w", err)
	}
	return export.Options{
		ApplyModifiers: c.Export.ApplyModifiers,
		Codepage:       cp,
	}, nil
}
