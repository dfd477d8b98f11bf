// Package config handles edmtool configuration loading and management.
package config

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds options that change the exported graph.
type ExportConfig struct {
	ApplyModifiers bool `yaml:"apply_modifiers"` // Bake procedural modifiers into geometry
}

// OutputConfig holds options that change the file encoding.
type OutputConfig struct {
	StringEncoding string `yaml:"string_encoding"` // utf-8, windows-1251 or windows-1252
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			ApplyModifiers: false,
		},
		Output: OutputConfig{
			StringEncoding: "utf-8",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
