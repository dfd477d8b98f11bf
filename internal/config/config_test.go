package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Export.ApplyModifiers {
		t.Error("expected apply_modifiers to be false by default")
	}
	if cfg.Output.StringEncoding != "utf-8" {
		t.Errorf("expected string encoding utf-8, got %s", cfg.Output.StringEncoding)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "edmtool.yaml")

	yamlContent := `
export:
  apply_modifiers: true

output:
  string_encoding: windows-1251

logging:
  level: "debug"
  log_file: "export.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Export.ApplyModifiers {
		t.Error("expected apply_modifiers to be true")
	}
	if cfg.Output.StringEncoding != "windows-1251" {
		t.Errorf("expected windows-1251, got %s", cfg.Output.StringEncoding)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "export.log" {
		t.Errorf("expected log file 'export.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "edmtool.yaml")
	if err := os.WriteFile(configPath, []byte("export:\n  apply_modifiers: true\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Output.StringEncoding != "utf-8" {
		t.Errorf("expected default encoding to survive, got %q", cfg.Output.StringEncoding)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
export:
  apply_modifiers: not a bool
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/edmtool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "edmtool.yaml")
	if err := os.WriteFile(configPath, []byte("logging:\n  level: warn\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find edmtool.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "apply modifiers flag",
			setup: func() { *flagApplyModifiers = true },
			verify: func(cfg *Config) {
				if !cfg.Export.ApplyModifiers {
					t.Error("expected apply_modifiers to be enabled")
				}
			},
			teardown: func() { *flagApplyModifiers = false },
		},
		{
			name:  "encoding flag",
			setup: func() { *flagEncoding = "windows-1252" },
			verify: func(cfg *Config) {
				if cfg.Output.StringEncoding != "windows-1252" {
					t.Errorf("expected windows-1252, got %s", cfg.Output.StringEncoding)
				}
			},
			teardown: func() { *flagEncoding = "" },
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "run.log" },
			verify: func(cfg *Config) {
				if cfg.Logging.LogFile != "run.log" {
					t.Errorf("expected run.log, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() { *flagLogFile = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "edmtool.yaml")

	yamlContent := `
output:
  string_encoding: windows-1252
logging:
  level: warn
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagEncoding = "windows-1251"
	defer func() {
		*flagConfig = ""
		*flagEncoding = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Encoding comes from the flag, level from the file.
	if cfg.Output.StringEncoding != "windows-1251" {
		t.Errorf("expected windows-1251 from flag, got %s", cfg.Output.StringEncoding)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected warn from file, got %s", cfg.Logging.Level)
	}
}

func TestLoadExpandsHome(t *testing.T) {
	*flagLogFile = "~/edmtool.log"
	defer func() { *flagLogFile = "" }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if !filepath.IsAbs(cfg.Logging.LogFile) {
		t.Errorf("expected expanded absolute path, got %s", cfg.Logging.LogFile)
	}
}

func TestExportOptions(t *testing.T) {
	cfg := Default()
	cfg.Export.ApplyModifiers = true
	cfg.Output.StringEncoding = "windows-1251"

	opts, err := cfg.ExportOptions()
	if err != nil {
		t.Fatalf("ExportOptions: %v", err)
	}
	if !opts.ApplyModifiers {
		t.Error("expected ApplyModifiers")
	}
	if opts.Codepage.Name() != "windows-1251" {
		t.Errorf("expected windows-1251 codepage, got %s", opts.Codepage.Name())
	}

	cfg.Output.StringEncoding = "ebcdic"
	if _, err := cfg.ExportOptions(); err == nil {
		t.Error("expected error for unknown encoding")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "edmtool.yaml")
	cfg := Default()
	cfg.Export.ApplyModifiers = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !loaded.Export.ApplyModifiers {
		t.Error("saved apply_modifiers not reloaded")
	}
}
