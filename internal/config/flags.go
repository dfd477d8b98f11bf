package config

import "flag"

var (
	flagConfig         = flag.String("config", "", "Path to config file")
	flagDebug          = flag.Bool("debug", false, "Enable debug logging")
	flagApplyModifiers = flag.Bool("apply-modifiers", false, "Bake modifiers into exported geometry")
	flagEncoding       = flag.String("encoding", "", "String encoding for names (utf-8, windows-1251, windows-1252)")
	flagLogFile        = flag.String("log-file", "", "Write logs to this file as well")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagApplyModifiers {
		cfg.Export.ApplyModifiers = true
	}
	if *flagEncoding != "" {
		cfg.Output.StringEncoding = *flagEncoding
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
