package app

import (
	"launchpad/internal/config"
	"launchpad/pkg/logging"
)

// Config holds the application configuration
type Config struct {
	// UI mode
	NoTUI bool

	// Debug settings
	Debug bool

	// ConfigPath, when set, replaces the layered user/project configuration
	// with <ConfigPath>/config.yaml.
	ConfigPath string

	// Version is reported by the status endpoint and shown in the TUI.
	Version string

	// Loaded launchpad configuration
	LaunchpadConfig *config.LaunchpadConfig
}

// NewConfig creates a new application configuration
func NewConfig(noTUI, debug bool, configPath, version string) *Config {
	return &Config{
		NoTUI:      noTUI,
		Debug:      debug,
		ConfigPath: configPath,
		Version:    version,
	}
}

// LogLevel maps the debug flag to a logging level.
func (c *Config) LogLevel() logging.LogLevel {
	if c.Debug {
		return logging.LevelDebug
	}
	return logging.LevelInfo
}
