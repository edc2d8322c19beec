package app

// Config holds the application bootstrap settings.
type Config struct {
	// Debug enables verbose logging.
	Debug bool

	// Silent suppresses all log output. Used by tests.
	Silent bool

	// ConfigPath is a custom configuration directory (optional). When
	// empty, the user-level config directory is used.
	ConfigPath string
}

// NewConfig creates a new application configuration.
func NewConfig(debug bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}
