package config

import (
	"time"

	"agentflow/pkg/logging"
)

const (
	// DefaultHost is the default bind host for the HTTP server.
	DefaultHost = "localhost"

	// DefaultPort is the default port for the WebSocket and API endpoints.
	DefaultPort = 8081

	// DefaultTokenRequestTimeout bounds OAuth2 token endpoint round trips.
	DefaultTokenRequestTimeout = 30 * time.Second
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() AgentFlowConfig {
	return AgentFlowConfig{
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Auth: AuthConfig{
			TokenRequestTimeout: DefaultTokenRequestTimeout,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LogLevel maps the configured level name to a logging.LogLevel; unknown
// names fall back to info.
func (c LoggingConfig) LogLevel() logging.LogLevel {
	switch c.Level {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
