// Package logging provides a structured logging system for agentflow with
// unified log handling and level filtering.
//
// The package wraps Go's standard slog package. Every entry carries a
// subsystem identifier so logs from the different services (AuthDispatcher,
// Registry, Server, Config, ...) can be filtered and categorized.
//
// # Usage
//
//	logging.Init(logging.LevelInfo, os.Stdout)
//
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Debug("Config", "Loaded configuration from %s", configPath)
//	logging.Error("Registry", err, "Failed to deliver update to client %d", clientID)
//
// # Thread Safety
//
// The logging system is fully thread-safe; concurrent logging from multiple
// goroutines is supported without additional synchronization.
package logging
