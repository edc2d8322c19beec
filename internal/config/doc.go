// Package config provides configuration management for agentflow.
//
// Configuration is loaded from a single directory containing a config.yaml
// file. The default directory is ~/.config/agentflow, and a custom directory
// can be supplied via the --config-path flag.
//
// # Configuration Structure
//
// The configuration file uses YAML format:
//
//	server:
//	  host: "localhost"            # Host to bind to (default: localhost)
//	  port: 8081                   # Port for the WebSocket and API endpoints (default: 8081)
//	auth:
//	  tokenRequestTimeout: 30s     # Timeout for OAuth2 token endpoint requests
//	logging:
//	  level: "info"                # debug, info, warn, error
//	credentials:                   # Credentials preloaded into the store at startup
//	  - name: "github"
//	    scheme: "bearer"
//	    token: "ghp_example"
//
// A missing config file is not an error; defaults are used. Validate reports
// structural problems (bad ports, duplicate credential names, incomplete
// credential specs) without touching the network.
//
// The Watcher observes the config file with fsnotify and invokes a callback
// with the freshly loaded configuration whenever it changes on disk, so
// declared credentials can be reloaded without a restart.
//
// # Usage
//
//	cfg, err := config.LoadConfig(config.GetDefaultConfigPathOrPanic())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if errs := config.Validate(cfg); errs.HasErrors() {
//	    log.Fatal(errs)
//	}
package config
