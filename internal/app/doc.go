// Package app provides application bootstrap and lifecycle management for
// the agentflow backend services.
//
// NewApplication performs the full wiring: logging, configuration loading
// and validation, construction of the credential store, auth dispatcher,
// connection registry, event emitter, and HTTP server, plus the fsnotify
// watcher that hot-reloads config-declared credentials. All services are
// dependency-injected instances; nothing is process-global, so tests can
// bootstrap isolated applications side by side.
//
// Run blocks until the context is canceled or a termination signal
// arrives, then drains the HTTP server and closes all client connections.
package app
