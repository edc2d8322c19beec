package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"agentflow/internal/auth"
	"agentflow/internal/config"
	"agentflow/internal/credential"
	"agentflow/internal/events"
	"agentflow/internal/realtime"
	"agentflow/internal/server"
	"agentflow/pkg/logging"
)

// Application bundles the explicitly constructed service instances of the
// agentflow backend: the credential store, the auth dispatcher, the
// connection registry with its HTTP server, and the event emitter. Nothing
// here is a package-level singleton; tests and multiple deployments build
// their own instances.
type Application struct {
	config *Config

	Store      *credential.Store
	Dispatcher *auth.Dispatcher
	Registry   *realtime.Registry
	Emitter    *events.Emitter

	server  *server.Server
	watcher *config.Watcher
}

// NewApplication creates and wires a new application instance: it
// configures logging, loads and validates the configuration, constructs
// the services, and preloads the configured credentials.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	var logOutput io.Writer = os.Stdout
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.Init(appLogLevel, logOutput)

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}

	flowCfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load configuration from %s", configPath)
		return nil, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
	}
	if errs := config.Validate(flowCfg); errs.HasErrors() {
		logging.Error("Bootstrap", errs, "Configuration is invalid")
		return nil, fmt.Errorf("configuration is invalid: %w", errs)
	}

	if !cfg.Debug && flowCfg.Logging.Level != "" {
		logging.Init(flowCfg.Logging.LogLevel(), logOutput)
	}

	store := credential.NewStore()
	preloadCredentials(store, flowCfg.Credentials)

	dispatcher := auth.NewDispatcherWithOptions(auth.DispatcherOptions{
		HTTPClient: &http.Client{Timeout: flowCfg.Auth.TokenRequestTimeout},
	})

	registry := realtime.NewRegistry()
	emitter := events.NewEmitter(registry)

	a := &Application{
		config:     cfg,
		Store:      store,
		Dispatcher: dispatcher,
		Registry:   registry,
		Emitter:    emitter,
		server:     server.New(flowCfg.Server, registry),
	}

	a.watcher = config.NewWatcher(configPath, func(updated config.AgentFlowConfig) {
		preloadCredentials(store, updated.Credentials)
	})

	logging.Info("Bootstrap", "Application initialized (%d credentials, server %s)",
		store.Count(), a.server.Addr())
	return a, nil
}

// preloadCredentials saves every config-declared credential into the
// store, keyed by its declared id or, when absent, its name.
func preloadCredentials(store *credential.Store, specs []config.CredentialSpec) {
	for _, spec := range specs {
		authCfg, err := spec.ToAuthConfig()
		if err != nil {
			logging.Warn("Bootstrap", "Skipping credential %q: %v", spec.Name, err)
			continue
		}
		id := spec.ID
		if id == "" {
			id = spec.Name
		}
		store.Save(id, spec.Name, authCfg)
	}
}

// Run executes the application until ctx is canceled or SIGINT/SIGTERM is
// received, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.watcher.Start(); err != nil {
		logging.Warn("Bootstrap", "Configuration hot reload unavailable: %v", err)
	} else {
		defer a.watcher.Stop()
	}

	return a.server.Run(ctx)
}
