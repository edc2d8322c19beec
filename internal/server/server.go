package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"agentflow/internal/config"
	"agentflow/internal/events"
	"agentflow/internal/realtime"
	"agentflow/pkg/logging"

	"github.com/google/uuid"
)

// shutdownTimeout bounds how long graceful shutdown may take before
// remaining connections are dropped.
const shutdownTimeout = 10 * time.Second

// Broadcaster is the part of the connection registry the server needs.
type Broadcaster interface {
	Broadcast(update events.ExecutionUpdate)
	ClientCount() int
}

// Server is the HTTP server hosting the connection endpoint, the health
// probe, and the event ingress.
type Server struct {
	cfg        config.ServerConfig
	registry   *realtime.Registry
	broadcasts Broadcaster
	httpServer *http.Server
}

// New creates a Server for the given registry.
func New(cfg config.ServerConfig, registry *realtime.Registry) *Server {
	s := &Server{
		cfg:        cfg,
		registry:   registry,
		broadcasts: registry,
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", realtime.NewHandler(registry))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/events", s.handleEventIngress)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: mux,
	}
	return s
}

// Addr returns the address the server binds to.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until ctx is canceled, then drains in-flight requests and
// shuts the connection registry down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server", "Listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("Server", "Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.httpServer.Shutdown(shutdownCtx)

	s.registry.Shutdown()
	<-errCh
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.broadcasts.ClientCount(),
	})
}

// handleEventIngress accepts an ExecutionUpdate from the workflow engine
// and hands it to the broadcaster. Delivery is best-effort, so acceptance
// is acknowledged before any client has seen the update.
func (s *Server) handleEventIngress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()

	var update events.ExecutionUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logging.Warn("Server", "Rejected event ingress %s: %v", requestID, err)
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	if !events.KnownUpdateType(update.Type) {
		logging.Warn("Server", "Rejected event ingress %s: unknown type %q", requestID, update.Type)
		http.Error(w, fmt.Sprintf("unknown event type %q", update.Type), http.StatusBadRequest)
		return
	}
	if update.ExecutionID == "" || update.WorkflowID == "" {
		http.Error(w, "executionId and workflowId are required", http.StatusBadRequest)
		return
	}
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now()
	}

	s.broadcasts.Broadcast(update)

	logging.Debug("Server", "Accepted event ingress %s: %s for execution=%s",
		requestID, update.Type, update.ExecutionID)

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"requestId": requestID})
}
