package realtime

import (
	"net/http"

	"agentflow/pkg/logging"

	"github.com/gorilla/websocket"
)

const (
	readBufferSize  = 1024
	writeBufferSize = 1024
)

// Handler upgrades HTTP requests on the connection endpoint to WebSocket
// connections and runs their inbound message loop against the registry.
type Handler struct {
	registry *Registry
	upgrader websocket.Upgrader
}

// NewHandler creates the WebSocket handler for the given registry.
func NewHandler(registry *Registry) *Handler {
	return &Handler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			// The browser clients are served from the workflow builder UI,
			// which may live on a different origin than this service.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and pumps inbound control messages until
// the client disconnects. The optional userId query parameter registers the
// connection for BroadcastToUser targeting.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("Realtime", "WebSocket upgrade failed: %v", err)
		return
	}

	client, err := h.registry.Register(conn, userID)
	if err != nil {
		// Register closes the connection on failure.
		return
	}
	defer h.registry.Unregister(client)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Debug("Realtime", "Client %d read loop ended: %v", client.ID, err)
			}
			return
		}
		h.registry.HandleMessage(client, data)
	}
}
