package realtime

import (
	"sync"
	"time"

	"agentflow/internal/events"
	"agentflow/pkg/logging"
)

// sendTimeout bounds how long a single client write may take. A slow or
// stuck client must not hold up delivery to the others.
const sendTimeout = 10 * time.Second

// Conn is the transport-level connection held by the registry. It is
// satisfied by *websocket.Conn and by test fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// connState tracks the lifecycle of a client connection. Transitions are
// connecting -> open -> closed; closed is terminal and only open
// connections receive sends.
type connState int

const (
	stateConnecting connState = iota
	stateOpen
	stateClosed
)

// Client is one registered browser connection with its subscription set.
type Client struct {
	// ID is the process-unique client identifier.
	ID uint64

	// UserID is the optional user identity supplied at connect time.
	UserID string

	conn Conn

	// mu serializes writes to the connection and guards state and subs.
	// Subscription mutations from the same client are serialized here, so
	// concurrent subscribe/unsubscribe updates are never lost.
	mu    sync.Mutex
	state connState
	subs  map[string]struct{}
}

// send writes v to the client if it is open. A closed or still-connecting
// client silently drops the message.
func (c *Client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateOpen {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(sendTimeout))
	return c.conn.WriteJSON(v)
}

// subscribedToAny reports whether the client subscribes to at least one of
// the given topic keys.
func (c *Client) subscribedToAny(keys ...string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if _, ok := c.subs[key]; ok {
			return true
		}
	}
	return false
}

// Subscriptions returns a snapshot of the client's topic keys.
func (c *Client) Subscriptions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.subs))
	for key := range c.subs {
		out = append(out, key)
	}
	return out
}

// Registry tracks live client connections and their topic subscriptions
// and exposes the broadcast primitives. It is shared mutable state accessed
// concurrently by the connection acceptor, every connection's inbound
// message handler, and broadcast callers; all access is synchronized here.
type Registry struct {
	mu      sync.RWMutex
	clients map[uint64]*Client
	nextID  uint64
	closed  bool

	now func() time.Time
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[uint64]*Client),
		now:     time.Now,
	}
}

// Register adds a new connection, assigns it a client ID, and sends the
// connect acknowledgement. The returned client is open and may receive
// broadcasts. Registering against a shut-down registry closes the
// connection immediately.
func (r *Registry) Register(conn Conn, userID string) (*Client, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		conn.Close()
		return nil, ErrRegistryClosed
	}
	r.nextID++
	c := &Client{
		ID:     r.nextID,
		UserID: userID,
		conn:   conn,
		state:  stateConnecting,
		subs:   make(map[string]struct{}),
	}
	r.clients[c.ID] = c
	count := len(r.clients)
	r.mu.Unlock()

	ack := serverMessage{Type: messageTypeConnected, ClientID: c.ID, Timestamp: r.now()}

	c.mu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(sendTimeout))
	err := c.conn.WriteJSON(ack)
	if err == nil {
		c.state = stateOpen
	}
	c.mu.Unlock()

	if err != nil {
		logging.Warn("Registry", "Failed to acknowledge client %d, dropping connection: %v", c.ID, err)
		r.Unregister(c)
		return nil, err
	}

	logging.Info("Registry", "Client %d connected (userId=%q, %d clients total)", c.ID, userID, count)
	return c, nil
}

// Unregister removes a client and all its subscriptions and closes the
// underlying connection. After it returns, no broadcast references the
// client. Unregistering twice is harmless.
func (r *Registry) Unregister(c *Client) {
	if c == nil {
		return
	}

	r.mu.Lock()
	_, registered := r.clients[c.ID]
	delete(r.clients, c.ID)
	remaining := len(r.clients)
	r.mu.Unlock()

	c.mu.Lock()
	alreadyClosed := c.state == stateClosed
	c.state = stateClosed
	c.subs = make(map[string]struct{})
	c.mu.Unlock()

	if !alreadyClosed {
		c.conn.Close()
	}
	if registered {
		logging.Info("Registry", "Client %d disconnected (%d clients remain)", c.ID, remaining)
	}
}

// HandleMessage processes one inbound control-channel payload from a
// client. Malformed payloads and unknown actions are logged and ignored;
// the connection stays open.
func (r *Registry) HandleMessage(c *Client, data []byte) {
	msg, err := DecodeClientMessage(data)
	if err != nil {
		logging.Warn("Registry", "Ignoring malformed message from client %d: %v", c.ID, err)
		return
	}

	switch msg.Action {
	case ActionSubscribe:
		c.mu.Lock()
		for _, key := range msg.topics() {
			c.subs[key] = struct{}{}
		}
		c.mu.Unlock()
		logging.Debug("Registry", "Client %d subscribed: workflow=%q execution=%q",
			c.ID, msg.WorkflowID, msg.ExecutionID)

	case ActionUnsubscribe:
		c.mu.Lock()
		for _, key := range msg.topics() {
			delete(c.subs, key)
		}
		c.mu.Unlock()
		logging.Debug("Registry", "Client %d unsubscribed: workflow=%q execution=%q",
			c.ID, msg.WorkflowID, msg.ExecutionID)

	case ActionPing:
		if err := c.send(serverMessage{Type: messageTypePong, Timestamp: r.now()}); err != nil {
			logging.Warn("Registry", "Failed to send pong to client %d: %v", c.ID, err)
		}

	default:
		logging.Debug("Registry", "Ignoring unknown action %q from client %d", msg.Action, c.ID)
	}
}

// Broadcast delivers an update to every open client subscribed to the
// update's workflow or execution topic. Per-client failures are logged and
// do not abort delivery to the remaining clients.
func (r *Registry) Broadcast(update events.ExecutionUpdate) {
	workflowKey := WorkflowTopic(update.WorkflowID)
	executionKey := ExecutionTopic(update.ExecutionID)

	delivered := 0
	for _, c := range r.snapshot() {
		if !c.subscribedToAny(workflowKey, executionKey) {
			continue
		}
		if err := c.send(update); err != nil {
			logging.Warn("Registry", "Failed to deliver %s to client %d: %v", update.Type, c.ID, err)
			continue
		}
		delivered++
	}

	logging.Debug("Registry", "Broadcast %s for execution=%s to %d clients",
		update.Type, update.ExecutionID, delivered)
}

// BroadcastToUser delivers an update to every open client registered with
// the given user ID, independent of subscriptions.
func (r *Registry) BroadcastToUser(userID string, update events.ExecutionUpdate) {
	if userID == "" {
		return
	}

	delivered := 0
	for _, c := range r.snapshot() {
		if c.UserID != userID {
			continue
		}
		if err := c.send(update); err != nil {
			logging.Warn("Registry", "Failed to deliver %s to client %d: %v", update.Type, c.ID, err)
			continue
		}
		delivered++
	}

	logging.Debug("Registry", "Broadcast %s for user=%s to %d clients", update.Type, userID, delivered)
}

// ClientCount returns the number of currently registered clients.
func (r *Registry) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Shutdown closes every connection and clears the registry. It is
// idempotent; further Register calls are refused.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	r.clients = make(map[uint64]*Client)
	r.mu.Unlock()

	for _, c := range clients {
		c.mu.Lock()
		c.state = stateClosed
		c.subs = make(map[string]struct{})
		c.mu.Unlock()
		c.conn.Close()
	}

	logging.Info("Registry", "Shut down, closed %d connections", len(clients))
}

// snapshot returns the current clients without holding the registry lock
// during sends, so concurrent register/unregister never block a broadcast
// and iteration never observes a partially removed entry.
func (r *Registry) snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out
}
