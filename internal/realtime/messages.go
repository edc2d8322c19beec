package realtime

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action is the closed set of client-initiated control actions.
type Action string

const (
	ActionSubscribe   Action = "subscribe"
	ActionUnsubscribe Action = "unsubscribe"
	ActionPing        Action = "ping"
)

// ClientMessage is a decoded control-channel message from a browser client.
type ClientMessage struct {
	Action      Action `json:"action"`
	WorkflowID  string `json:"workflowId,omitempty"`
	ExecutionID string `json:"executionId,omitempty"`
}

// topics returns the topic keys a subscribe/unsubscribe message refers to.
// Both IDs are optional; a message naming neither is a no-op.
func (m ClientMessage) topics() []string {
	var keys []string
	if m.WorkflowID != "" {
		keys = append(keys, WorkflowTopic(m.WorkflowID))
	}
	if m.ExecutionID != "" {
		keys = append(keys, ExecutionTopic(m.ExecutionID))
	}
	return keys
}

// DecodeClientMessage parses raw control-channel input into a validated
// ClientMessage. It fails on unparseable JSON and on messages without an
// action; unknown actions decode successfully and are ignored by the
// registry.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("malformed control message: %w", err)
	}
	if msg.Action == "" {
		return ClientMessage{}, fmt.Errorf("malformed control message: missing action")
	}
	return msg, nil
}

// WorkflowTopic returns the topic key for updates about a workflow.
func WorkflowTopic(workflowID string) string {
	return "workflow:" + workflowID
}

// ExecutionTopic returns the topic key for updates about one execution.
func ExecutionTopic(executionID string) string {
	return "execution:" + executionID
}

// serverMessage is a control reply sent to a single client: the connect
// acknowledgement and pong replies.
type serverMessage struct {
	Type      string    `json:"type"`
	ClientID  uint64    `json:"clientId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	messageTypeConnected = "connected"
	messageTypePong      = "pong"
)
