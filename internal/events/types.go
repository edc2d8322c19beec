package events

import (
	"time"
)

// UpdateType identifies which lifecycle transition an ExecutionUpdate
// describes.
type UpdateType string

const (
	// UpdateExecutionStarted indicates a workflow execution began.
	UpdateExecutionStarted UpdateType = "execution_started"

	// UpdateNodeStarted indicates a node within an execution began running.
	UpdateNodeStarted UpdateType = "node_started"

	// UpdateNodeCompleted indicates a node finished successfully.
	UpdateNodeCompleted UpdateType = "node_completed"

	// UpdateNodeFailed indicates a node finished with an error.
	UpdateNodeFailed UpdateType = "node_failed"

	// UpdateExecutionCompleted indicates the whole execution finished
	// successfully.
	UpdateExecutionCompleted UpdateType = "execution_completed"

	// UpdateExecutionFailed indicates the whole execution finished with an
	// error.
	UpdateExecutionFailed UpdateType = "execution_failed"
)

// Execution status values carried on updates.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ExecutionUpdate is the broadcast payload sent to subscribed clients.
// Timestamp serializes as RFC 3339, which is what browser clients parse.
type ExecutionUpdate struct {
	Type        UpdateType `json:"type"`
	ExecutionID string     `json:"executionId"`
	WorkflowID  string     `json:"workflowId"`
	NodeID      string     `json:"nodeId,omitempty"`
	NodeName    string     `json:"nodeName,omitempty"`
	Status      string     `json:"status"`
	Data        any        `json:"data,omitempty"`
	Error       string     `json:"error,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

// KnownUpdateType reports whether t is one of the defined lifecycle
// transition types.
func KnownUpdateType(t UpdateType) bool {
	switch t {
	case UpdateExecutionStarted, UpdateNodeStarted, UpdateNodeCompleted,
		UpdateNodeFailed, UpdateExecutionCompleted, UpdateExecutionFailed:
		return true
	default:
		return false
	}
}
