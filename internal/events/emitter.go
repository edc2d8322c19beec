package events

import (
	"time"

	"agentflow/pkg/logging"
)

// Broadcaster fans an update out to interested clients. Implementations
// must not block indefinitely; delivery is best-effort.
type Broadcaster interface {
	Broadcast(update ExecutionUpdate)
}

// Emitter constructs execution lifecycle events and hands them to a
// Broadcaster. One emitter instance is shared by all executions.
type Emitter struct {
	broadcaster Broadcaster
	now         func() time.Time
}

// NewEmitter creates an Emitter that publishes through b.
func NewEmitter(b Broadcaster) *Emitter {
	return &Emitter{
		broadcaster: b,
		now:         time.Now,
	}
}

// ExecutionStarted publishes that a workflow execution began.
func (e *Emitter) ExecutionStarted(executionID, workflowID string) {
	e.emit(ExecutionUpdate{
		Type:        UpdateExecutionStarted,
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		Status:      StatusRunning,
	})
}

// NodeStarted publishes that a node within an execution began running.
func (e *Emitter) NodeStarted(executionID, workflowID, nodeID, nodeName string) {
	e.emit(ExecutionUpdate{
		Type:        UpdateNodeStarted,
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		NodeID:      nodeID,
		NodeName:    nodeName,
		Status:      StatusRunning,
	})
}

// NodeCompleted publishes that a node finished successfully, with its
// output data.
func (e *Emitter) NodeCompleted(executionID, workflowID, nodeID, nodeName string, data any) {
	e.emit(ExecutionUpdate{
		Type:        UpdateNodeCompleted,
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		NodeID:      nodeID,
		NodeName:    nodeName,
		Status:      StatusCompleted,
		Data:        data,
	})
}

// NodeFailed publishes that a node finished with an error.
func (e *Emitter) NodeFailed(executionID, workflowID, nodeID, nodeName string, nodeErr error) {
	update := ExecutionUpdate{
		Type:        UpdateNodeFailed,
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		NodeID:      nodeID,
		NodeName:    nodeName,
		Status:      StatusFailed,
	}
	if nodeErr != nil {
		update.Error = nodeErr.Error()
	}
	e.emit(update)
}

// ExecutionCompleted publishes that the whole execution finished
// successfully, with its final output data.
func (e *Emitter) ExecutionCompleted(executionID, workflowID string, data any) {
	e.emit(ExecutionUpdate{
		Type:        UpdateExecutionCompleted,
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		Status:      StatusCompleted,
		Data:        data,
	})
}

// ExecutionFailed publishes that the whole execution finished with an
// error.
func (e *Emitter) ExecutionFailed(executionID, workflowID string, execErr error) {
	update := ExecutionUpdate{
		Type:        UpdateExecutionFailed,
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		Status:      StatusFailed,
	}
	if execErr != nil {
		update.Error = execErr.Error()
	}
	e.emit(update)
}

func (e *Emitter) emit(update ExecutionUpdate) {
	update.Timestamp = e.now()

	logging.Debug("Events", "Emitting %s for execution=%s workflow=%s node=%s",
		update.Type, update.ExecutionID, update.WorkflowID, update.NodeID)

	e.broadcaster.Broadcast(update)
}
