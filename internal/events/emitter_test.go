package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureBroadcaster struct {
	updates []ExecutionUpdate
}

func (c *captureBroadcaster) Broadcast(update ExecutionUpdate) {
	c.updates = append(c.updates, update)
}

func newTestEmitter() (*Emitter, *captureBroadcaster) {
	b := &captureBroadcaster{}
	e := NewEmitter(b)
	e.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return e, b
}

func TestEmitter_ExecutionStarted(t *testing.T) {
	e, b := newTestEmitter()

	e.ExecutionStarted("exec-1", "wf-1")

	require.Len(t, b.updates, 1)
	update := b.updates[0]
	assert.Equal(t, UpdateExecutionStarted, update.Type)
	assert.Equal(t, "exec-1", update.ExecutionID)
	assert.Equal(t, "wf-1", update.WorkflowID)
	assert.Equal(t, StatusRunning, update.Status)
	assert.False(t, update.Timestamp.IsZero())
}

func TestEmitter_NodeLifecycle(t *testing.T) {
	e, b := newTestEmitter()

	e.NodeStarted("exec-1", "wf-1", "node-1", "Fetch items")
	e.NodeCompleted("exec-1", "wf-1", "node-1", "Fetch items", map[string]any{"count": 3})
	e.NodeFailed("exec-1", "wf-1", "node-2", "Send mail", errors.New("smtp timeout"))

	require.Len(t, b.updates, 3)

	started := b.updates[0]
	assert.Equal(t, UpdateNodeStarted, started.Type)
	assert.Equal(t, "node-1", started.NodeID)
	assert.Equal(t, "Fetch items", started.NodeName)
	assert.Equal(t, StatusRunning, started.Status)

	completed := b.updates[1]
	assert.Equal(t, UpdateNodeCompleted, completed.Type)
	assert.Equal(t, StatusCompleted, completed.Status)
	assert.Equal(t, map[string]any{"count": 3}, completed.Data)

	failed := b.updates[2]
	assert.Equal(t, UpdateNodeFailed, failed.Type)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "smtp timeout", failed.Error)
}

func TestEmitter_ExecutionCompletedAndFailed(t *testing.T) {
	e, b := newTestEmitter()

	e.ExecutionCompleted("exec-1", "wf-1", map[string]any{"result": "ok"})
	e.ExecutionFailed("exec-2", "wf-1", errors.New("node-2 failed"))

	require.Len(t, b.updates, 2)

	completed := b.updates[0]
	assert.Equal(t, UpdateExecutionCompleted, completed.Type)
	assert.Equal(t, StatusCompleted, completed.Status)
	assert.Empty(t, completed.Error)

	failed := b.updates[1]
	assert.Equal(t, UpdateExecutionFailed, failed.Type)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "node-2 failed", failed.Error)
}

func TestKnownUpdateType(t *testing.T) {
	for _, typ := range []UpdateType{
		UpdateExecutionStarted, UpdateNodeStarted, UpdateNodeCompleted,
		UpdateNodeFailed, UpdateExecutionCompleted, UpdateExecutionFailed,
	} {
		assert.True(t, KnownUpdateType(typ), "%s should be known", typ)
	}

	assert.False(t, KnownUpdateType("execution_paused"))
	assert.False(t, KnownUpdateType(""))
}
