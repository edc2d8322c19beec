// Package events defines the execution lifecycle event schema and the typed
// emitter façade the workflow engine uses to publish state transitions.
//
// An ExecutionUpdate describes one transition of an execution or of a single
// node within it. The Emitter constructs updates with consistent status and
// timestamp fields and hands them to a Broadcaster (the connection registry
// in production) for fan-out to subscribed browser clients.
//
// Delivery is best-effort: the emitter never blocks on or learns about
// per-client delivery failures.
package events
