// Package realtime implements the connection registry that distributes
// execution lifecycle events to browser clients over WebSocket connections.
//
// Each connection is assigned a process-unique client ID and an initially
// empty set of topic subscriptions. Clients manage subscriptions through a
// small JSON control protocol (subscribe, unsubscribe, ping); the registry
// fans ExecutionUpdates out to every open connection subscribed to the
// update's workflow or execution topic and can additionally target all
// connections registered to a given user.
//
// Delivery is best-effort: a failed send to one client is logged and never
// interrupts delivery to the others, and nothing is retried or acknowledged.
// Malformed control messages are logged and ignored without closing the
// connection.
package realtime
