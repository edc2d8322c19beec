// Package server hosts the HTTP surface of the agentflow backend services.
//
// It exposes three endpoints:
//   - GET /ws: the WebSocket connection endpoint for browser clients,
//     handled by the realtime connection registry
//   - GET /healthz: liveness probe with the current client count
//   - POST /api/v1/events: broadcast ingress for an out-of-process workflow
//     engine handing ExecutionUpdates to the broadcaster
//
// The server supports graceful shutdown: in-flight requests are drained and
// the connection registry is shut down before Run returns.
package server
