// Package server provides the HTTP side of drivekit: the webhook
// endpoint for Drive push notifications, health probes, and the
// dedicated Prometheus metrics server.
//
// # Key Components
//
// ServerContext manages Drive clients with lazy initialization and
// caching, keyed by account name.
//
// NotificationHandler receives Drive change notifications (the
// X-Goog-* header protocol) and dispatches them to a callback after
// verifying the channel token.
//
// HealthChecker exposes /healthz, /readyz, and /healthz/detailed for
// Kubernetes probes.
//
// MetricsServer serves /metrics on a dedicated port so operational
// metrics stay off the notification listener.
//
// # Security
//
// Watch channels should be registered with a token; the handler
// rejects notifications whose token does not match with 403 and never
// logs token contents.
package server
