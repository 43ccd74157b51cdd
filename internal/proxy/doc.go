// Package proxy is the client-side mediator for a remote modeling server.
// It owns a local cache of the server's model snapshot, exposes one method
// per server operation, and fans out change notifications to subscribers
// after any call that may have mutated server-side state. It is structured
// into small files by concern:
//
//   - proxy.go: core Proxy type, options, HTTP request plumbing.
//   - cache.go: get-or-fetch/invalidate holder used by both caches.
//   - listeners.go: subscriber registry and change fanout.
//   - model.go: model-facing operations (snapshot, types, add, command).
//   - files.go: working folder and server file management.
//   - errors.go: error types and helpers (IsPathNotFound, IsStatus).
//   - metrics.go: Prometheus instrumentation for client requests.
//
// All operations block until the server responds and honor the supplied
// context for cancellation. Callers wanting asynchrony run them in their
// own goroutines; the Proxy is safe for concurrent use.
package proxy
