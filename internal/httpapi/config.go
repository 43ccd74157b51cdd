package httpapi

import "sync/atomic"

// maxBodyBytes controls the maximum allowed request body size for JSON
// endpoints. Defaults to 1 MiB.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// commandTimeout controls the maximum duration a /command request may run
// before timing out. Zero means no additional timeout beyond
// server/connection timeouts.
var commandTimeout atomic.Int64 // seconds

// SetCommandTimeoutSeconds sets the command timeout in seconds (0 disables).
func SetCommandTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	commandTimeout.Store(sec)
}

func commandTimeoutSeconds() int64 { return commandTimeout.Load() }

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
