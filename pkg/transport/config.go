// Package transport wires pkg/renderer onto the network: an HTTP server
// that upgrades connections to WebSocket, serves the thin client's boot
// document and the dynamically-built ES-module shims (pkg/assets), and exposes Prometheus
// metrics. Grounded on the teacher's pkg/server (server.go, websocket.go,
// config.go), trimmed to the slice of that package spec.md's Non-goals
// leave in scope: no auth, no CSRF, no session persistence/resume, no
// router codegen.
package transport

import (
	"net/http"
	"time"
)

// Config holds configuration for the HTTP/WebSocket server (SPEC_FULL.md
// §B). Adapted from the teacher's ServerConfig/SessionConfig: address and
// buffer-size fields keep the teacher's names and defaults, the
// reconnect-backoff fields keep the teacher's ReconnectConfig shape
// flattened (this package has no per-session sub-struct since sessions
// aren't modeled here), and the auth/CSRF/persistence fields are dropped
// entirely since those concerns are out of scope.
type Config struct {
	// Address is the address to listen on (e.g. ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// DebugMode sets Layout.Debug on every layout this server creates:
	// VDOM schema validation, missing-key warnings, and render-failure
	// messages in the emitted tree. It does not set pkg/hooks.DebugMode;
	// hook-order checks run either way.
	// Default: false.
	DebugMode bool

	// URLPrefix is prepended to every route this server mounts (the
	// WebSocket endpoint, the module-fetch endpoint, and the thin client),
	// letting it be mounted under a path other than "/". Default: "".
	URLPrefix string

	// ServeStaticFiles mounts the module-fetch endpoint (when a Store is
	// configured). When false, that endpoint is not mounted; the
	// WebSocket, metrics, and index routes are unaffected. This server
	// does not serve the thin client's JS bundle either way.
	// Default: true.
	ServeStaticFiles bool

	// RedirectRootToIndex serves the thin client's index document for any
	// path that does not match the WebSocket or module-fetch routes,
	// instead of a 404. Default: true.
	RedirectRootToIndex bool

	// ReconnectMaxIntervalMS caps the client's reconnect backoff delay, in
	// milliseconds. Default: 30000 (30s), matching the teacher's
	// ReconnectConfig.MaxDelay.
	ReconnectMaxIntervalMS int

	// ReconnectMaxRetries caps how many reconnect attempts the client
	// makes before giving up. Default: 10, matching the teacher's
	// ReconnectConfig.MaxRetries.
	ReconnectMaxRetries int

	// ReconnectBackoffRate is the exponential backoff multiplier applied
	// between reconnect attempts. Default: 1.5.
	ReconnectBackoffRate float64

	// ReconnectJitter is the fraction of random jitter applied to each
	// backoff delay, in [0,1), to avoid a reconnect thundering herd.
	// Default: 0.2.
	ReconnectJitter float64

	// ReadBufferSize is the WebSocket read buffer size. Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size. Default: 4096.
	WriteBufferSize int

	// MaxMessageSize is the maximum size of an incoming WebSocket message,
	// in bytes. Default: 64KB.
	MaxMessageSize int64

	// HandshakeTimeout is the maximum time to wait for the WebSocket
	// upgrade handshake. Default: 10 seconds.
	HandshakeTimeout time.Duration

	// HistoryCapacity is the number of recent patch batches kept for
	// resync (SPEC_FULL.md §D.1), passed to renderer.New. Default: 100.
	HistoryCapacity int

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// CheckOrigin validates the WebSocket upgrade request's origin.
	// Default: rejects cross-origin requests (see SameOriginCheck).
	CheckOrigin func(r *http.Request) bool

	// MetricsPath is the path the Prometheus handler is mounted on.
	// Empty disables the metrics endpoint. Default: "/metrics".
	MetricsPath string
}

// DefaultConfig returns a Config with sensible defaults, following the
// teacher's DefaultServerConfig/DefaultReconnectConfig pattern.
func DefaultConfig() *Config {
	return &Config{
		Address:                ":8080",
		DebugMode:              false,
		URLPrefix:              "",
		ServeStaticFiles:       true,
		RedirectRootToIndex:    true,
		ReconnectMaxIntervalMS: 30000,
		ReconnectMaxRetries:    10,
		ReconnectBackoffRate:   1.5,
		ReconnectJitter:        0.2,
		ReadBufferSize:         4096,
		WriteBufferSize:        4096,
		MaxMessageSize:         64 * 1024,
		HandshakeTimeout:       10 * time.Second,
		HistoryCapacity:        100,
		ShutdownTimeout:        30 * time.Second,
		CheckOrigin:            SameOriginCheck,
		MetricsPath:            "/metrics",
	}
}

// applyDefaults fills zero-valued fields of c from DefaultConfig, the
// same "merge with defaults" approach the teacher's server.New uses. The
// boolean fields, URLPrefix, ReconnectJitter, and MetricsPath are left as
// given, since their zero values are valid settings.
func (c *Config) applyDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.ReconnectMaxIntervalMS == 0 {
		c.ReconnectMaxIntervalMS = d.ReconnectMaxIntervalMS
	}
	if c.ReconnectMaxRetries == 0 {
		c.ReconnectMaxRetries = d.ReconnectMaxRetries
	}
	if c.ReconnectBackoffRate == 0 {
		c.ReconnectBackoffRate = d.ReconnectBackoffRate
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = d.WriteBufferSize
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = d.HandshakeTimeout
	}
	if c.HistoryCapacity == 0 {
		c.HistoryCapacity = d.HistoryCapacity
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = d.CheckOrigin
	}
	return c
}
