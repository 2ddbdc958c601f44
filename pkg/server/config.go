package server

import (
	"net/http"
	"time"
)

// Config holds configuration for the HTTP/WebSocket server.
type Config struct {
	// Address is the address to listen on (e.g., ":3000" or "localhost:3000").
	// Default: ":3000".
	Address string

	// Title is the page title prefix.
	// Default: "Vela".
	Title string

	// SocketPath is the WebSocket endpoint.
	// Default: "/ws".
	SocketPath string

	// ClientPath is where the browser client is served.
	// Default: "/_vela/client.js".
	ClientPath string

	// MetricsPath serves Prometheus metrics when metrics are enabled.
	// Default: "/metrics".
	MetricsPath string

	// DefaultApp is served when a request names no app.
	// Default: the first app mounted.
	DefaultApp string

	// MaxQueue bounds pending messages per session. 0 means unbounded.
	MaxQueue int

	// Timeouts

	// ReadTimeout is the maximum time to wait for a message or pong from the client.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a frame.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// PingInterval is the time between heartbeat pings. Must be below ReadTimeout.
	// Default: 30 seconds.
	PingInterval time.Duration

	// ReadHeaderTimeout bounds reading request headers.
	// Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// WebSocket limits

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin is called to validate the request origin.
	// Default: same-origin only.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":3000",
		Title:             "Vela",
		SocketPath:        "/ws",
		ClientPath:        "/_vela/client.js",
		MetricsPath:       "/metrics",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxMessageSize:    64 * 1024,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.Title == "" {
		out.Title = d.Title
	}
	if out.SocketPath == "" {
		out.SocketPath = d.SocketPath
	}
	if out.ClientPath == "" {
		out.ClientPath = d.ClientPath
	}
	if out.MetricsPath == "" {
		out.MetricsPath = d.MetricsPath
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.PingInterval == 0 {
		out.PingInterval = d.PingInterval
	}
	if out.PingInterval >= out.ReadTimeout {
		out.PingInterval = out.ReadTimeout / 2
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = d.MaxMessageSize
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = d.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = d.WriteBufferSize
	}
	return &out
}
