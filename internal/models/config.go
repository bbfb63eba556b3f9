// Package models contains the data structures used throughout wol-server.
package models

import "time"

// ServerConfig holds the complete configuration for a server process.
// It is built once at startup and treated as read-only afterwards.
type ServerConfig struct {
	Listen    ListenConfig
	TLS       TLSConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

// ListenConfig holds the HTTP listener settings.
type ListenConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// TLSConfig holds the TLS settings of the HTTP listener.
type TLSConfig struct {
	Enabled  bool
	CertFile string // PEM certificate chain
	KeyFile  string // PEM private key
}

// AuthConfig holds the shared secrets of the cookie token.
type AuthConfig struct {
	SecretKey   string
	SecretValue string
	CookieName  string
}

// RateLimitConfig defines the per-client request budget.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}
