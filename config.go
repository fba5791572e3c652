// Package apikit holds the constants shared between the client wrapper, the
// CLI and the local stub API server.
package apikit

import "time"

const (
	// DefaultBaseURL is where the stub API server listens during local development.
	DefaultBaseURL = "http://localhost:3000/api"

	DefaultContentType = "application/json"

	// DefaultRequestTimeout bounds each client call end to end. The timeout is
	// fixed when the client is constructed and is not overridable per call.
	DefaultRequestTimeout = 10 * time.Second

	// Auth constants for the stub API server
	AccessTokenExpiry = 30 * time.Minute // JWT access token lifetime
	BcryptCost        = 10               // bcrypt.DefaultCost
	TokenIssuerName   = "apikit-stub"

	// Operational timeouts
	ServerShutdownTimeout = 10 * time.Second

	// CORS settings
	CORSMaxAgeInSeconds = 86400 // 24 hours
)
