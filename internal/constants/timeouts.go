package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

// Database Timeouts
const (
	DBConnectionTimeout  = 30 * time.Second
	DBQueryTimeout       = 15 * time.Second
	DBHealthCheckTimeout = 5 * time.Second
	DBConnMaxLifetime    = 1 * time.Hour
	DBConnMaxIdleTime    = 30 * time.Minute
)

// Reset Session Timeouts
const (
	// ResetSessionTTL is the validity window of a reset session, measured
	// from its creation timestamp. A session older than this is expired and
	// must be cleared the moment its age is observed.
	ResetSessionTTL = 30 * time.Minute

	// ResetSessionGCFactor scales ResetSessionTTL into the garbage-collection
	// expiry applied by stores that support native key expiry (Redis). The GC
	// window must outlive the session TTL so the validator can observe an
	// expired-but-present session and report Expired rather than NoSession.
	ResetSessionGCFactor = 2

	// SessionSweepInterval is how often the sql backend sweeps sessions
	// past the GC window. The other backends reclaim their own keys.
	SessionSweepInterval = 10 * time.Minute
)

// Credential Service Timeouts
const (
	// DefaultCredentialTimeout bounds a single call to the external
	// credential service. There are no automatic retries.
	DefaultCredentialTimeout = 15 * time.Second
)

// Authentication Timeouts
const (
	DefaultJWTExpiry = 15 * time.Minute
)

// Rate Limiter Housekeeping
const (
	// RateLimiterCleanupInterval is how often idle per-client limiters are reclaimed.
	RateLimiterCleanupInterval = 10 * time.Minute
)
