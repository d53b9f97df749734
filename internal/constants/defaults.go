// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide sensible defaults for configuration settings, establish
// boundaries for resource usage, and define security parameters. Changes to these
// values may significantly impact application behavior and security.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
// These constants provide sensible defaults for core application settings.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultStoreBackend is the session store backend used when none is configured.
	DefaultStoreBackend = "memory"

	// DefaultRedisAddr is the default address for the Redis session store.
	DefaultRedisAddr = "localhost:6379"
)

// Environment Types define the recognized application running environments.
// These constants are used to adjust behavior based on the deployment environment.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Request Limits define the maximum allowed sizes for client input.
// These constants help prevent denial of service via excessive resource consumption.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1048576 // 1MB in bytes

	// MaxEmailLength is the maximum accepted length for an email address in any
	// identity source (navigation state, URL parameter, or stored session).
	MaxEmailLength = 254
)

// Rate Limit Defaults define the token-bucket parameters applied to the
// reset endpoints when not overridden by configuration. The reset flow is a
// brute-force target (OTP guessing), so the submit category is tighter than
// the general default.
const (
	// DefaultRateLimitPerSecond is the default token refill rate per client.
	DefaultRateLimitPerSecond = 5.0

	// DefaultRateLimitBurst is the default bucket capacity per client.
	DefaultRateLimitBurst = 10

	// SubmitRateLimitPerSecond is the refill rate for reset submissions.
	SubmitRateLimitPerSecond = 0.5

	// SubmitRateLimitBurst is the bucket capacity for reset submissions.
	SubmitRateLimitBurst = 3

	// RateLimitCategoryAPI is the limiter category for general API traffic.
	RateLimitCategoryAPI = "api"

	// RateLimitCategorySubmit is the limiter category for reset submissions.
	RateLimitCategorySubmit = "submit"
)

// Auth Constants define values related to token handling.
// These constants control authentication token behavior.
const (
	// DefaultJWTIssuer is the issuer claim value expected on application tokens.
	DefaultJWTIssuer = "resetgate-api"

	// BearerTokenPrefix is the prefix for Authorization header bearer tokens.
	BearerTokenPrefix = "Bearer "

	// TokenTypeAccess is the token_type claim value for access tokens.
	TokenTypeAccess = "access"

	// AuthTokenCookie is the cookie the web application stores its access
	// token in. It is read as a fallback when no Authorization header is set.
	AuthTokenCookie = "auth_token"
)
