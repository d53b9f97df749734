// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines general-purpose constants related to
// request context propagation. These constants ensure consistent context key
// usage between the middleware that populates request identity and the
// handlers that consume it.
package constants

// Context Keys name the values the identity middleware stores on the request
// context. The auth package wraps them in a typed key to prevent collisions.
const (
	// UserIDContextKey stores the authenticated user's ID.
	UserIDContextKey = "user_id"

	// UsernameContextKey stores the authenticated user's username.
	UsernameContextKey = "username"

	// EmailContextKey stores the authenticated user's email.
	EmailContextKey = "email"

	// AuthenticatedContextKey stores whether a valid principal was presented.
	AuthenticatedContextKey = "authenticated"

	// RequestIDContextKey stores the unique request ID.
	RequestIDContextKey = "request_id"
)
