// Package store provides persistence for password reset sessions.
//
// A reset session is stored as three values under a visitor's scope: the
// session flag, the verified email, and the creation timestamp encoded as
// epoch milliseconds. Three backends are available: an in-process map for
// single-instance deployments, Redis for multi-instance deployments, and a
// SQL database where Redis is not available.
//
// Backends never evict a session at its logical expiry. An expired session
// must remain observable so the validator can distinguish "expired" from
// "never established"; garbage collection only removes records well past
// the expiry window.
package store

import (
	"context"

	"github.com/resetgate/resetgate/internal/models"
)

// SessionStore defines the interface for reset session persistence.
// All methods are safe for concurrent use.
type SessionStore interface {
	// Get retrieves the session stored under the given scope. The record is
	// returned as stored, including sessions past their expiry window; age
	// judgement is the caller's responsibility. It returns a not-found error
	// when no session exists for the scope.
	Get(ctx context.Context, scope string) (*models.ResetSession, error)

	// Create stores a session under its scope, replacing any session already
	// stored there.
	Create(ctx context.Context, session *models.ResetSession) error

	// Clear removes the session stored under the given scope. Clearing a
	// scope with no session is not an error.
	Clear(ctx context.Context, scope string) error
}
