// Package handlers provides HTTP request handlers for the ResetGate API.
// This file defines the service interface the handlers depend on, so tests
// can substitute mocked implementations.
package handlers

import (
	"context"

	"github.com/resetgate/resetgate/internal/models"
)

// ResetServiceInterface defines the methods required from ResetService.
type ResetServiceInterface interface {
	// Validate judges a reset attempt against the session stored under the
	// given scope. It only fails on storage errors; every judgement outcome
	// is expressed in the returned result.
	Validate(ctx context.Context, scope string, in *models.AttemptInput) (*models.AttemptResult, error)

	// CompleteReset re-validates the session and performs the credential
	// reset. It returns the credential service's confirmation message and
	// the path the visitor should be redirected to.
	CompleteReset(ctx context.Context, scope string, in *models.AttemptInput, otp, newPassword string) (string, string, error)

	// CreateSession establishes a reset session for the given email and
	// returns the scope that identifies it.
	CreateSession(ctx context.Context, email string) (string, error)

	// ClearSession removes the session stored under the given scope.
	// Clearing a scope with no session succeeds.
	ClearSession(ctx context.Context, scope string) error
}
