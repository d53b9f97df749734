package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/resetgate/resetgate/internal/constants"
	"github.com/resetgate/resetgate/internal/credential"
	"github.com/resetgate/resetgate/internal/models"
	"github.com/resetgate/resetgate/internal/store"
	"github.com/resetgate/resetgate/internal/utils"
)

// ResetService completes credential resets and manages session lifecycle.
type ResetService struct {
	sessions    store.SessionStore
	validator   *ValidationService
	credentials credential.Service
}

// NewResetService creates a new ResetService
func NewResetService(sessions store.SessionStore, validator *ValidationService, credentials credential.Service) *ResetService {
	return &ResetService{
		sessions:    sessions,
		validator:   validator,
		credentials: credentials,
	}
}

// CompleteReset performs a credential reset for the caller's session. It
// returns the credential service's confirmation message and the redirect
// target on success.
//
// The session is re-validated from the store first; the email handed to the
// credential service always comes from that fresh validation, never from the
// submission itself. On success the session is cleared so it cannot
// authorize a second reset, and the caller is sent to the login page. When
// the credential service declines or cannot be reached, the session is left
// intact so the visitor may retry.
func (s *ResetService) CompleteReset(ctx context.Context, scope string, in *models.AttemptInput, otp, newPassword string) (string, string, error) {
	result, err := s.validator.Validate(ctx, scope, in)
	if err != nil {
		return "", "", err
	}

	if !result.Allowed() {
		return "", "", verdictError(result)
	}

	message, err := s.credentials.ResetPassword(ctx, result.Email, otp, newPassword)
	if err != nil {
		utils.LogReset(constants.LogEventSubmit, scope, string(result.Verdict), false, "credential service error")
		return "", "", err
	}

	// One reset per session
	if err := s.sessions.Clear(ctx, scope); err != nil {
		log.Error().Err(err).Str("scope", scope).Msg("Failed to clear reset session after successful reset")
	}

	utils.LogReset(constants.LogEventSubmit, scope, string(result.Verdict), true, "")
	return message, constants.RedirectLogin, nil
}

// CreateSession establishes a reset session for the given email and returns
// the scope that identifies it. It is called by the forgot-password flow
// after a one-time code has been verified.
func (s *ResetService) CreateSession(ctx context.Context, email string) (string, error) {
	if !utils.IsValidEmail(email) {
		return "", utils.NewValidationError("email", "Must be a valid email address")
	}

	scope := uuid.NewString()
	session := models.NewResetSession(scope, email)

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create reset session: %w", err)
	}

	log.Info().Str("scope", scope).Msg("Reset session established")
	return scope, nil
}

// ClearSession removes the session stored under the given scope. Clearing a
// scope with no session succeeds.
func (s *ResetService) ClearSession(ctx context.Context, scope string) error {
	if err := s.sessions.Clear(ctx, scope); err != nil {
		return fmt.Errorf("failed to clear reset session: %w", err)
	}
	return nil
}

// Validate exposes the underlying validator so callers can judge an attempt
// without submitting.
func (s *ResetService) Validate(ctx context.Context, scope string, in *models.AttemptInput) (*models.AttemptResult, error) {
	return s.validator.Validate(ctx, scope, in)
}

// verdictError converts a non-valid verdict into the application error a
// submission should fail with. Classification follows the result's reason,
// never its user-facing message.
func verdictError(result *models.AttemptResult) *utils.AppError {
	switch result.Reason {
	case models.ReasonExpired:
		return utils.NewSessionExpiredError()
	case models.ReasonEmailMismatch:
		return utils.NewEmailMismatchError()
	case models.ReasonAuthenticated:
		return &utils.AppError{
			Err:        utils.ErrForbidden,
			StatusCode: http.StatusForbidden,
			Message:    constants.MsgAlreadyAuthenticated,
			RedirectTo: constants.RedirectHome,
		}
	default:
		return utils.NewNoSessionError()
	}
}
