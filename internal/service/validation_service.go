// Package service implements the business logic of the reset flow: judging
// whether a visitor holds a usable reset session and completing a credential
// reset against the external credential service.
package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/resetgate/resetgate/internal/constants"
	"github.com/resetgate/resetgate/internal/models"
	"github.com/resetgate/resetgate/internal/store"
	"github.com/resetgate/resetgate/internal/utils"
)

// ValidationService judges reset attempts against the stored session.
type ValidationService struct {
	sessions store.SessionStore
	ttl      time.Duration
}

// NewValidationService creates a new ValidationService
func NewValidationService(sessions store.SessionStore, ttl time.Duration) *ValidationService {
	return &ValidationService{
		sessions: sessions,
		ttl:      ttl,
	}
}

// Validate reconciles the presented identity sources against the session
// stored under the given scope and produces a verdict.
//
// The decision procedure, in order:
//  1. An already-authenticated visitor is sent home; the reset flow is not
//     for them. The stored session is left untouched.
//  2. No stored session, a session without its flag, or a session with no
//     bound email is an invalid attempt pointing back to the
//     forgot-password flow.
//  3. A session older than the allowed window is expired. The session is
//     cleared here, so a retry becomes case 2.
//  4. The candidate email is chosen by provenance: a navigation email
//     handed over by the forgot-password flow wins, then the decoded URL
//     email, then the stored email itself.
//  5. A candidate that does not match the stored email is rejected. The
//     stored session is left untouched; only the presented identity is
//     judged bad.
//
// Only storage failures surface as errors; every judgement outcome is
// expressed in the returned result.
func (s *ValidationService) Validate(ctx context.Context, scope string, in *models.AttemptInput) (*models.AttemptResult, error) {
	if in.Authenticated {
		return &models.AttemptResult{
			Verdict:    models.VerdictInvalid,
			Reason:     models.ReasonAuthenticated,
			RedirectTo: constants.RedirectHome,
			Message:    constants.MsgAlreadyAuthenticated,
		}, nil
	}

	session, err := s.sessions.Get(ctx, scope)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return s.noSession(scope), nil
		}
		return nil, fmt.Errorf("failed to load reset session: %w", err)
	}

	if !session.Active || session.Email == "" {
		return s.noSession(scope), nil
	}

	now := in.At()
	if session.IsExpired(now, s.ttl) {
		// The session is burned the moment it is seen expired. A clear
		// failure is logged but the verdict stands.
		if err := s.sessions.Clear(ctx, scope); err != nil {
			log.Error().Err(err).Str("scope", scope).Msg("Failed to clear expired reset session")
		}

		utils.LogReset(constants.LogEventValidate, scope, string(models.VerdictExpired), false, "session past expiry window")
		return &models.AttemptResult{
			Verdict:    models.VerdictExpired,
			Reason:     models.ReasonExpired,
			RedirectTo: constants.RedirectForget,
			Message:    constants.MsgSessionExpired,
		}, nil
	}

	candidate, ok := candidateEmail(session, in)
	if !ok || candidate != session.Email {
		utils.LogReset(constants.LogEventValidate, scope, string(models.VerdictInvalid), false, "email mismatch")
		return &models.AttemptResult{
			Verdict:    models.VerdictInvalid,
			Reason:     models.ReasonEmailMismatch,
			RedirectTo: constants.RedirectForget,
			Message:    constants.MsgInvalidEmail,
		}, nil
	}

	utils.LogReset(constants.LogEventValidate, scope, string(models.VerdictValid), true, "")
	return &models.AttemptResult{
		Verdict: models.VerdictValid,
		Email:   session.Email,
	}, nil
}

// noSession is the verdict for a scope with no usable session.
func (s *ValidationService) noSession(scope string) *models.AttemptResult {
	utils.LogReset(constants.LogEventValidate, scope, string(models.VerdictInvalid), false, "no session")
	return &models.AttemptResult{
		Verdict:    models.VerdictInvalid,
		Reason:     models.ReasonNoSession,
		RedirectTo: constants.RedirectForget,
		Message:    constants.MsgInvalidAccess,
	}
}

// candidateEmail selects the email a validation attempt is judged against.
// A navigation email is only trusted when it was handed over by the
// forgot-password flow; the URL email is percent-decoded before use; with
// neither presented, the stored email stands in for itself.
//
// The second return value is false when the URL email cannot be decoded,
// which is treated as a mismatch.
func candidateEmail(session *models.ResetSession, in *models.AttemptInput) (string, bool) {
	if in.FromForgetPassword && in.NavEmail != "" {
		return in.NavEmail, true
	}

	if in.URLEmail != "" {
		decoded, err := url.PathUnescape(in.URLEmail)
		if err != nil {
			return "", false
		}
		return decoded, true
	}

	return session.Email, true
}
