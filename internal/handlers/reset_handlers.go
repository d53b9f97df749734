package handlers

import (
	"net/http"
	"time"

	"github.com/resetgate/resetgate/internal/auth"
	"github.com/resetgate/resetgate/internal/constants"
	"github.com/resetgate/resetgate/internal/models"
	"github.com/resetgate/resetgate/internal/utils"
)

// ResetHandler handles the reset flow routes
type ResetHandler struct {
	resetService ResetServiceInterface
	sessionTTL   time.Duration
	secureCookie bool
}

// NewResetHandler creates a new ResetHandler
func NewResetHandler(resetService ResetServiceInterface, sessionTTL time.Duration, secureCookie bool) *ResetHandler {
	return &ResetHandler{
		resetService: resetService,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
	}
}

// Validate judges whether the caller may stay on the reset page. The verdict
// is always returned with status 200; only storage failures produce an error
// response.
func (h *ResetHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	input := &models.AttemptInput{
		URLEmail:           req.URLEmail,
		NavEmail:           req.NavEmail,
		FromForgetPassword: req.FromForgetPassword,
		Authenticated:      auth.IsAuthenticated(r),
	}

	result, err := h.resetService.Validate(r.Context(), h.scopeFromRequest(r), input)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, constants.StatusOK, result)
}

// Submit performs the credential reset for the caller's session
func (h *ResetHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	input := &models.AttemptInput{
		URLEmail:           req.URLEmail,
		NavEmail:           req.NavEmail,
		FromForgetPassword: req.FromForgetPassword,
		Authenticated:      auth.IsAuthenticated(r),
	}

	message, redirect, err := h.resetService.CompleteReset(r.Context(), h.scopeFromRequest(r), input, req.OTP, req.NewPassword)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	h.expireScopeCookie(w)
	utils.JSON(w, constants.StatusOK, map[string]string{
		"message":     message,
		"redirect_to": redirect,
	})
}

// CreateSession establishes a reset session and hands the scope back both in
// the body and as a cookie, so browser clients need no extra plumbing.
func (h *ResetHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	scope, err := h.resetService.CreateSession(r.Context(), req.Email)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     constants.ResetScopeCookie,
		Value:    scope,
		Path:     constants.ResetBasePath,
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	utils.JSON(w, constants.StatusCreated, models.CreateSessionResponse{Scope: scope})
}

// ClearSession removes the caller's reset session
func (h *ResetHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	scope := h.scopeFromRequest(r)
	if scope == "" {
		h.expireScopeCookie(w)
		utils.JSON(w, constants.StatusOK, map[string]string{
			"message":     constants.MsgSessionCleared,
			"redirect_to": constants.RedirectLogin,
		})
		return
	}

	if err := h.resetService.ClearSession(r.Context(), scope); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	h.expireScopeCookie(w)
	utils.JSON(w, constants.StatusOK, map[string]string{
		"message":     constants.MsgSessionCleared,
		"redirect_to": constants.RedirectLogin,
	})
}

// scopeFromRequest reads the scope identifier from the X-Reset-Scope header,
// falling back to the scope cookie. An empty scope is judged like any other
// unknown scope, so callers without a session get the no-session verdict.
func (h *ResetHandler) scopeFromRequest(r *http.Request) string {
	if scope := r.Header.Get(constants.HeaderXResetScope); scope != "" {
		return scope
	}

	cookie, err := r.Cookie(constants.ResetScopeCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *ResetHandler) expireScopeCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.ResetScopeCookie,
		Value:    "",
		Path:     constants.ResetBasePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
