package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resetgate/resetgate/internal/constants"
	"github.com/resetgate/resetgate/internal/models"
	"github.com/resetgate/resetgate/internal/utils"
)

type MockCredentialService struct {
	message string
	err     error

	calls        int
	lastEmail    string
	lastOTP      string
	lastPassword string
}

func (m *MockCredentialService) ResetPassword(ctx context.Context, email, otp, newPassword string) (string, error) {
	m.calls++
	m.lastEmail = email
	m.lastOTP = otp
	m.lastPassword = newPassword
	if m.err != nil {
		return "", m.err
	}
	if m.message == "" {
		return constants.MsgResetSuccess, nil
	}
	return m.message, nil
}

func setupResetTest() (*ResetService, *MockSessionStore, *MockCredentialService) {
	sessions := NewMockSessionStore()
	credentials := &MockCredentialService{}
	validator := NewValidationService(sessions, testTTL)

	return NewResetService(sessions, validator, credentials), sessions, credentials
}

func TestResetService_CompleteReset_Success(t *testing.T) {
	now := time.Now()

	service, sessions, credentials := setupResetTest()
	sessions.sessions[testScope] = activeSession(now)

	message, redirect, err := service.CompleteReset(context.Background(), testScope, &models.AttemptInput{Now: now}, "123456", "new-password-1")
	if err != nil {
		t.Fatalf("CompleteReset() error = %v", err)
	}

	if redirect != constants.RedirectLogin {
		t.Errorf("Expected redirect %q, got %q", constants.RedirectLogin, redirect)
	}

	if message != constants.MsgResetSuccess {
		t.Errorf("Expected message %q, got %q", constants.MsgResetSuccess, message)
	}

	if credentials.calls != 1 {
		t.Fatalf("Expected 1 credential service call, got %d", credentials.calls)
	}

	// The email must come from the stored session, not the submission
	if credentials.lastEmail != testEmail {
		t.Errorf("Expected email %q, got %q", testEmail, credentials.lastEmail)
	}

	if credentials.lastOTP != "123456" {
		t.Errorf("Expected OTP %q, got %q", "123456", credentials.lastOTP)
	}

	if credentials.lastPassword != "new-password-1" {
		t.Errorf("Expected password %q, got %q", "new-password-1", credentials.lastPassword)
	}

	// A successful reset burns the session
	if _, ok := sessions.sessions[testScope]; ok {
		t.Error("Expected session to be cleared after a successful reset")
	}
}

func TestResetService_CompleteReset_SessionEmailWinsOverSubmission(t *testing.T) {
	now := time.Now()

	service, sessions, credentials := setupResetTest()
	sessions.sessions[testScope] = activeSession(now)

	// The nav email matches the session, so validation passes; the
	// credential service still gets the stored email.
	input := &models.AttemptInput{
		NavEmail:           testEmail,
		FromForgetPassword: true,
		Now:                now,
	}

	if _, _, err := service.CompleteReset(context.Background(), testScope, input, "123456", "new-password-1"); err != nil {
		t.Fatalf("CompleteReset() error = %v", err)
	}

	if credentials.lastEmail != testEmail {
		t.Errorf("Expected email %q, got %q", testEmail, credentials.lastEmail)
	}
}

func TestResetService_CompleteReset_NoSession(t *testing.T) {
	service, _, credentials := setupResetTest()

	_, _, err := service.CompleteReset(context.Background(), testScope, &models.AttemptInput{}, "123456", "new-password-1")
	if err == nil {
		t.Fatal("Expected error for missing session")
	}

	appErr := utils.ParseError(err)
	if !errors.Is(appErr.Err, utils.ErrNoSession) {
		t.Errorf("Expected no session error, got %v", appErr.Err)
	}

	if appErr.StatusCode != constants.StatusForbidden {
		t.Errorf("Expected status %d, got %d", constants.StatusForbidden, appErr.StatusCode)
	}

	if credentials.calls != 0 {
		t.Errorf("Expected no credential service calls, got %d", credentials.calls)
	}
}

func TestResetService_CompleteReset_Expired(t *testing.T) {
	now := time.Now()

	service, sessions, credentials := setupResetTest()
	sessions.sessions[testScope] = activeSession(now.Add(-testTTL - time.Minute))

	_, _, err := service.CompleteReset(context.Background(), testScope, &models.AttemptInput{Now: now}, "123456", "new-password-1")
	if err == nil {
		t.Fatal("Expected error for expired session")
	}

	appErr := utils.ParseError(err)
	if !errors.Is(appErr.Err, utils.ErrSessionExpired) {
		t.Errorf("Expected session expired error, got %v", appErr.Err)
	}

	if appErr.StatusCode != constants.StatusGone {
		t.Errorf("Expected status %d, got %d", constants.StatusGone, appErr.StatusCode)
	}

	if appErr.RedirectTo != constants.RedirectForget {
		t.Errorf("Expected redirect %q, got %q", constants.RedirectForget, appErr.RedirectTo)
	}

	if credentials.calls != 0 {
		t.Errorf("Expected no credential service calls, got %d", credentials.calls)
	}

	// Re-validation on submit burns the expired session too
	if _, ok := sessions.sessions[testScope]; ok {
		t.Error("Expected expired session to be cleared")
	}
}

func TestResetService_CompleteReset_EmailMismatch(t *testing.T) {
	now := time.Now()

	service, sessions, credentials := setupResetTest()
	sessions.sessions[testScope] = activeSession(now)

	input := &models.AttemptInput{
		URLEmail: "someone-else@example.com",
		Now:      now,
	}

	_, _, err := service.CompleteReset(context.Background(), testScope, input, "123456", "new-password-1")
	if err == nil {
		t.Fatal("Expected error for email mismatch")
	}

	appErr := utils.ParseError(err)
	if !errors.Is(appErr.Err, utils.ErrEmailMismatch) {
		t.Errorf("Expected email mismatch error, got %v", appErr.Err)
	}

	if credentials.calls != 0 {
		t.Errorf("Expected no credential service calls, got %d", credentials.calls)
	}

	// A bad submission never burns the session
	if _, ok := sessions.sessions[testScope]; !ok {
		t.Error("Expected session to remain after a mismatched submission")
	}
}

func TestResetService_CompleteReset_Authenticated(t *testing.T) {
	now := time.Now()

	service, sessions, credentials := setupResetTest()
	sessions.sessions[testScope] = activeSession(now)

	input := &models.AttemptInput{
		Authenticated: true,
		Now:           now,
	}

	_, _, err := service.CompleteReset(context.Background(), testScope, input, "123456", "new-password-1")
	if err == nil {
		t.Fatal("Expected error for authenticated visitor")
	}

	appErr := utils.ParseError(err)
	if appErr.RedirectTo != constants.RedirectHome {
		t.Errorf("Expected redirect %q, got %q", constants.RedirectHome, appErr.RedirectTo)
	}

	if appErr.Message != constants.MsgAlreadyAuthenticated {
		t.Errorf("Expected message %q, got %q", constants.MsgAlreadyAuthenticated, appErr.Message)
	}

	if credentials.calls != 0 {
		t.Errorf("Expected no credential service calls, got %d", credentials.calls)
	}

	if _, ok := sessions.sessions[testScope]; !ok {
		t.Error("Expected stored session to be untouched")
	}
}

func TestResetService_CompleteReset_ServiceRejected(t *testing.T) {
	now := time.Now()

	service, sessions, credentials := setupResetTest()
	sessions.sessions[testScope] = activeSession(now)
	credentials.err = utils.NewServiceRejectedError("Invalid or expired code.")

	_, _, err := service.CompleteReset(context.Background(), testScope, &models.AttemptInput{Now: now}, "123456", "new-password-1")
	if err == nil {
		t.Fatal("Expected error for rejected reset")
	}

	appErr := utils.ParseError(err)
	if !errors.Is(appErr.Err, utils.ErrServiceRejected) {
		t.Errorf("Expected service rejected error, got %v", appErr.Err)
	}

	if appErr.Message != "Invalid or expired code." {
		t.Errorf("Expected service message to pass through, got %q", appErr.Message)
	}

	// A rejected reset leaves the session intact for a retry
	if _, ok := sessions.sessions[testScope]; !ok {
		t.Error("Expected session to remain after a rejected reset")
	}
}

func TestResetService_CompleteReset_TransportError(t *testing.T) {
	now := time.Now()

	service, sessions, credentials := setupResetTest()
	sessions.sessions[testScope] = activeSession(now)
	credentials.err = utils.NewTransportError(errors.New("connection refused"))

	_, _, err := service.CompleteReset(context.Background(), testScope, &models.AttemptInput{Now: now}, "123456", "new-password-1")
	if err == nil {
		t.Fatal("Expected error for unreachable credential service")
	}

	appErr := utils.ParseError(err)
	if !errors.Is(appErr.Err, utils.ErrTransport) {
		t.Errorf("Expected transport error, got %v", appErr.Err)
	}

	if appErr.Message != constants.MsgResetFailed {
		t.Errorf("Expected message %q, got %q", constants.MsgResetFailed, appErr.Message)
	}

	if _, ok := sessions.sessions[testScope]; !ok {
		t.Error("Expected session to remain after a transport failure")
	}
}

func TestResetService_CompleteReset_ClearFailureAfterSuccess(t *testing.T) {
	now := time.Now()

	service, sessions, _ := setupResetTest()
	sessions.sessions[testScope] = activeSession(now)
	sessions.clearErr = errors.New("store unavailable")

	// The reset already happened upstream, so the caller still succeeds
	_, redirect, err := service.CompleteReset(context.Background(), testScope, &models.AttemptInput{Now: now}, "123456", "new-password-1")
	if err != nil {
		t.Fatalf("CompleteReset() error = %v", err)
	}

	if redirect != constants.RedirectLogin {
		t.Errorf("Expected redirect %q, got %q", constants.RedirectLogin, redirect)
	}
}

func TestResetService_CreateSession(t *testing.T) {
	service, sessions, _ := setupResetTest()

	scope, err := service.CreateSession(context.Background(), testEmail)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if scope == "" {
		t.Fatal("Expected non-empty scope")
	}

	session, ok := sessions.sessions[scope]
	if !ok {
		t.Fatal("Expected session to be stored")
	}

	if session.Email != testEmail {
		t.Errorf("Expected email %q, got %q", testEmail, session.Email)
	}

	if !session.Active {
		t.Error("Expected stored session to be active")
	}

	// Each session gets its own scope
	other, err := service.CreateSession(context.Background(), testEmail)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if other == scope {
		t.Error("Expected a fresh scope for each session")
	}
}

func TestResetService_CreateSession_InvalidEmail(t *testing.T) {
	service, _, _ := setupResetTest()

	for _, email := range []string{"", "not-an-email", "@example.com"} {
		if _, err := service.CreateSession(context.Background(), email); err == nil {
			t.Errorf("Expected validation error for email %q", email)
		}
	}
}

func TestResetService_CreateSession_StoreError(t *testing.T) {
	service, sessions, _ := setupResetTest()
	sessions.createErr = errors.New("store unavailable")

	if _, err := service.CreateSession(context.Background(), testEmail); err == nil {
		t.Error("Expected error for storage failure")
	}
}

func TestResetService_ClearSession(t *testing.T) {
	now := time.Now()

	service, sessions, _ := setupResetTest()
	sessions.sessions[testScope] = activeSession(now)

	if err := service.ClearSession(context.Background(), testScope); err != nil {
		t.Fatalf("ClearSession() error = %v", err)
	}

	if _, ok := sessions.sessions[testScope]; ok {
		t.Error("Expected session to be removed")
	}

	// Clearing a scope with no session succeeds
	if err := service.ClearSession(context.Background(), testScope); err != nil {
		t.Errorf("ClearSession() on empty scope error = %v", err)
	}
}

func TestResetService_Validate(t *testing.T) {
	now := time.Now()

	service, sessions, _ := setupResetTest()
	sessions.sessions[testScope] = activeSession(now)

	result, err := service.Validate(context.Background(), testScope, &models.AttemptInput{Now: now})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if result.Verdict != models.VerdictValid {
		t.Errorf("Expected verdict %q, got %q", models.VerdictValid, result.Verdict)
	}
}
