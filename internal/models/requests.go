// Package models provides data structures and operations for the ResetGate application.
// This file contains the request and response bodies accepted by the HTTP API.
// Validation tags follow the go-playground/validator conventions and are
// enforced before any request reaches a service.
package models

// ValidateRequest is the body of a validation call. It mirrors the identity
// sources a browser presents when landing on the reset page.
type ValidateRequest struct {
	// URLEmail is the raw, possibly percent-encoded email query parameter.
	URLEmail string `json:"url_email" validate:"omitempty,max=512"`

	// NavEmail is the email carried by in-app navigation state.
	NavEmail string `json:"nav_email" validate:"omitempty,max=254"`

	// FromForgetPassword marks NavEmail as handed over by the
	// forgot-password flow.
	FromForgetPassword bool `json:"from_forget_password"`
}

// SubmitRequest is the body of a reset submission. The email the reset is
// performed against never appears here; it is always taken from a fresh
// validation of the caller's session.
type SubmitRequest struct {
	// OTP is the one-time code issued by the forgot-password flow.
	OTP string `json:"otp" validate:"required,min=4,max=12"`

	// NewPassword is the credential to set.
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`

	// URLEmail and NavEmail replay the identity sources so the submission
	// is judged under the same rules as the initial page load.
	URLEmail string `json:"url_email" validate:"omitempty,max=512"`

	NavEmail string `json:"nav_email" validate:"omitempty,max=254"`

	FromForgetPassword bool `json:"from_forget_password"`
}

// CreateSessionRequest is the body of a session establishment call, issued by
// the forgot-password flow once a one-time code has been verified.
type CreateSessionRequest struct {
	// Email is the address the new session authorizes a reset for.
	Email string `json:"email" validate:"required,email,max=254"`
}

// CreateSessionResponse returns the scope identifying the new session.
type CreateSessionResponse struct {
	Scope string `json:"scope"`
}
