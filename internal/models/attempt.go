// Package models provides data structures and operations for the ResetGate application.
// This file contains the types exchanged with the reset session validator: the
// identity sources a validation attempt is judged against and the verdict it
// produces.
package models

import "time"

// Verdict classifies the outcome of a reset session validation attempt.
type Verdict string

// Validation verdicts. Pending is only ever observed by callers that inspect
// an attempt before the validator has run; the validator itself always
// resolves to one of the other three.
const (
	VerdictPending Verdict = "pending"
	VerdictValid   Verdict = "valid"
	VerdictInvalid Verdict = "invalid"
	VerdictExpired Verdict = "expired"
)

// Reason is the machine-readable cause of a non-valid verdict. Messages are
// user-facing text and may be reworded; callers that branch on an outcome
// branch on the reason.
type Reason string

// Validation reasons.
const (
	ReasonAuthenticated Reason = "already_authenticated"
	ReasonNoSession     Reason = "no_session"
	ReasonExpired       Reason = "expired"
	ReasonEmailMismatch Reason = "email_mismatch"
)

// AttemptInput carries the identity sources presented by a visitor arriving
// at the reset page. The validator reconciles these against the stored
// session to decide whether a reset may proceed.
type AttemptInput struct {
	// URLEmail is the raw email query parameter from the page URL, still
	// percent-encoded as received.
	URLEmail string `json:"url_email"`

	// NavEmail is the email handed over by in-app navigation state.
	NavEmail string `json:"nav_email"`

	// FromForgetPassword marks the navigation state as originating from the
	// forgot-password flow. NavEmail is only trusted when this flag is set.
	FromForgetPassword bool `json:"from_forget_password"`

	// Authenticated indicates the visitor already holds a logged-in
	// principal, in which case the reset flow is not for them.
	Authenticated bool `json:"-"`

	// Now is the instant the attempt is judged at. The zero value means
	// the current time.
	Now time.Time `json:"-"`
}

// At returns the instant the attempt should be evaluated against.
func (in *AttemptInput) At() time.Time {
	if in.Now.IsZero() {
		return time.Now()
	}
	return in.Now
}

// AttemptResult is the validator's decision for one attempt.
type AttemptResult struct {
	// Verdict is the classification of the attempt.
	Verdict Verdict `json:"verdict"`

	// Reason names the cause of a non-valid verdict.
	Reason Reason `json:"reason,omitempty"`

	// Email is the address a subsequent submission must be performed
	// against. It is only populated for a valid verdict.
	Email string `json:"email,omitempty"`

	// RedirectTo names the path the visitor should be sent to when the
	// verdict does not permit staying on the reset page.
	RedirectTo string `json:"redirect_to,omitempty"`

	// Message is the user-facing explanation for a non-valid verdict.
	Message string `json:"message,omitempty"`
}

// Allowed reports whether the attempt permits the visitor to proceed with
// the reset form.
func (r *AttemptResult) Allowed() bool {
	return r.Verdict == VerdictValid
}
