// Package models provides data structures and operations for the ResetGate application.
// This file contains the model for server-side password reset sessions. A reset
// session records that a visitor recently completed the forgot-password flow and
// is allowed to submit a new credential within a bounded time window.
package models

import (
	"strconv"
	"time"

	"github.com/resetgate/resetgate/internal/constants"
)

// ResetSession represents a password reset session held in the session store.
// A session is established when the forgot-password flow verifies a one-time
// code, and it authorizes exactly one credential reset for the stored email
// within the configured time window.
type ResetSession struct {
	// Scope is the opaque identifier that binds this session to a visitor.
	Scope string `json:"scope" db:"scope"`

	// Active indicates the session flag is present. A session record with
	// Active false is treated the same as a missing session.
	Active bool `json:"active" db:"session_flag"`

	// Email is the address verified during the forgot-password flow. It is
	// the only address a credential reset may be performed against.
	Email string `json:"email" db:"email"`

	// CreatedAt records when the session was established. Session age is
	// always measured from this instant, never refreshed on access.
	CreatedAt time.Time `json:"created_at" db:"created_at_ms"`
}

// TableName returns the database table name for the ResetSession model.
func (s *ResetSession) TableName() string {
	return constants.TableResetSessions
}

// NewResetSession creates a ResetSession for the given scope and email,
// stamping the creation time with the current instant.
func NewResetSession(scope, email string) *ResetSession {
	return &ResetSession{
		Scope:     scope,
		Active:    true,
		Email:     email,
		CreatedAt: time.Now(),
	}
}

// IsExpired reports whether the session is older than ttl at the given
// instant. Age is computed from CreatedAt; a zero CreatedAt is always
// considered expired so that records with a corrupt timestamp cannot
// authorize a reset.
func (s *ResetSession) IsExpired(now time.Time, ttl time.Duration) bool {
	if s.CreatedAt.IsZero() {
		return true
	}
	return now.Sub(s.CreatedAt) > ttl
}

// TimestampMillis returns the session creation time encoded as epoch
// milliseconds, the representation used by every store backend.
func (s *ResetSession) TimestampMillis() int64 {
	return s.CreatedAt.UnixMilli()
}

// EncodeTimestamp renders an instant as the decimal epoch-millisecond string
// stored under the session timestamp key.
func EncodeTimestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// DecodeTimestamp parses a decimal epoch-millisecond string back into a
// time.Time. It returns the zero time and false when the value is empty or
// not a valid integer, which callers treat as an expired session.
func DecodeTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
