package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/resetgate/resetgate/internal/models"
)

func TestAttemptInput_At(t *testing.T) {
	t.Run("Explicit instant", func(t *testing.T) {
		instant := time.UnixMilli(1756300000000)
		in := &models.AttemptInput{Now: instant}
		assert.True(t, in.At().Equal(instant), "At should return the explicit instant when one is set")
	})

	t.Run("Zero instant falls back to current time", func(t *testing.T) {
		in := &models.AttemptInput{}
		assert.WithinDuration(t, time.Now(), in.At(), time.Second, "At should fall back to the current time")
	})
}

func TestAttemptResult_Allowed(t *testing.T) {
	testCases := []struct {
		name    string
		verdict models.Verdict
		allowed bool
	}{
		{"Valid verdict", models.VerdictValid, true},
		{"Invalid verdict", models.VerdictInvalid, false},
		{"Expired verdict", models.VerdictExpired, false},
		{"Pending verdict", models.VerdictPending, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := &models.AttemptResult{Verdict: tc.verdict}
			assert.Equal(t, tc.allowed, result.Allowed(), "Allowed should only be true for a valid verdict")
		})
	}
}
