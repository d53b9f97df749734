package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/resetgate/resetgate/internal/constants"
	"github.com/resetgate/resetgate/internal/utils/ratelimit"
)

func TestRateLimit_AllowsWithinBudget(t *testing.T) {
	limiters := ratelimit.NewStore(ratelimit.Rate{RequestsPerSecond: 100, Burst: 5}, time.Minute)
	handler := RateLimit(limiters, "api")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/reset/validate", nil)
	req.RemoteAddr = "203.0.113.7:52110"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	limiters := ratelimit.NewStore(ratelimit.Rate{RequestsPerSecond: 0.001, Burst: 2}, time.Minute)
	handler := RateLimit(limiters, "submit")(okHandler())

	var lastCode int
	var lastHeader string
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/reset/submit", nil)
		req.RemoteAddr = "203.0.113.7:52110"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
		lastHeader = rec.Header().Get(constants.HeaderRetryAfter)
	}

	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("Expected status %d after burst, got %d", http.StatusTooManyRequests, lastCode)
	}

	if lastHeader == "" {
		t.Error("Expected Retry-After header on limited response")
	}
}

func TestRateLimit_PerClientIsolation(t *testing.T) {
	limiters := ratelimit.NewStore(ratelimit.Rate{RequestsPerSecond: 0.001, Burst: 1}, time.Minute)
	handler := RateLimit(limiters, "submit")(okHandler())

	// Exhaust the first client's budget
	req := httptest.NewRequest(http.MethodPost, "/api/reset/submit", nil)
	req.RemoteAddr = "203.0.113.7:52110"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// A different client still gets through
	req = httptest.NewRequest(http.MethodPost, "/api/reset/submit", nil)
	req.RemoteAddr = "203.0.113.8:52110"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status %d for a fresh client, got %d", http.StatusOK, rec.Code)
	}
}

func TestRateLimit_ExemptsHealth(t *testing.T) {
	limiters := ratelimit.NewStore(ratelimit.Rate{RequestsPerSecond: 0.001, Burst: 0}, time.Minute)
	handler := RateLimit(limiters, "api")(okHandler())

	req := httptest.NewRequest(http.MethodGet, constants.HealthPath, nil)
	req.RemoteAddr = "203.0.113.7:52110"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected health check to bypass rate limiting, got status %d", rec.Code)
	}
}
