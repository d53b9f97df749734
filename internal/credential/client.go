// Package credential provides the client for the external credential service,
// the system that actually changes a user's password. This service never
// stores or hashes credentials itself; it hands the verified email, the
// one-time code, and the new password to the credential service and relays
// the outcome.
package credential

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/resetgate/resetgate/internal/config"
	"github.com/resetgate/resetgate/internal/constants"
	"github.com/resetgate/resetgate/internal/utils"
)

// resetPath is the credential service endpoint that performs the password
// change.
const resetPath = "/api/users/reset-password"

// maxResponseBody bounds how much of a credential service response is read.
const maxResponseBody = 1 << 20

// Service defines the interface for credential resets.
type Service interface {
	// ResetPassword asks the credential service to set a new password for
	// the given email, authorized by the one-time code. On success it
	// returns the service's own confirmation message. It returns a
	// service-rejected error when the service declined the reset, and a
	// transport error when the service could not be reached.
	ResetPassword(ctx context.Context, email, otp, newPassword string) (string, error)
}

// Client is an HTTP client for the credential service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// resetRequest is the body sent to the credential service.
type resetRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// resetResponse is the body the credential service replies with.
type resetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a credential service client from the application
// configuration.
func NewClient(cfg *config.AppConfig) *Client {
	return &Client{
		baseURL: cfg.Credential.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Credential.Timeout,
		},
	}
}

// ResetPassword asks the credential service to set a new password.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) (string, error) {
	body, err := json.Marshal(resetRequest{
		Email:       email,
		OTP:         otp,
		NewPassword: newPassword,
	})
	if err != nil {
		return "", utils.NewInternalServerError(err)
	}

	url := c.baseURL + resetPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", utils.NewInternalServerError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("Credential service unreachable")
		return "", utils.NewTransportError(err)
	}
	defer resp.Body.Close()

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Credential service responded")

	// 5xx means the service itself failed, which callers treat the same as
	// not reaching it at all
	if resp.StatusCode >= http.StatusInternalServerError {
		return "", utils.NewTransportError(fmt.Errorf("credential service returned status %d", resp.StatusCode))
	}

	var parsed resetResponse
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", utils.NewTransportError(err)
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", utils.NewTransportError(fmt.Errorf("malformed credential service response: %w", err))
	}

	if resp.StatusCode >= http.StatusBadRequest || !parsed.Success {
		message := parsed.Message
		if message == "" && parsed.Error != nil {
			message = parsed.Error.Message
		}
		log.Warn().Int("status", resp.StatusCode).Msg("Credential service rejected the reset")
		return "", utils.NewServiceRejectedError(message)
	}

	message := parsed.Message
	if message == "" {
		message = constants.MsgResetSuccess
	}

	return message, nil
}
