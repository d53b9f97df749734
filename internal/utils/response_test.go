package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/resetgate/resetgate/internal/utils"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		data       interface{}
		wantStatus int
		wantBody   map[string]interface{}
	}{
		{
			name:       "Success response",
			statusCode: http.StatusOK,
			data:       map[string]string{"message": "Success"},
			wantStatus: http.StatusOK,
			wantBody: map[string]interface{}{
				"success": true,
				"data":    map[string]interface{}{"message": "Success"},
			},
		},
		{
			name:       "Error status but with data",
			statusCode: http.StatusBadRequest,
			data:       map[string]string{"reason": "Bad input"},
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]interface{}{
				"success": false,
				"data":    map[string]interface{}{"reason": "Bad input"},
			},
		},
		{
			name:       "Nil data",
			statusCode: http.StatusOK,
			data:       nil,
			wantStatus: http.StatusOK,
			wantBody: map[string]interface{}{
				"success": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			utils.JSON(w, tt.statusCode, tt.data)

			if w.Code != tt.wantStatus {
				t.Errorf("JSON() status = %v, want %v", w.Code, tt.wantStatus)
			}

			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("JSON() Content-Type = %v, want application/json", ct)
			}

			var got map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("JSON() produced invalid JSON: %v", err)
			}

			if !reflect.DeepEqual(got, tt.wantBody) {
				t.Errorf("JSON() body = %v, want %v", got, tt.wantBody)
			}
		})
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	utils.Error(w, http.StatusBadRequest, "bad_request", "Something is wrong", map[string]string{"field": "problem"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Error() status = %v, want %v", w.Code, http.StatusBadRequest)
	}

	var got utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Error() produced invalid JSON: %v", err)
	}

	if got.Success {
		t.Error("Error() response should not be successful")
	}

	if got.Error == nil {
		t.Fatal("Error() response should include error info")
	}

	if got.Error.Code != "bad_request" {
		t.Errorf("Error() code = %v, want bad_request", got.Error.Code)
	}

	if got.Error.Details["field"] != "problem" {
		t.Errorf("Error() details = %v, want field problem", got.Error.Details)
	}
}

func TestErrorFromAppError(t *testing.T) {
	tests := []struct {
		name         string
		appErr       *utils.AppError
		wantStatus   int
		wantCode     string
		wantRedirect string
	}{
		{
			name:         "No session error carries redirect",
			appErr:       utils.NewNoSessionError(),
			wantStatus:   http.StatusForbidden,
			wantCode:     "no_session",
			wantRedirect: "/forget",
		},
		{
			name:         "Expired session error carries redirect",
			appErr:       utils.NewSessionExpiredError(),
			wantStatus:   http.StatusGone,
			wantCode:     "session_expired",
			wantRedirect: "/login",
		},
		{
			name:       "Service rejection has no redirect",
			appErr:     utils.NewServiceRejectedError("OTP has expired"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "service_rejected",
		},
		{
			name:       "Transport error maps to upstream code",
			appErr:     utils.NewTransportError(nil),
			wantStatus: http.StatusBadGateway,
			wantCode:   "upstream_error",
		},
		{
			name:       "Validation error",
			appErr:     utils.NewValidationError("email", "Must be a valid email address"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			utils.ErrorFromAppError(w, tt.appErr)

			if w.Code != tt.wantStatus {
				t.Errorf("ErrorFromAppError() status = %v, want %v", w.Code, tt.wantStatus)
			}

			var got utils.Response
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("ErrorFromAppError() produced invalid JSON: %v", err)
			}

			if got.Error == nil {
				t.Fatal("ErrorFromAppError() response should include error info")
			}

			if got.Error.Code != tt.wantCode {
				t.Errorf("ErrorFromAppError() code = %v, want %v", got.Error.Code, tt.wantCode)
			}

			if got.Error.RedirectTo != tt.wantRedirect {
				t.Errorf("ErrorFromAppError() redirect = %v, want %v", got.Error.RedirectTo, tt.wantRedirect)
			}
		})
	}
}

func TestConvenienceResponses(t *testing.T) {
	tests := []struct {
		name       string
		send       func(w http.ResponseWriter)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "BadRequest",
			send:       func(w http.ResponseWriter) { utils.BadRequest(w, "bad", nil) },
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "Unauthorized with default message",
			send:       func(w http.ResponseWriter) { utils.Unauthorized(w, "") },
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
		},
		{
			name:       "Forbidden",
			send:       func(w http.ResponseWriter) { utils.Forbidden(w, "nope") },
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
		},
		{
			name:       "NotFound",
			send:       func(w http.ResponseWriter) { utils.NotFound(w, "") },
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "MethodNotAllowed",
			send:       utils.MethodNotAllowed,
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "method_not_allowed",
		},
		{
			name:       "TooManyRequests",
			send:       utils.TooManyRequests,
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "rate_limited",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.send(w)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %v, want %v", w.Code, tt.wantStatus)
			}

			var got utils.Response
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if got.Error == nil || got.Error.Code != tt.wantCode {
				t.Errorf("error code = %v, want %v", got.Error, tt.wantCode)
			}
		})
	}
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	utils.NoContent(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("NoContent() status = %v, want %v", w.Code, http.StatusNoContent)
	}

	if w.Body.Len() != 0 {
		t.Errorf("NoContent() should not write a body, got %q", w.Body.String())
	}
}
