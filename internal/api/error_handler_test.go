package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/startin-app/startin/internal/core/domain"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return rec, body
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrScopeMissing, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrAccountExists, http.StatusConflict},
		{domain.ErrAccountNotFound, http.StatusUnauthorized},
		{domain.ErrInvalidPasskey, http.StatusUnauthorized},
		{domain.ErrUniversityNotFound, http.StatusNotFound},
		{domain.ErrRosterEntryExists, http.StatusConflict},
		{domain.ErrRosterEntryNotFound, http.StatusNotFound},
		{domain.ErrOTPNotFound, http.StatusNotFound},
		{domain.ErrOTPInvalid, http.StatusBadRequest},
		{domain.ErrProfileNotFound, http.StatusNotFound},
		{domain.ErrJobNotFound, http.StatusNotFound},
		{domain.ErrJobClosed, http.StatusUnprocessableEntity},
		{domain.ErrApplicationNotFound, http.StatusNotFound},
		{domain.ErrDuplicateApplication, http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{domain.ErrForbidden, http.StatusForbidden},
	}

	for _, tc := range cases {
		rec, body := renderError(t, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if body["error"] == "" {
			t.Fatalf("%v: expected error message", tc.err)
		}
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	rec, _ := renderError(t, &wrapError{inner: domain.ErrAccountExists})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for wrapped sentinel, got %d", rec.Code)
	}
}

type wrapError struct{ inner error }

func (e *wrapError) Error() string { return "wrapped: " + e.inner.Error() }
func (e *wrapError) Unwrap() error { return e.inner }

func TestErrorHandler_Cooldown(t *testing.T) {
	rec, body := renderError(t, &domain.CooldownError{Remaining: 90 * time.Second})

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if body["remaining_seconds"] != float64(90) {
		t.Fatalf("expected remaining_seconds 90, got %v", body["remaining_seconds"])
	}
}

func TestErrorHandler_CooldownRoundsUp(t *testing.T) {
	rec, body := renderError(t, &domain.CooldownError{Remaining: 90*time.Second + 300*time.Millisecond})

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if body["remaining_seconds"] != float64(91) {
		t.Fatalf("expected rounded-up 91, got %v", body["remaining_seconds"])
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	rec, body := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["error"] != "invalid payload" {
		t.Fatalf("unexpected message %v", body["error"])
	}
}

func TestErrorHandler_UnknownError(t *testing.T) {
	rec, body := renderError(t, errors.New("mongo: connection reset"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("internal detail leaked: %v", body["error"])
	}
}
