package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/startin-app/startin/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. A resend
// rejected by the cooldown additionally carries the authoritative remaining
// seconds for the client to adopt.
type errorResponse struct {
	Error            string `json:"error"`
	RemainingSeconds int    `json:"remaining_seconds,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var cd *domain.CooldownError
		if errors.As(err, &cd) {
			_ = c.JSON(http.StatusTooManyRequests, errorResponse{
				Error:            "otp resend on cooldown",
				RemainingSeconds: cd.RemainingSeconds(),
			})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrScopeMissing):
		return http.StatusBadRequest, "university scope missing"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict, "email already registered in this university"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusUnauthorized, "email not registered in this university"
	case errors.Is(err, domain.ErrInvalidPasskey):
		return http.StatusUnauthorized, "invalid passkey"
	case errors.Is(err, domain.ErrUniversityNotFound):
		return http.StatusNotFound, "university not found"
	case errors.Is(err, domain.ErrRosterEntryExists):
		return http.StatusConflict, "company already on the roster"
	case errors.Is(err, domain.ErrRosterEntryNotFound):
		return http.StatusNotFound, "roster entry not found"
	case errors.Is(err, domain.ErrOTPNotFound):
		return http.StatusNotFound, "otp not found or expired"
	case errors.Is(err, domain.ErrOTPInvalid):
		return http.StatusBadRequest, "invalid otp"
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "profile not found"
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound, "job not found"
	case errors.Is(err, domain.ErrJobClosed):
		return http.StatusUnprocessableEntity, "job posting is closed"
	case errors.Is(err, domain.ErrApplicationNotFound):
		return http.StatusNotFound, "application not found"
	case errors.Is(err, domain.ErrDuplicateApplication):
		return http.StatusConflict, "already applied to this job"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
