package authflow

import (
	"errors"
	"fmt"
)

// The error taxonomy surfaced to the UI. Every failure is recovered locally
// by showing an inline message; none aborts the flow's current state.
var (
	// ErrScopeMissing means no university was selected. The call never
	// reaches the network.
	ErrScopeMissing = errors.New("university scope missing")

	// ErrInvalidCredentials covers authentication rejections: wrong password,
	// unknown account, or a bad passkey.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateAccount means the email is already registered in the
	// selected university.
	ErrDuplicateAccount = errors.New("email already registered")

	// ErrInvalidOrExpiredOTP keeps the signup flow in its OTP step; the user
	// may resubmit a corrected code immediately.
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired otp")

	// ErrNotAwaitingOTP rejects Verify and Resend calls made outside the
	// OTP step, before any network traffic.
	ErrNotAwaitingOTP = errors.New("no otp verification in progress")

	// ErrSessionExpired is returned when a protected call came back 401; the
	// session store has already been cleared when it surfaces.
	ErrSessionExpired = errors.New("session expired")

	// ErrServerUnavailable covers timeouts, 5xx responses, and unreachable
	// hosts. Never retried automatically.
	ErrServerUnavailable = errors.New("server unavailable")
)

// CooldownError rejects an OTP resend. When the server reported the
// remaining window, RemainingSeconds carries the authoritative value;
// locally-detected cooldowns carry the client's own countdown.
type CooldownError struct {
	RemainingSeconds int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("otp resend on cooldown: %ds remaining", e.RemainingSeconds)
}
