package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	// OTPDigits is the length of the emailed verification code.
	OTPDigits = 6

	// OTPTTL is how long a code stays verifiable after issuance.
	OTPTTL = 10 * time.Minute

	// OTPResendCooldown is the server-side window during which a resend for
	// the same pending signup is rejected. The client keeps its own countdown,
	// but the value reported here wins on conflict.
	OTPResendCooldown = 10 * time.Minute
)

var (
	ErrOTPNotFound = errors.New("otp not found or expired")
	ErrOTPInvalid  = errors.New("invalid otp")
)

// CooldownError rejects an OTP resend attempted before the cooldown elapsed.
// Remaining is rounded up so a client never retries a second too early.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("otp resend on cooldown: %ds remaining", e.RemainingSeconds())
}

func (e *CooldownError) RemainingSeconds() int {
	return int((e.Remaining + time.Second - 1) / time.Second)
}

// Challenge is a pending signup awaiting email confirmation. No account row
// exists yet: the account is materialized only when the code is verified, so
// an unverified email never occupies a permanent slot. One live challenge per
// (university, email); issuing a new one replaces the old.
type Challenge struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Code         string    `json:"-"`
	Role         Role      `json:"role"`
	UniversityID int64     `json:"university_id"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the challenge is past its verification window.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
