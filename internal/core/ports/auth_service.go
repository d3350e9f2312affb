package ports

import (
	"context"

	"github.com/startin-app/startin/internal/core/domain"
)

// SignupInput is step one of the two-step signup. No account is created here;
// it only validates the request and triggers an emailed OTP. Passkey is the
// roster invitation code and applies to company signups only.
type SignupInput struct {
	Name         string
	Email        string
	Password     string
	Passkey      string
	UniversityID int64
}

// VerifyOTPInput is step two. Email and password travel again because the
// account row is only written once the code checks out.
type VerifyOTPInput struct {
	Email        string
	Code         string
	Password     string
	UniversityID int64
}

type LoginInput struct {
	Email        string
	Password     string
	UniversityID int64
}

// ResetPasswordInput is the final step of a password reset: the emailed code
// plus the replacement password.
type ResetPasswordInput struct {
	Email        string
	Code         string
	Password     string
	UniversityID int64
}

// AuthResult is what a successful login or verification yields: the signed
// token plus the role-scoped identity ID the client commits to its session.
type AuthResult struct {
	Token        string
	IdentityID   int64
	UniversityID int64
}

type AuthService interface {
	Signup(ctx context.Context, role domain.Role, in SignupInput) error
	VerifyOTP(ctx context.Context, role domain.Role, in VerifyOTPInput) (*AuthResult, error)
	ResendOTP(ctx context.Context, role domain.Role, universityID int64, email string) error
	Login(ctx context.Context, role domain.Role, in LoginInput) (*AuthResult, error)
	AdminLogin(ctx context.Context, email, password string) (*AuthResult, error)

	// RequestPasswordReset emails a reset code to an existing account. It
	// succeeds silently for unknown emails so the endpoint never confirms
	// which addresses are registered.
	RequestPasswordReset(ctx context.Context, role domain.Role, universityID int64, email string) error
	ResetPassword(ctx context.Context, role domain.Role, in ResetPasswordInput) error
}
