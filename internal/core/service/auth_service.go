package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/startin-app/startin/internal/core/domain"
	"github.com/startin-app/startin/internal/core/ports"
)

// AuthService implements the two-step signup (OTP over email), login,
// password reset, and token minting for all three roles. Company signups are
// additionally gated by the admin-managed roster.
type AuthService struct {
	accounts     ports.AccountRepository
	universities ports.UniversityRepository
	roster       ports.CompanyRosterRepository
	otps         ports.OTPStore
	mail         ports.MailDispatcher
	jwtSecret    string
	tokenTTL     time.Duration
	log          zerolog.Logger

	now func() time.Time // overridable in tests
}

func NewAuthService(
	accounts ports.AccountRepository,
	universities ports.UniversityRepository,
	roster ports.CompanyRosterRepository,
	otps ports.OTPStore,
	mail ports.MailDispatcher,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 10 * time.Minute
	}
	return &AuthService{
		accounts:     accounts,
		universities: universities,
		roster:       roster,
		otps:         otps,
		mail:         mail,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
		log:          log,
		now:          time.Now,
	}
}

// Signup validates step one and dispatches an OTP. No account row is written
// here; the account is materialized only at VerifyOTP.
func (s *AuthService) Signup(ctx context.Context, role domain.Role, in ports.SignupInput) error {
	if role != domain.RoleStudent && role != domain.RoleCompany {
		return domain.ErrInvalidCredentials
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return domain.ErrInvalidCredentials
	}
	if in.UniversityID == 0 {
		return domain.ErrScopeMissing
	}

	// 1. The tenant must exist.
	if _, err := s.universities.FindByID(ctx, in.UniversityID); err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	// 2. Companies must present the passkey from their roster invitation.
	if role == domain.RoleCompany {
		if err := s.checkRosterPasskey(ctx, in.Email, in.Passkey); err != nil {
			return err
		}
	}

	// 3. Reject emails already registered in this university.
	if _, err := s.accounts.FindByEmail(ctx, role, in.UniversityID, in.Email); err == nil {
		return domain.ErrAccountExists
	} else if err != domain.ErrAccountNotFound {
		return fmt.Errorf("signup: %w", err)
	}

	// 4. Issue a fresh challenge, replacing any previous one for this email.
	return s.issueChallenge(ctx, role, in.UniversityID, in.Email, in.Name)
}

// checkRosterPasskey validates a company signup against its roster
// invitation. Both a missing entry and a wrong passkey come back as
// ErrInvalidPasskey so the response never reveals which one failed.
func (s *AuthService) checkRosterPasskey(ctx context.Context, email, passkey string) error {
	if passkey == "" {
		return domain.ErrInvalidPasskey
	}
	entry, err := s.roster.FindByEmail(ctx, strings.ToLower(email))
	if err == domain.ErrRosterEntryNotFound {
		return domain.ErrInvalidPasskey
	}
	if err != nil {
		return fmt.Errorf("signup roster lookup: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(entry.PasskeyHash), []byte(passkey)) != nil {
		return domain.ErrInvalidPasskey
	}
	return nil
}

// ResendOTP re-issues the code for a pending signup. The server-side cooldown
// is authoritative: an early resend returns a CooldownError carrying the
// remaining seconds for the client to adopt.
func (s *AuthService) ResendOTP(ctx context.Context, role domain.Role, universityID int64, email string) error {
	if email == "" || universityID == 0 {
		return domain.ErrInvalidCredentials
	}

	remaining, err := s.otps.CooldownRemaining(ctx, universityID, email)
	if err != nil {
		return fmt.Errorf("resend otp: %w", err)
	}
	if remaining > 0 {
		return &domain.CooldownError{Remaining: remaining}
	}

	// Carry the display name over from the pending challenge when one is
	// still around.
	name := ""
	if prev, err := s.otps.Get(ctx, universityID, email); err == nil {
		name = prev.Name
	}

	return s.issueChallenge(ctx, role, universityID, email, name)
}

func (s *AuthService) issueChallenge(ctx context.Context, role domain.Role, universityID int64, email, name string) error {
	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	now := s.now().UTC()
	challenge := &domain.Challenge{
		Email:        email,
		Name:         name,
		Code:         code,
		Role:         role,
		UniversityID: universityID,
		IssuedAt:     now,
		ExpiresAt:    now.Add(domain.OTPTTL),
	}
	if err := s.otps.Put(ctx, challenge); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	s.mail.Enqueue(ports.MailMessage{
		To:      email,
		Subject: "Your OTP Code for STARTIN",
		Body:    fmt.Sprintf("Your OTP is %s. Valid for %d minutes.", code, int(domain.OTPTTL.Minutes())),
	})

	s.log.Info().
		Str("email", email).
		Str("role", string(role)).
		Int64("university_id", universityID).
		Msg("otp issued")

	return nil
}

// VerifyOTP is step two: on a matching, unexpired code the account is created
// and a token minted, exactly as in the login path.
func (s *AuthService) VerifyOTP(ctx context.Context, role domain.Role, in ports.VerifyOTPInput) (*ports.AuthResult, error) {
	if in.Email == "" || in.Code == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if in.UniversityID == 0 {
		return nil, domain.ErrScopeMissing
	}

	challenge, err := s.otps.Get(ctx, in.UniversityID, in.Email)
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	if challenge.Expired(s.now().UTC()) {
		// Lazy cleanup: the store's TTL should have evicted it already.
		_ = s.otps.Delete(ctx, in.UniversityID, in.Email)
		return nil, domain.ErrOTPNotFound
	}
	if challenge.Code != in.Code {
		// Wrong code keeps the challenge alive so a corrected code can be
		// resubmitted without a new OTP.
		return nil, domain.ErrOTPInvalid
	}
	if challenge.Role != role {
		return nil, domain.ErrOTPInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.Create(ctx, &domain.Account{
		Name:         challenge.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		UniversityID: in.UniversityID,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	_ = s.otps.Delete(ctx, in.UniversityID, in.Email)

	token, err := s.generateToken(account)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("email", account.Email).
		Str("role", string(role)).
		Int64("identity_id", account.ID).
		Msg("otp verified, account created")

	return &ports.AuthResult{
		Token:        token,
		IdentityID:   account.ID,
		UniversityID: account.UniversityID,
	}, nil
}

// Login authenticates a student or company inside its university scope.
func (s *AuthService) Login(ctx context.Context, role domain.Role, in ports.LoginInput) (*ports.AuthResult, error) {
	if role != domain.RoleStudent && role != domain.RoleCompany {
		return nil, domain.ErrInvalidCredentials
	}
	if in.UniversityID == 0 {
		return nil, domain.ErrScopeMissing
	}
	return s.login(ctx, role, in.UniversityID, in.Email, in.Password)
}

// AdminLogin authenticates a platform administrator (not tenant-scoped).
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.login(ctx, domain.RoleAdmin, 0, email, password)
}

func (s *AuthService) login(ctx context.Context, role domain.Role, universityID int64, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, role, universityID, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(account)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		Token:        token,
		IdentityID:   account.ID,
		UniversityID: account.UniversityID,
	}, nil
}

// RequestPasswordReset issues an emailed reset code for an existing student
// or company account. Unknown emails are a silent success so the endpoint
// cannot be used to enumerate registered addresses.
func (s *AuthService) RequestPasswordReset(ctx context.Context, role domain.Role, universityID int64, email string) error {
	if role != domain.RoleStudent && role != domain.RoleCompany {
		return domain.ErrInvalidCredentials
	}
	if email == "" {
		return domain.ErrInvalidCredentials
	}
	if universityID == 0 {
		return domain.ErrScopeMissing
	}

	if _, err := s.accounts.FindByEmail(ctx, role, universityID, email); err != nil {
		if err == domain.ErrAccountNotFound {
			s.log.Info().Str("email", email).Msg("reset requested for unknown account")
			return nil
		}
		return fmt.Errorf("request reset: %w", err)
	}

	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}

	now := s.now().UTC()
	challenge := &domain.Challenge{
		Email:        email,
		Code:         code,
		Role:         role,
		UniversityID: universityID,
		IssuedAt:     now,
		ExpiresAt:    now.Add(domain.OTPTTL),
	}
	if err := s.otps.PutReset(ctx, challenge); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	s.mail.Enqueue(ports.MailMessage{
		To:      email,
		Subject: "Reset your STARTIN password",
		Body:    fmt.Sprintf("Your password reset code is %s. Valid for %d minutes.", code, int(domain.OTPTTL.Minutes())),
	})

	s.log.Info().
		Str("email", email).
		Str("role", string(role)).
		Int64("university_id", universityID).
		Msg("password reset code issued")

	return nil
}

// ResetPassword verifies the emailed code and replaces the account password.
// The code is single-use; it is consumed on success.
func (s *AuthService) ResetPassword(ctx context.Context, role domain.Role, in ports.ResetPasswordInput) error {
	if in.Email == "" || in.Code == "" || in.Password == "" {
		return domain.ErrInvalidCredentials
	}
	if in.UniversityID == 0 {
		return domain.ErrScopeMissing
	}

	challenge, err := s.otps.GetReset(ctx, in.UniversityID, in.Email)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if challenge.Expired(s.now().UTC()) {
		_ = s.otps.DeleteReset(ctx, in.UniversityID, in.Email)
		return domain.ErrOTPNotFound
	}
	if challenge.Code != in.Code || challenge.Role != role {
		return domain.ErrOTPInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, role, in.UniversityID, in.Email, string(hash)); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	_ = s.otps.DeleteReset(ctx, in.UniversityID, in.Email)

	s.log.Info().
		Str("email", in.Email).
		Str("role", string(role)).
		Msg("password reset completed")

	return nil
}

func (s *AuthService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"email":         account.Email,
		"role":          string(account.Role),
		"identity_id":   account.ID,
		"university_id": account.UniversityID,
		"exp":           s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// generateOTPCode draws a uniform 6-digit code from crypto/rand.
func generateOTPCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < domain.OTPDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", domain.OTPDigits, n), nil
}
