package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/startin-app/startin/internal/core/domain"
	"github.com/startin-app/startin/internal/core/ports"
)

type stubAuthService struct {
	signupFn     func(ctx context.Context, role domain.Role, in ports.SignupInput) error
	verifyFn     func(ctx context.Context, role domain.Role, in ports.VerifyOTPInput) (*ports.AuthResult, error)
	resendFn     func(ctx context.Context, role domain.Role, universityID int64, email string) error
	loginFn      func(ctx context.Context, role domain.Role, in ports.LoginInput) (*ports.AuthResult, error)
	adminLoginFn func(ctx context.Context, email, password string) (*ports.AuthResult, error)

	requestResetFn  func(ctx context.Context, role domain.Role, universityID int64, email string) error
	resetPasswordFn func(ctx context.Context, role domain.Role, in ports.ResetPasswordInput) error
}

func (s *stubAuthService) Signup(ctx context.Context, role domain.Role, in ports.SignupInput) error {
	return s.signupFn(ctx, role, in)
}

func (s *stubAuthService) VerifyOTP(ctx context.Context, role domain.Role, in ports.VerifyOTPInput) (*ports.AuthResult, error) {
	return s.verifyFn(ctx, role, in)
}

func (s *stubAuthService) ResendOTP(ctx context.Context, role domain.Role, universityID int64, email string) error {
	return s.resendFn(ctx, role, universityID, email)
}

func (s *stubAuthService) Login(ctx context.Context, role domain.Role, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, role, in)
}

func (s *stubAuthService) AdminLogin(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.adminLoginFn(ctx, email, password)
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, role domain.Role, universityID int64, email string) error {
	return s.requestResetFn(ctx, role, universityID, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, role domain.Role, in ports.ResetPasswordInput) error {
	return s.resetPasswordFn(ctx, role, in)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, role domain.Role, in ports.SignupInput) error {
			if role != domain.RoleStudent {
				t.Fatalf("unexpected role %s", role)
			}
			if in.Name != "Alice" || in.Email != "alice@uni.edu" || in.UniversityID != 4 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/v1/auth/students/signup",
		`{"name":"Alice","email":"alice@uni.edu","password":"password1","university_id":4}`)

	if err := handler.Signup(domain.RoleStudent)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] == "" {
		t.Fatalf("expected confirmation message")
	}
}

func TestAuthHandler_Signup_ValidationFailures(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, role domain.Role, in ports.SignupInput) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	cases := []string{
		`not-json`,
		`{"name":"A","email":"not-an-email","password":"password1","university_id":4}`,
		`{"name":"A","email":"a@uni.edu","password":"short","university_id":4}`,
		`{"name":"A","email":"a@uni.edu","password":"password1"}`,
	}
	for _, body := range cases {
		c, _ := jsonRequest(e, http.MethodPost, "/v1/auth/students/signup", body)
		err := handler.Signup(domain.RoleStudent)(c)

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %v", body, err)
		}
	}
}

func TestAuthHandler_Signup_Duplicate(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, role domain.Role, in ports.SignupInput) error {
			return domain.ErrAccountExists
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonRequest(e, http.MethodPost, "/v1/auth/students/signup",
		`{"name":"Alice","email":"alice@uni.edu","password":"password1","university_id":4}`)

	if err := handler.Signup(domain.RoleStudent)(c); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists passed through, got %v", err)
	}
}

func TestAuthHandler_VerifyOTP_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, role domain.Role, in ports.VerifyOTPInput) (*ports.AuthResult, error) {
			if in.Code != "123456" {
				t.Fatalf("unexpected code %q", in.Code)
			}
			return &ports.AuthResult{Token: "token123", IdentityID: 7, UniversityID: 4}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/v1/auth/students/verify-otp",
		`{"email":"alice@uni.edu","otp":"123456","password":"password1","university_id":4}`)

	if err := handler.VerifyOTP(domain.RoleStudent)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["identity_id"] != float64(7) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_VerifyOTP_RejectsNonNumericCode(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, role domain.Role, in ports.VerifyOTPInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	for _, otp := range []string{"12345", "1234567", "abc123"} {
		c, _ := jsonRequest(e, http.MethodPost, "/v1/auth/students/verify-otp",
			`{"email":"alice@uni.edu","otp":"`+otp+`","password":"password1","university_id":4}`)
		err := handler.VerifyOTP(domain.RoleStudent)(c)

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("otp %q: expected 400, got %v", otp, err)
		}
	}
}

func TestAuthHandler_ResendOTP_CooldownPassthrough(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		resendFn: func(ctx context.Context, role domain.Role, universityID int64, email string) error {
			return &domain.CooldownError{Remaining: 42 * time.Second}
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonRequest(e, http.MethodPost, "/v1/auth/students/resend-otp",
		`{"email":"alice@uni.edu","university_id":4}`)

	err := handler.ResendOTP(domain.RoleStudent)(c)
	var cd *domain.CooldownError
	if !errors.As(err, &cd) {
		t.Fatalf("expected CooldownError passed through, got %v", err)
	}
	if cd.RemainingSeconds() != 42 {
		t.Fatalf("unexpected remaining %d", cd.RemainingSeconds())
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, role domain.Role, in ports.LoginInput) (*ports.AuthResult, error) {
			if role != domain.RoleCompany || in.UniversityID != 4 {
				t.Fatalf("unexpected args: %s %+v", role, in)
			}
			return &ports.AuthResult{Token: "token123", IdentityID: 5, UniversityID: 4}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/v1/auth/companies/login",
		`{"email":"hr@corp.com","password":"secret99","university_id":4}`)

	if err := handler.Login(domain.RoleCompany)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, role domain.Role, in ports.LoginInput) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := jsonRequest(e, http.MethodPost, "/v1/auth/students/login",
		`{"email":"alice@uni.edu","password":"bad","university_id":4}`)

	if err := handler.Login(domain.RoleStudent)(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials passed through, got %v", err)
	}
}

func TestAuthHandler_AdminLogin(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		adminLoginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "admin@startin.app" {
				t.Fatalf("unexpected email %q", email)
			}
			return &ports.AuthResult{Token: "token123", IdentityID: 1}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/v1/auth/admin/login",
		`{"email":"admin@startin.app","password":"secret99"}`)

	if err := handler.AdminLogin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, present := resp["university_id"]; present {
		t.Fatalf("admin response must not carry a university scope")
	}
}

func TestAuthHandler_Signup_CompanyPasskeyPassthrough(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, role domain.Role, in ports.SignupInput) error {
			if role != domain.RoleCompany {
				t.Fatalf("unexpected role %s", role)
			}
			if in.Passkey != "open-sesame" {
				t.Fatalf("passkey must reach the service, got %q", in.Passkey)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/v1/auth/companies/signup",
		`{"name":"Acme","email":"jobs@acme.com","password":"password1","passkey":"open-sesame","university_id":4}`)

	if err := handler.Signup(domain.RoleCompany)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_RequestPasswordReset(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		requestResetFn: func(ctx context.Context, role domain.Role, universityID int64, email string) error {
			if role != domain.RoleStudent || universityID != 4 || email != "alice@uni.edu" {
				t.Fatalf("unexpected input: %s %d %s", role, universityID, email)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/v1/auth/students/request-reset",
		`{"email":"alice@uni.edu","university_id":4}`)

	if err := handler.RequestPasswordReset(domain.RoleStudent)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ResetPassword_ValidatesCode(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{
		resetPasswordFn: func(ctx context.Context, role domain.Role, in ports.ResetPasswordInput) error {
			t.Fatalf("service must not be reached on invalid payload")
			return nil
		},
	})

	// Code too short, password too short.
	bodies := []string{
		`{"email":"alice@uni.edu","otp":"12345","password":"password1","university_id":4}`,
		`{"email":"alice@uni.edu","otp":"123456","password":"short","university_id":4}`,
	}
	for _, body := range bodies {
		c, _ := jsonRequest(e, http.MethodPost, "/v1/auth/students/reset-password", body)
		err := handler.ResetPassword(domain.RoleStudent)(c)

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %v", err)
		}
	}
}

func TestAuthHandler_ResetPassword_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		resetPasswordFn: func(ctx context.Context, role domain.Role, in ports.ResetPasswordInput) error {
			if in.Email != "alice@uni.edu" || in.Code != "654321" || in.UniversityID != 4 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/v1/auth/students/reset-password",
		`{"email":"alice@uni.edu","otp":"654321","password":"brand-new-pw","university_id":4}`)

	if err := handler.ResetPassword(domain.RoleStudent)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
