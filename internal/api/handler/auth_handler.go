package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/startin-app/startin/internal/api/metrics"
	"github.com/startin-app/startin/internal/core/domain"
	"github.com/startin-app/startin/internal/core/ports"
)

// AuthHandler handles signup, OTP verification and login for students and
// companies, plus the admin login. The role is bound per route group so the
// same handler serves /auth/students/* and /auth/companies/*.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// signupRequest covers both populations; passkey is the roster invitation
// code company signups must carry.
type signupRequest struct {
	Name         string `json:"name"          validate:"required"`
	Email        string `json:"email"         validate:"required,email"`
	Password     string `json:"password"      validate:"required,min=8"`
	Passkey      string `json:"passkey"`
	UniversityID int64  `json:"university_id" validate:"required"`
}

type verifyOTPRequest struct {
	Email        string `json:"email"         validate:"required,email"`
	OTP          string `json:"otp"           validate:"required,len=6,numeric"`
	Password     string `json:"password"      validate:"required,min=8"`
	UniversityID int64  `json:"university_id" validate:"required"`
}

type resendOTPRequest struct {
	Email        string `json:"email"         validate:"required,email"`
	UniversityID int64  `json:"university_id" validate:"required"`
}

type loginRequest struct {
	Email        string `json:"email"         validate:"required,email"`
	Password     string `json:"password"      validate:"required"`
	UniversityID int64  `json:"university_id"`
}

type requestResetRequest struct {
	Email        string `json:"email"         validate:"required,email"`
	UniversityID int64  `json:"university_id" validate:"required"`
}

type resetPasswordRequest struct {
	Email        string `json:"email"         validate:"required,email"`
	OTP          string `json:"otp"           validate:"required,len=6,numeric"`
	Password     string `json:"password"      validate:"required,min=8"`
	UniversityID int64  `json:"university_id" validate:"required"`
}

type adminLoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// authResponse carries the token plus the role-scoped identity ID the client
// stores alongside it.
type authResponse struct {
	Token        string `json:"token"`
	IdentityID   int64  `json:"identity_id"`
	UniversityID int64  `json:"university_id,omitempty"`
}

// Signup handles POST /v1/auth/{students|companies}/signup.
//
// @Summary      Start a signup (dispatches an OTP email)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/auth/students/signup [post]
func (h *AuthHandler) Signup(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req signupRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		err := h.authService.Signup(c.Request().Context(), role, ports.SignupInput{
			Name:         req.Name,
			Email:        req.Email,
			Password:     req.Password,
			Passkey:      req.Passkey,
			UniversityID: req.UniversityID,
		})
		if err != nil {
			return err
		}

		metrics.SignupsStartedTotal.WithLabelValues(string(role)).Inc()
		return c.JSON(http.StatusOK, messageResponse{Message: "OTP sent successfully to your email"})
	}
}

// VerifyOTP handles POST /v1/auth/{students|companies}/verify-otp.
//
// @Summary      Verify the emailed OTP and create the account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "OTP verification details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/students/verify-otp [post]
func (h *AuthHandler) VerifyOTP(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req verifyOTPRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		result, err := h.authService.VerifyOTP(c.Request().Context(), role, ports.VerifyOTPInput{
			Email:        req.Email,
			Code:         req.OTP,
			Password:     req.Password,
			UniversityID: req.UniversityID,
		})
		if err != nil {
			metrics.OTPVerificationsTotal.WithLabelValues(string(role), verifyResult(err)).Inc()
			return err
		}

		metrics.OTPVerificationsTotal.WithLabelValues(string(role), "ok").Inc()
		return c.JSON(http.StatusOK, authResponse{
			Token:        result.Token,
			IdentityID:   result.IdentityID,
			UniversityID: result.UniversityID,
		})
	}
}

// ResendOTP handles POST /v1/auth/{students|companies}/resend-otp. While the
// server-side cooldown is active the response is 429 with the authoritative
// remaining seconds.
//
// @Summary      Re-issue the OTP for a pending signup
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resendOTPRequest  true  "Pending signup"
// @Success      200   {object}  messageResponse
// @Failure      429   {object}  errorResponse
// @Router       /v1/auth/students/resend-otp [post]
func (h *AuthHandler) ResendOTP(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req resendOTPRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		err := h.authService.ResendOTP(c.Request().Context(), role, req.UniversityID, req.Email)
		if err != nil {
			var cd *domain.CooldownError
			if errors.As(err, &cd) {
				metrics.OTPResendRejectedTotal.Inc()
			}
			return err
		}

		return c.JSON(http.StatusOK, messageResponse{Message: "OTP sent successfully to your email"})
	}
}

// Login handles POST /v1/auth/{students|companies}/login.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/students/login [post]
func (h *AuthHandler) Login(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req loginRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		result, err := h.authService.Login(c.Request().Context(), role, ports.LoginInput{
			Email:        req.Email,
			Password:     req.Password,
			UniversityID: req.UniversityID,
		})
		if err != nil {
			metrics.LoginsTotal.WithLabelValues(string(role), "failed").Inc()
			return err
		}

		metrics.LoginsTotal.WithLabelValues(string(role), "ok").Inc()
		return c.JSON(http.StatusOK, authResponse{
			Token:        result.Token,
			IdentityID:   result.IdentityID,
			UniversityID: result.UniversityID,
		})
	}
}

// RequestPasswordReset handles POST /v1/auth/{students|companies}/request-reset.
// The response is the same whether or not the email is registered.
//
// @Summary      Request a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      requestResetRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/auth/students/request-reset [post]
func (h *AuthHandler) RequestPasswordReset(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req requestResetRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if err := h.authService.RequestPasswordReset(c.Request().Context(), role, req.UniversityID, req.Email); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "If the email is registered, a reset code has been sent"})
	}
}

// ResetPassword handles POST /v1/auth/{students|companies}/reset-password.
//
// @Summary      Reset the password with the emailed code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/students/reset-password [post]
func (h *AuthHandler) ResetPassword(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req resetPasswordRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		err := h.authService.ResetPassword(c.Request().Context(), role, ports.ResetPasswordInput{
			Email:        req.Email,
			Code:         req.OTP,
			Password:     req.Password,
			UniversityID: req.UniversityID,
		})
		if err != nil {
			metrics.PasswordResetsTotal.WithLabelValues(string(role), "failed").Inc()
			return err
		}

		metrics.PasswordResetsTotal.WithLabelValues(string(role), "ok").Inc()
		return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successfully"})
	}
}

// AdminLogin handles POST /v1/auth/admin/login.
//
// @Summary      Platform administrator login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      adminLoginRequest  true  "Admin credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.AdminLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(string(domain.RoleAdmin), "failed").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(string(domain.RoleAdmin), "ok").Inc()
	return c.JSON(http.StatusOK, authResponse{
		Token:      result.Token,
		IdentityID: result.IdentityID,
	})
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrOTPNotFound):
		return "expired"
	case errors.Is(err, domain.ErrOTPInvalid):
		return "invalid"
	default:
		return "error"
	}
}
