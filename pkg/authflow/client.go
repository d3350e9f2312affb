// Package authflow drives the client side of the authentication lifecycle:
// university scope selection, login, the two-step signup with OTP
// verification, route guarding, and the post-login profile check. It calls
// the REST boundary and commits results into a session.Store; nothing else
// writes to the session.
package authflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/startin-app/startin/pkg/session"
)

// Client talks to the Startin' REST boundary on behalf of one session.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
}

// NewClient returns a Client bound to the given session store. A nil
// httpClient falls back to a client with a sane timeout.
func NewClient(baseURL string, store *session.Store, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient, session: store}
}

// Session exposes the bound store for route guards and UI reads.
func (c *Client) Session() *session.Store {
	return c.session
}

// apiError is the server's error envelope.
type apiError struct {
	Error            string `json:"error"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// statusError carries the raw HTTP outcome so each operation can map it into
// the taxonomy its caller expects.
type statusError struct {
	status int
	apiError
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.status, e.apiError.Error)
}

// post sends a JSON request. With bearer set, the stored token rides in the
// Authorization header and a 401 clears the session before surfacing —
// the token convention for every protected call.
func (c *Client) post(ctx context.Context, method, path string, body, out any, bearer bool) error {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if bearer {
		token, ok := c.session.Token()
		if !ok {
			return ErrSessionExpired
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrServerUnavailable, err)
		}
		return nil
	}

	if bearer && resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
		return ErrSessionExpired
	}
	if resp.StatusCode >= 500 {
		return ErrServerUnavailable
	}

	se := &statusError{status: resp.StatusCode}
	_ = json.NewDecoder(resp.Body).Decode(&se.apiError) // body may be empty
	return se
}

type universityResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"university_name"`
}

// VerifyPasskey exchanges a human-entered passkey for the university scope
// and commits it to the session. This must happen once before any signup or
// login call.
func (c *Client) VerifyPasskey(ctx context.Context, passkey string) error {
	var uni universityResponse
	err := c.post(ctx, http.MethodPost, "/v1/universities/verify-passkey",
		map[string]string{"passkey": passkey}, &uni, false)
	if err != nil {
		return mapAuthError(err)
	}

	c.session.SetUniversityScope(uni.ID, uni.Name)
	return nil
}

type authResponse struct {
	Token        string `json:"token"`
	IdentityID   int64  `json:"identity_id"`
	UniversityID int64  `json:"university_id"`
}

// Login exchanges credentials for a token and identity ID and commits both
// to the session store. On any failure the store is left untouched.
func (c *Client) Login(ctx context.Context, role, email, password string) error {
	if role == session.RoleAdmin {
		return c.login(ctx, "/v1/auth/admin/login", role,
			map[string]any{"email": email, "password": password})
	}

	universityID, _, ok := c.session.UniversityScope()
	if !ok {
		return ErrScopeMissing
	}
	return c.login(ctx, "/v1/auth/"+rolePath(role)+"/login", role, map[string]any{
		"email":         email,
		"password":      password,
		"university_id": universityID,
	})
}

func (c *Client) login(ctx context.Context, path, role string, body map[string]any) error {
	var result authResponse
	if err := c.post(ctx, http.MethodPost, path, body, &result, false); err != nil {
		return mapAuthError(err)
	}

	// Token first, identity second: the store is authenticated the moment
	// the token lands, and the ID follows before any protected call needs it.
	c.session.SetToken(result.Token)
	c.session.SetIdentity(role, result.IdentityID)
	return nil
}

type profileExistsResponse struct {
	HasProfile bool `json:"has_profile"`
}

// Destination is where the UI should navigate after the profile check.
type Destination int

const (
	// DestinationHome is the dashboard for fully onboarded users.
	DestinationHome Destination = iota
	// DestinationProfileSetup is the onboarding form — also the safe default
	// when the check itself fails, so the user is never stranded.
	DestinationProfileSetup
)

// CheckProfile is the one-shot post-login query distinguishing onboarded
// users from authenticated-but-profileless ones. Its result is not cached.
func (c *Client) CheckProfile(ctx context.Context) (Destination, error) {
	role, ok := c.session.Role()
	if !ok {
		return DestinationProfileSetup, ErrSessionExpired
	}
	// Admins have no profile document; they go straight to the dashboard.
	if role == session.RoleAdmin {
		return DestinationHome, nil
	}

	var result profileExistsResponse
	err := c.post(ctx, http.MethodGet, "/v1/"+rolePath(role)+"/profile/exists", nil, &result, true)
	if err != nil {
		// Safe default: route to setup rather than stranding the user.
		return DestinationProfileSetup, err
	}
	if result.HasProfile {
		return DestinationHome, nil
	}
	return DestinationProfileSetup, nil
}

// RequestPasswordReset asks the server to email a reset code to the given
// address. The server answers the same way whether or not the address is
// registered, so success here only means the request was accepted.
func (c *Client) RequestPasswordReset(ctx context.Context, role, email string) error {
	universityID, _, ok := c.session.UniversityScope()
	if !ok {
		return ErrScopeMissing
	}

	err := c.post(ctx, http.MethodPost, "/v1/auth/"+rolePath(role)+"/request-reset",
		map[string]any{
			"email":         email,
			"university_id": universityID,
		}, nil, false)
	if err != nil {
		return mapAuthError(err)
	}
	return nil
}

// ResetPassword exchanges the emailed code for a new password. The session
// is untouched; the caller logs in with the new password afterwards.
func (c *Client) ResetPassword(ctx context.Context, role, email, code, newPassword string) error {
	universityID, _, ok := c.session.UniversityScope()
	if !ok {
		return ErrScopeMissing
	}

	err := c.post(ctx, http.MethodPost, "/v1/auth/"+rolePath(role)+"/reset-password",
		map[string]any{
			"email":         email,
			"otp":           code,
			"password":      newPassword,
			"university_id": universityID,
		}, nil, false)
	if err != nil {
		return mapVerifyError(err)
	}
	return nil
}

// Logout destroys the session.
func (c *Client) Logout() {
	c.session.Clear()
}

// LoginPath returns the login view matching the given role, used as the
// redirect target after a cleared session.
func LoginPath(role string) string {
	switch role {
	case session.RoleCompany:
		return "/company/login"
	case session.RoleAdmin:
		return "/admin/login"
	default:
		return "/student/login"
	}
}

func rolePath(role string) string {
	if role == session.RoleCompany {
		return "companies"
	}
	return "students"
}

// mapAuthError converts raw HTTP outcomes from passkey/login calls into the
// caller taxonomy.
func mapAuthError(err error) error {
	se, ok := err.(*statusError)
	if !ok {
		return err
	}
	switch se.status {
	case http.StatusUnauthorized, http.StatusNotFound, http.StatusBadRequest:
		return ErrInvalidCredentials
	default:
		return ErrServerUnavailable
	}
}
