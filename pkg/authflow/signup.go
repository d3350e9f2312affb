package authflow

import (
	"context"
	"net/http"
	"time"
)

// State is the position of a signup flow.
type State int

const (
	// StateFormEntry collects email and password.
	StateFormEntry State = iota
	// StateOTPPending waits for the emailed code.
	StateOTPPending
	// StateVerified means the account exists and the session is live.
	StateVerified
)

// otpWindow is how long an issued code stays usable, measured on the client
// wall clock from the moment the signup request succeeds. The server enforces
// its own expiry independently.
const otpWindow = 600 * time.Second

// FormFields is the signup form as entered. Passkey is the roster
// invitation code and only applies to company signups.
type FormFields struct {
	Name     string
	Email    string
	Password string
	Passkey  string
}

// SignupFlow walks one signup attempt through form entry, OTP verification
// and session establishment. It is not safe for concurrent use; drive it
// from a single UI goroutine.
type SignupFlow struct {
	client *Client
	role   string

	state State
	form  FormFields

	// deadline and resendAt are wall-clock instants, recomputed against now()
	// on every read so countdowns survive UI re-renders.
	deadline time.Time
	resendAt time.Time

	now func() time.Time
}

// NewSignupFlow starts a flow in StateFormEntry for the given role.
func NewSignupFlow(client *Client, role string) *SignupFlow {
	return &SignupFlow{client: client, role: role, now: time.Now}
}

// State reports the flow's current position.
func (f *SignupFlow) State() State {
	return f.state
}

// Email returns the address entered at form submission, shown on the OTP
// screen and preserved across Back.
func (f *SignupFlow) Email() string {
	return f.form.Email
}

// Name returns the display name entered at form submission.
func (f *SignupFlow) Name() string {
	return f.form.Name
}

// Submit sends the signup form. On success the flow moves to StateOTPPending
// with a fresh verification window; on failure it stays in StateFormEntry
// with the entered values retained.
func (f *SignupFlow) Submit(ctx context.Context, form FormFields) error {
	f.form = form

	universityID, _, ok := f.client.session.UniversityScope()
	if !ok {
		return ErrScopeMissing
	}

	payload := map[string]any{
		"name":          form.Name,
		"email":         form.Email,
		"password":      form.Password,
		"university_id": universityID,
	}
	if form.Passkey != "" {
		payload["passkey"] = form.Passkey
	}

	err := f.client.post(ctx, http.MethodPost, "/v1/auth/"+rolePath(f.role)+"/signup",
		payload, nil, false)
	if err != nil {
		return mapSignupError(err)
	}

	f.state = StateOTPPending
	f.startWindow(otpWindow)
	return nil
}

// Verify submits the entered code together with the retained credentials.
// Success establishes the session and moves the flow to StateVerified.
func (f *SignupFlow) Verify(ctx context.Context, code string) error {
	if f.state != StateOTPPending {
		return ErrNotAwaitingOTP
	}

	universityID, _, ok := f.client.session.UniversityScope()
	if !ok {
		return ErrScopeMissing
	}

	var result authResponse
	err := f.client.post(ctx, http.MethodPost, "/v1/auth/"+rolePath(f.role)+"/verify-otp",
		map[string]any{
			"email":         f.form.Email,
			"password":      f.form.Password,
			"otp":           code,
			"university_id": universityID,
		}, &result, false)
	if err != nil {
		return mapVerifyError(err)
	}

	f.client.session.SetToken(result.Token)
	f.client.session.SetIdentity(f.role, result.IdentityID)
	f.state = StateVerified
	f.form.Password = ""
	return nil
}

// Resend requests a fresh code once the local cooldown has elapsed. The
// server re-checks its own cooldown regardless; a rejection carries the
// authoritative remaining seconds, which the flow adopts for its countdown.
func (f *SignupFlow) Resend(ctx context.Context) error {
	if f.state != StateOTPPending {
		return ErrNotAwaitingOTP
	}
	if !f.ResendAllowed() {
		// Local countdown still running; stay off the network and leave the
		// verification window untouched.
		return &CooldownError{RemainingSeconds: f.ResendRemainingSeconds()}
	}

	universityID, _, ok := f.client.session.UniversityScope()
	if !ok {
		return ErrScopeMissing
	}

	err := f.client.post(ctx, http.MethodPost, "/v1/auth/"+rolePath(f.role)+"/resend-otp",
		map[string]any{
			"email":         f.form.Email,
			"university_id": universityID,
		}, nil, false)
	if err != nil {
		var cd *CooldownError
		if cdErr := asCooldown(err); cdErr != nil {
			cd = cdErr
			f.resendAt = f.now().Add(time.Duration(cd.RemainingSeconds) * time.Second)
			return cd
		}
		return mapSignupError(err)
	}

	f.startWindow(otpWindow)
	return nil
}

// Back abandons the OTP screen and returns to form entry. Entered values
// stay so the user can correct a typo without retyping everything.
func (f *SignupFlow) Back() {
	if f.state == StateOTPPending {
		f.state = StateFormEntry
		f.deadline = time.Time{}
		f.resendAt = time.Time{}
	}
}

// RemainingSeconds reports how long the current code stays usable, rounded
// up. Zero means the window has lapsed and only Resend or Back make sense.
func (f *SignupFlow) RemainingSeconds() int {
	return secondsUntil(f.now(), f.deadline)
}

// ResendAllowed reports whether the client-side cooldown has elapsed. The
// server re-checks regardless.
func (f *SignupFlow) ResendAllowed() bool {
	return f.state == StateOTPPending && !f.now().Before(f.resendAt)
}

// ResendRemainingSeconds is the countdown shown next to the resend button.
func (f *SignupFlow) ResendRemainingSeconds() int {
	return secondsUntil(f.now(), f.resendAt)
}

func (f *SignupFlow) startWindow(window time.Duration) {
	now := f.now()
	f.deadline = now.Add(window)
	f.resendAt = now.Add(window)
}

func secondsUntil(now, t time.Time) int {
	if t.IsZero() || !now.Before(t) {
		return 0
	}
	remaining := t.Sub(now)
	secs := int(remaining / time.Second)
	if remaining%time.Second != 0 {
		secs++
	}
	return secs
}

func asCooldown(err error) *CooldownError {
	se, ok := err.(*statusError)
	if !ok || se.status != http.StatusTooManyRequests {
		return nil
	}
	return &CooldownError{RemainingSeconds: se.RemainingSeconds}
}

func mapSignupError(err error) error {
	se, ok := err.(*statusError)
	if !ok {
		return err
	}
	switch se.status {
	case http.StatusConflict:
		return ErrDuplicateAccount
	case http.StatusUnauthorized, http.StatusNotFound, http.StatusBadRequest:
		return ErrInvalidCredentials
	default:
		return ErrServerUnavailable
	}
}

func mapVerifyError(err error) error {
	se, ok := err.(*statusError)
	if !ok {
		return err
	}
	switch se.status {
	case http.StatusBadRequest, http.StatusNotFound:
		return ErrInvalidOrExpiredOTP
	case http.StatusConflict:
		return ErrDuplicateAccount
	default:
		return ErrServerUnavailable
	}
}
