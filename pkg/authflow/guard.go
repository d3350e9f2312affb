package authflow

import "github.com/startin-app/startin/pkg/session"

// GuardResult tells a router what to do with a navigation attempt.
type GuardResult struct {
	Allowed bool
	// RedirectTo is the login path to send the user to when not allowed.
	RedirectTo string
}

// Guard gates navigation to protected views. requiredRole narrows access to
// one role; empty means any authenticated user. An expired token is cleared
// by the authentication check itself, so a stale session redirects the same
// way a missing one does.
func Guard(store *session.Store, requiredRole string) GuardResult {
	if !store.IsAuthenticated() {
		return GuardResult{RedirectTo: LoginPath(requiredRole)}
	}
	if requiredRole != "" {
		role, ok := store.Role()
		if !ok || role != requiredRole {
			return GuardResult{RedirectTo: LoginPath(requiredRole)}
		}
	}
	return GuardResult{Allowed: true}
}
