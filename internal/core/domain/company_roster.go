package domain

import (
	"errors"
	"time"
)

var (
	ErrRosterEntryExists   = errors.New("company already on the roster")
	ErrRosterEntryNotFound = errors.New("roster entry not found")
)

// RosterEntry is an admin-invited company. The entry carries the passkey a
// company must present at signup; until an account with the entry's email
// exists the company counts as pending. The roster is platform-wide: a
// rostered company picks its university tenant at signup time.
type RosterEntry struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PasskeyHash string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
