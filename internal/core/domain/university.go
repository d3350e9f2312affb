package domain

import "errors"

var (
	ErrUniversityNotFound = errors.New("university not found")
	ErrInvalidPasskey     = errors.New("invalid university passkey")
)

// University is one tenant. Every student/company account, profile, job and
// application is bound to exactly one university.
//
// The passkey is the shared secret handed out to a university's students and
// companies; it is stored bcrypt-hashed, so verification sweeps all rows.
type University struct {
	ID          int64  `json:"id"`
	Name        string `json:"university_name"`
	PasskeyHash string `json:"-"`
}
