package domain

import (
	"errors"
	"time"
)

// Role identifies which population an account belongs to.
type Role string

const (
	RoleStudent Role = "student"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleCompany || r == RoleAdmin
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrScopeMissing       = errors.New("university scope missing")
	ErrForbidden          = errors.New("access forbidden")
)

// Account models an authenticated actor. Students and companies are scoped to
// one university tenant; platform admins carry UniversityID == 0.
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	UniversityID int64     `json:"university_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
