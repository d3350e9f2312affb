package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken reports a token whose payload could not be decoded.
// Callers treat it as "no claims available", never as a fatal condition.
var ErrMalformedToken = errors.New("malformed token")

// Claims is the decoded, unverified payload of a session token. Signature
// verification is the server's job; the client only derives display identity
// and expiry from it.
type Claims struct {
	Email        string
	Role         string
	IdentityID   int64
	UniversityID int64
	ExpiresAt    time.Time
}

// DecodeClaims parses the token payload without verifying the signature.
// It never panics: any undecodable input yields ErrMalformedToken.
func DecodeClaims(token string) (*Claims, error) {
	mc := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims := &Claims{}
	if email, ok := mc["email"].(string); ok {
		claims.Email = email
	}
	if role, ok := mc["role"].(string); ok {
		claims.Role = role
	}
	if id, ok := mc["identity_id"].(float64); ok {
		claims.IdentityID = int64(id)
	}
	if id, ok := mc["university_id"].(float64); ok {
		claims.UniversityID = int64(id)
	}
	if exp, ok := mc["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return claims, nil
}

// Expired reports whether the claims carry an expiry in the past. Claims
// without an exp field never count as expired.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
