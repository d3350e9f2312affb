package ports

import (
	"context"
	"time"

	"github.com/startin-app/startin/internal/core/domain"
)

// OTPStore holds live signup challenges. Implementations expire entries on
// their own (TTL-keyed); Get must return domain.ErrOTPNotFound for anything
// missing or expired.
type OTPStore interface {
	// Put stores the challenge, replacing any live code for the same
	// (university, email), and arms the resend cooldown window.
	Put(ctx context.Context, challenge *domain.Challenge) error
	Get(ctx context.Context, universityID int64, email string) (*domain.Challenge, error)
	Delete(ctx context.Context, universityID int64, email string) error

	// CooldownRemaining reports how long until a resend for this pending
	// signup is accepted again. Zero means a resend is allowed now.
	CooldownRemaining(ctx context.Context, universityID int64, email string) (time.Duration, error)

	// Password reset codes live in a separate keyspace with the same TTL
	// mechanics; GetReset returns domain.ErrOTPNotFound for anything missing
	// or expired.
	PutReset(ctx context.Context, challenge *domain.Challenge) error
	GetReset(ctx context.Context, universityID int64, email string) (*domain.Challenge, error)
	DeleteReset(ctx context.Context, universityID int64, email string) error

	PurgeUniversity(ctx context.Context, universityID int64) error
}
