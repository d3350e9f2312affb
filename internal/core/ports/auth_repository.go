package ports

import (
	"context"

	"github.com/startin-app/startin/internal/core/domain"
)

// AccountRepository defines the interface for account persistence.
// Lookups for students and companies are tenant-scoped; admins use
// universityID == 0.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, role domain.Role, universityID int64, email string) (*domain.Account, error)

	// ExistsByEmail reports whether any account with this role and email
	// exists, regardless of university.
	ExistsByEmail(ctx context.Context, role domain.Role, email string) (bool, error)

	UpdatePassword(ctx context.Context, role domain.Role, universityID int64, email, passwordHash string) error
	DeleteByUniversity(ctx context.Context, universityID int64) error
}
