package ports

import (
	"context"

	"github.com/startin-app/startin/internal/core/domain"
)

// CompanyRosterRepository persists admin-invited companies. Emails are
// unique across the roster.
type CompanyRosterRepository interface {
	List(ctx context.Context) ([]*domain.RosterEntry, error)
	FindByEmail(ctx context.Context, email string) (*domain.RosterEntry, error)
	Create(ctx context.Context, entry *domain.RosterEntry) (*domain.RosterEntry, error)

	// Update rewrites the display name and rotates the passkey of an
	// existing entry.
	Update(ctx context.Context, id int64, name, passkeyHash string) error
	Delete(ctx context.Context, id int64) error
}
