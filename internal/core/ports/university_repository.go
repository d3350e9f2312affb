package ports

import (
	"context"

	"github.com/startin-app/startin/internal/core/domain"
)

// UniversityRepository defines the interface for tenant persistence.
type UniversityRepository interface {
	List(ctx context.Context) ([]*domain.University, error)
	FindByID(ctx context.Context, id int64) (*domain.University, error)
	FindByName(ctx context.Context, name string) (*domain.University, error)
	Create(ctx context.Context, uni *domain.University) (*domain.University, error)
	UpdatePasskey(ctx context.Context, id int64, passkeyHash string) error
	Delete(ctx context.Context, id int64) error
}
