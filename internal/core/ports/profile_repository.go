package ports

import (
	"context"

	"github.com/startin-app/startin/internal/core/domain"
)

// ProfileRepository defines the interface for student and company profile
// persistence. Upserts are keyed by the owning account ID.
type ProfileRepository interface {
	UpsertStudent(ctx context.Context, profile *domain.StudentProfile) error
	FindStudent(ctx context.Context, studentID int64) (*domain.StudentProfile, error)
	UpsertCompany(ctx context.Context, profile *domain.CompanyProfile) error
	FindCompany(ctx context.Context, companyID int64) (*domain.CompanyProfile, error)
	DeleteByUniversity(ctx context.Context, universityID int64) error
}
