package ports

import (
	"context"

	"github.com/startin-app/startin/internal/core/domain"
)

type ProfileService interface {
	SaveStudentProfile(ctx context.Context, profile *domain.StudentProfile) error
	GetStudentProfile(ctx context.Context, studentID int64) (*domain.StudentProfile, error)
	SaveCompanyProfile(ctx context.Context, profile *domain.CompanyProfile) error
	GetCompanyProfile(ctx context.Context, companyID int64) (*domain.CompanyProfile, error)

	// HasProfile backs the post-login existence check: true means the
	// identity already completed onboarding.
	HasProfile(ctx context.Context, role domain.Role, identityID int64) (bool, error)
}
