package service

import (
	"context"
	"fmt"

	"github.com/startin-app/startin/internal/core/domain"
	"github.com/startin-app/startin/internal/core/ports"
)

// ProfileService implements profile onboarding and the post-login
// profile-existence check.
type ProfileService struct {
	profiles ports.ProfileRepository
}

func NewProfileService(profiles ports.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (s *ProfileService) SaveStudentProfile(ctx context.Context, profile *domain.StudentProfile) error {
	if profile.StudentID == 0 || profile.FullName == "" {
		return domain.ErrInvalidCredentials
	}
	if profile.UniversityID == 0 {
		return domain.ErrScopeMissing
	}
	return s.profiles.UpsertStudent(ctx, profile)
}

func (s *ProfileService) GetStudentProfile(ctx context.Context, studentID int64) (*domain.StudentProfile, error) {
	return s.profiles.FindStudent(ctx, studentID)
}

func (s *ProfileService) SaveCompanyProfile(ctx context.Context, profile *domain.CompanyProfile) error {
	if profile.CompanyID == 0 || profile.Name == "" {
		return domain.ErrInvalidCredentials
	}
	if profile.UniversityID == 0 {
		return domain.ErrScopeMissing
	}
	return s.profiles.UpsertCompany(ctx, profile)
}

func (s *ProfileService) GetCompanyProfile(ctx context.Context, companyID int64) (*domain.CompanyProfile, error) {
	return s.profiles.FindCompany(ctx, companyID)
}

// HasProfile reports whether the identity completed onboarding. "Not found"
// is an answer here, not an error.
func (s *ProfileService) HasProfile(ctx context.Context, role domain.Role, identityID int64) (bool, error) {
	var err error
	switch role {
	case domain.RoleStudent:
		_, err = s.profiles.FindStudent(ctx, identityID)
	case domain.RoleCompany:
		_, err = s.profiles.FindCompany(ctx, identityID)
	default:
		return false, fmt.Errorf("has profile: unsupported role %q", role)
	}

	if err == domain.ErrProfileNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
