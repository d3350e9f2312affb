package ports

import (
	"context"

	"github.com/startin-app/startin/internal/core/domain"
)

// JobRepository defines the interface for job posting persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) (*domain.Job, error)
	FindByID(ctx context.Context, id int64) (*domain.Job, error)
	ListByUniversity(ctx context.Context, universityID int64) ([]*domain.Job, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*domain.Job, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUniversity(ctx context.Context, universityID int64) error
}

// ApplicationRepository defines the interface for application persistence.
// Create must fail with domain.ErrDuplicateApplication when the unique
// (student, job) pair already exists.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) (*domain.Application, error)
	FindByID(ctx context.Context, id int64) (*domain.Application, error)
	ListByJob(ctx context.Context, jobID int64) ([]*domain.Application, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*domain.Application, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error
	DeleteByUniversity(ctx context.Context, universityID int64) error
}
