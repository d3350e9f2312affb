package ports

import (
	"context"
	"time"

	"github.com/startin-app/startin/internal/core/domain"
)

type PostJobInput struct {
	Title        string
	Type         string
	Salary       string
	Description  string
	Requirements string
	EndDate      time.Time
	CompanyID    int64
	UniversityID int64
}

// ApplicationDetail joins an application with its job for list views.
type ApplicationDetail struct {
	Application *domain.Application `json:"application"`
	Job         *domain.Job         `json:"job"`
}

type JobService interface {
	PostJob(ctx context.Context, in PostJobInput) (*domain.Job, error)
	GetJob(ctx context.Context, id int64) (*domain.Job, error)
	ListUniversityJobs(ctx context.Context, universityID int64) ([]*domain.Job, error)
	ListCompanyJobs(ctx context.Context, companyID int64) ([]*domain.Job, error)

	// CloseJob removes a posting. Only the owning company may close it.
	CloseJob(ctx context.Context, id, companyID int64) error

	// Apply creates a pending application; duplicates per (student, job) and
	// applications to closed postings are rejected.
	Apply(ctx context.Context, jobID, studentID, universityID int64) (*domain.Application, error)

	ListJobApplications(ctx context.Context, jobID, companyID int64) ([]*domain.Application, error)
	ListStudentApplications(ctx context.Context, studentID int64) ([]ApplicationDetail, error)

	// UpdateApplicationStatus moves an application through the status state
	// machine on behalf of the owning company.
	UpdateApplicationStatus(ctx context.Context, id, companyID int64, status domain.ApplicationStatus) error
}
