package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/startin-app/startin/internal/core/domain"
	"github.com/startin-app/startin/internal/core/ports"
)

// JobService implements job postings and the application lifecycle.
type JobService struct {
	jobs         ports.JobRepository
	applications ports.ApplicationRepository
	log          zerolog.Logger

	now func() time.Time
}

func NewJobService(jobs ports.JobRepository, applications ports.ApplicationRepository, log zerolog.Logger) *JobService {
	return &JobService{
		jobs:         jobs,
		applications: applications,
		log:          log,
		now:          time.Now,
	}
}

func (s *JobService) PostJob(ctx context.Context, in ports.PostJobInput) (*domain.Job, error) {
	if in.Title == "" || in.Type == "" || in.Description == "" {
		return nil, fmt.Errorf("post job: missing required fields")
	}
	if in.CompanyID == 0 || in.UniversityID == 0 {
		return nil, domain.ErrForbidden
	}
	if !in.EndDate.After(s.now()) {
		return nil, fmt.Errorf("post job: end date must be in the future")
	}

	job, err := s.jobs.Create(ctx, &domain.Job{
		Title:        in.Title,
		Type:         in.Type,
		Salary:       in.Salary,
		Description:  in.Description,
		Requirements: in.Requirements,
		EndDate:      in.EndDate.UTC(),
		CompanyID:    in.CompanyID,
		UniversityID: in.UniversityID,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("post job: %w", err)
	}

	s.log.Info().Int64("job_id", job.ID).Int64("company_id", job.CompanyID).Msg("job posted")
	return job, nil
}

func (s *JobService) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	return s.jobs.FindByID(ctx, id)
}

func (s *JobService) ListUniversityJobs(ctx context.Context, universityID int64) ([]*domain.Job, error) {
	return s.jobs.ListByUniversity(ctx, universityID)
}

func (s *JobService) ListCompanyJobs(ctx context.Context, companyID int64) ([]*domain.Job, error) {
	return s.jobs.ListByCompany(ctx, companyID)
}

func (s *JobService) CloseJob(ctx context.Context, id, companyID int64) error {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if job.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return s.jobs.Delete(ctx, id)
}

// Apply creates a pending application. The repository's unique (student, job)
// index backs the duplicate rejection. Jobs outside the applicant's
// university are reported as not found, same as the job detail lookup.
func (s *JobService) Apply(ctx context.Context, jobID, studentID, universityID int64) (*domain.Application, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UniversityID != universityID {
		return nil, domain.ErrJobNotFound
	}
	if !job.Open(s.now()) {
		return nil, domain.ErrJobClosed
	}

	app, err := s.applications.Create(ctx, &domain.Application{
		JobID:        job.ID,
		StudentID:    studentID,
		CompanyID:    job.CompanyID,
		UniversityID: job.UniversityID,
		Status:       domain.StatusPending,
		AppliedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("job_id", jobID).Int64("student_id", studentID).Msg("application submitted")
	return app, nil
}

func (s *JobService) ListJobApplications(ctx context.Context, jobID, companyID int64) ([]*domain.Application, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return s.applications.ListByJob(ctx, jobID)
}

func (s *JobService) ListStudentApplications(ctx context.Context, studentID int64) ([]ports.ApplicationDetail, error) {
	apps, err := s.applications.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	details := make([]ports.ApplicationDetail, 0, len(apps))
	for _, app := range apps {
		job, err := s.jobs.FindByID(ctx, app.JobID)
		if err == domain.ErrJobNotFound {
			// Posting was closed after the application; keep the application
			// visible without job details.
			details = append(details, ports.ApplicationDetail{Application: app})
			continue
		}
		if err != nil {
			return nil, err
		}
		details = append(details, ports.ApplicationDetail{Application: app, Job: job})
	}
	return details, nil
}

func (s *JobService) UpdateApplicationStatus(ctx context.Context, id, companyID int64, status domain.ApplicationStatus) error {
	app, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if app.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if !app.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, app.Status, status)
	}
	return s.applications.UpdateStatus(ctx, id, status)
}
