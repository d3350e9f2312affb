package domain

import (
	"errors"
	"time"
)

// ApplicationStatus represents the lifecycle state of a job application.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusRejected    ApplicationStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions. An
// application must pass through shortlisting before acceptance; accepted and
// rejected are terminal.
var validTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:     {StatusShortlisted, StatusRejected},
	StatusShortlisted: {StatusAccepted, StatusRejected},
}

var ErrInvalidTransition = errors.New("invalid application status transition")
var ErrJobNotFound = errors.New("job not found")
var ErrJobClosed = errors.New("job posting is closed")
var ErrApplicationNotFound = errors.New("application not found")
var ErrDuplicateApplication = errors.New("already applied to this job")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Job is a posting owned by one company, visible only inside its university.
type Job struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	Salary       string    `json:"salary"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	EndDate      time.Time `json:"end_date"`
	CompanyID    int64     `json:"company_id"`
	UniversityID int64     `json:"university_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Open reports whether the posting still accepts applications at now.
func (j *Job) Open(now time.Time) bool {
	return now.Before(j.EndDate)
}

// Application links a student to a job. (StudentID, JobID) is unique.
type Application struct {
	ID           int64             `json:"id"`
	JobID        int64             `json:"job_id"`
	StudentID    int64             `json:"student_id"`
	CompanyID    int64             `json:"company_id"`
	UniversityID int64             `json:"university_id"`
	Status       ApplicationStatus `json:"status"`
	AppliedAt    time.Time         `json:"applied_at"`
}
