package domain

import "errors"

var ErrProfileNotFound = errors.New("profile not found")

// StudentProfile is the onboarding profile a student fills in after the first
// login. StudentID references the owning Account.
type StudentProfile struct {
	StudentID    int64  `json:"student_id"`
	FullName     string `json:"full_name"`
	About        string `json:"about,omitempty"`
	Skills       string `json:"skills,omitempty"`
	Github       string `json:"github,omitempty"`
	Linkedin     string `json:"linkedin,omitempty"`
	Resume       string `json:"resume,omitempty"` // storage reference, not file content
	UniversityID int64  `json:"university_id"`
}

// CompanyProfile is the public face of a company within its university.
type CompanyProfile struct {
	CompanyID    int64  `json:"company_id"`
	Name         string `json:"name"`
	Website      string `json:"website"`
	Location     string `json:"location"`
	About        string `json:"about"`
	UniversityID int64  `json:"university_id"`
}
