package service

import (
	"context"
	"fmt"
	"time"

	"github.com/startin-app/startin/internal/core/domain"
	"github.com/startin-app/startin/internal/core/ports"
)

// In-memory stubs backing the service tests. They honor the same sentinel
// error contracts as the Mongo and Redis implementations.

type stubAccountRepo struct {
	accounts map[string]*domain.Account
	nextID   int64
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func accountKey(role domain.Role, universityID int64, email string) string {
	if role == domain.RoleAdmin {
		universityID = 0
	}
	return fmt.Sprintf("%s/%d/%s", role, universityID, email)
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	key := accountKey(account.Role, account.UniversityID, account.Email)
	if _, exists := r.accounts[key]; exists {
		return nil, domain.ErrAccountExists
	}
	r.nextID++
	copy := *account
	copy.ID = r.nextID
	r.accounts[key] = &copy
	out := copy
	return &out, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, role domain.Role, universityID int64, email string) (*domain.Account, error) {
	if a, ok := r.accounts[accountKey(role, universityID, email)]; ok {
		copy := *a
		return &copy, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) ExistsByEmail(_ context.Context, role domain.Role, email string) (bool, error) {
	for _, a := range r.accounts {
		if a.Role == role && a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, role domain.Role, universityID int64, email, passwordHash string) error {
	a, ok := r.accounts[accountKey(role, universityID, email)]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *stubAccountRepo) DeleteByUniversity(_ context.Context, universityID int64) error {
	for key, a := range r.accounts {
		if a.UniversityID == universityID && a.Role != domain.RoleAdmin {
			delete(r.accounts, key)
		}
	}
	return nil
}

type stubUniversityRepo struct {
	universities map[int64]*domain.University
	nextID       int64
}

func newStubUniversityRepo() *stubUniversityRepo {
	return &stubUniversityRepo{universities: make(map[int64]*domain.University)}
}

func (r *stubUniversityRepo) List(_ context.Context) ([]*domain.University, error) {
	out := make([]*domain.University, 0, len(r.universities))
	for _, u := range r.universities {
		copy := *u
		out = append(out, &copy)
	}
	return out, nil
}

func (r *stubUniversityRepo) FindByID(_ context.Context, id int64) (*domain.University, error) {
	if u, ok := r.universities[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, domain.ErrUniversityNotFound
}

func (r *stubUniversityRepo) FindByName(_ context.Context, name string) (*domain.University, error) {
	for _, u := range r.universities {
		if u.Name == name {
			copy := *u
			return &copy, nil
		}
	}
	return nil, domain.ErrUniversityNotFound
}

func (r *stubUniversityRepo) Create(_ context.Context, uni *domain.University) (*domain.University, error) {
	r.nextID++
	copy := *uni
	copy.ID = r.nextID
	r.universities[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubUniversityRepo) UpdatePasskey(_ context.Context, id int64, passkeyHash string) error {
	u, ok := r.universities[id]
	if !ok {
		return domain.ErrUniversityNotFound
	}
	u.PasskeyHash = passkeyHash
	return nil
}

func (r *stubUniversityRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.universities[id]; !ok {
		return domain.ErrUniversityNotFound
	}
	delete(r.universities, id)
	return nil
}

type stubOTPStore struct {
	challenges map[string]*domain.Challenge
	resets     map[string]*domain.Challenge
	cooldowns  map[string]time.Duration
}

func newStubOTPStore() *stubOTPStore {
	return &stubOTPStore{
		challenges: make(map[string]*domain.Challenge),
		resets:     make(map[string]*domain.Challenge),
		cooldowns:  make(map[string]time.Duration),
	}
}

func otpKey(universityID int64, email string) string {
	return fmt.Sprintf("%d/%s", universityID, email)
}

func (s *stubOTPStore) Put(_ context.Context, challenge *domain.Challenge) error {
	copy := *challenge
	key := otpKey(challenge.UniversityID, challenge.Email)
	s.challenges[key] = &copy
	s.cooldowns[key] = domain.OTPResendCooldown
	return nil
}

func (s *stubOTPStore) Get(_ context.Context, universityID int64, email string) (*domain.Challenge, error) {
	if c, ok := s.challenges[otpKey(universityID, email)]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, domain.ErrOTPNotFound
}

func (s *stubOTPStore) Delete(_ context.Context, universityID int64, email string) error {
	key := otpKey(universityID, email)
	delete(s.challenges, key)
	delete(s.cooldowns, key)
	return nil
}

func (s *stubOTPStore) CooldownRemaining(_ context.Context, universityID int64, email string) (time.Duration, error) {
	return s.cooldowns[otpKey(universityID, email)], nil
}

func (s *stubOTPStore) PutReset(_ context.Context, challenge *domain.Challenge) error {
	copy := *challenge
	s.resets[otpKey(challenge.UniversityID, challenge.Email)] = &copy
	return nil
}

func (s *stubOTPStore) GetReset(_ context.Context, universityID int64, email string) (*domain.Challenge, error) {
	if c, ok := s.resets[otpKey(universityID, email)]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, domain.ErrOTPNotFound
}

func (s *stubOTPStore) DeleteReset(_ context.Context, universityID int64, email string) error {
	delete(s.resets, otpKey(universityID, email))
	return nil
}

func (s *stubOTPStore) PurgeUniversity(_ context.Context, universityID int64) error {
	for key, c := range s.challenges {
		if c.UniversityID == universityID {
			delete(s.challenges, key)
			delete(s.cooldowns, key)
		}
	}
	for key, c := range s.resets {
		if c.UniversityID == universityID {
			delete(s.resets, key)
		}
	}
	return nil
}

type stubRosterRepo struct {
	entries map[int64]*domain.RosterEntry
	nextID  int64
}

func newStubRosterRepo() *stubRosterRepo {
	return &stubRosterRepo{entries: make(map[int64]*domain.RosterEntry)}
}

func (r *stubRosterRepo) List(_ context.Context) ([]*domain.RosterEntry, error) {
	out := make([]*domain.RosterEntry, 0, len(r.entries))
	for _, e := range r.entries {
		copy := *e
		out = append(out, &copy)
	}
	return out, nil
}

func (r *stubRosterRepo) FindByEmail(_ context.Context, email string) (*domain.RosterEntry, error) {
	for _, e := range r.entries {
		if e.Email == email {
			copy := *e
			return &copy, nil
		}
	}
	return nil, domain.ErrRosterEntryNotFound
}

func (r *stubRosterRepo) Create(_ context.Context, entry *domain.RosterEntry) (*domain.RosterEntry, error) {
	for _, e := range r.entries {
		if e.Email == entry.Email {
			return nil, domain.ErrRosterEntryExists
		}
	}
	r.nextID++
	copy := *entry
	copy.ID = r.nextID
	r.entries[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubRosterRepo) Update(_ context.Context, id int64, name, passkeyHash string) error {
	e, ok := r.entries[id]
	if !ok {
		return domain.ErrRosterEntryNotFound
	}
	e.Name = name
	e.PasskeyHash = passkeyHash
	return nil
}

func (r *stubRosterRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.entries[id]; !ok {
		return domain.ErrRosterEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

type stubMailDispatcher struct {
	sent []ports.MailMessage
}

func (d *stubMailDispatcher) Enqueue(msg ports.MailMessage) {
	d.sent = append(d.sent, msg)
}

type stubProfileRepo struct {
	students  map[int64]*domain.StudentProfile
	companies map[int64]*domain.CompanyProfile
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{
		students:  make(map[int64]*domain.StudentProfile),
		companies: make(map[int64]*domain.CompanyProfile),
	}
}

func (r *stubProfileRepo) UpsertStudent(_ context.Context, profile *domain.StudentProfile) error {
	copy := *profile
	r.students[profile.StudentID] = &copy
	return nil
}

func (r *stubProfileRepo) FindStudent(_ context.Context, studentID int64) (*domain.StudentProfile, error) {
	if p, ok := r.students[studentID]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) UpsertCompany(_ context.Context, profile *domain.CompanyProfile) error {
	copy := *profile
	r.companies[profile.CompanyID] = &copy
	return nil
}

func (r *stubProfileRepo) FindCompany(_ context.Context, companyID int64) (*domain.CompanyProfile, error) {
	if p, ok := r.companies[companyID]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) DeleteByUniversity(_ context.Context, universityID int64) error {
	for id, p := range r.students {
		if p.UniversityID == universityID {
			delete(r.students, id)
		}
	}
	for id, p := range r.companies {
		if p.UniversityID == universityID {
			delete(r.companies, id)
		}
	}
	return nil
}

type stubJobRepo struct {
	jobs   map[int64]*domain.Job
	nextID int64
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[int64]*domain.Job)}
}

func (r *stubJobRepo) Create(_ context.Context, job *domain.Job) (*domain.Job, error) {
	r.nextID++
	copy := *job
	copy.ID = r.nextID
	r.jobs[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubJobRepo) FindByID(_ context.Context, id int64) (*domain.Job, error) {
	if j, ok := r.jobs[id]; ok {
		copy := *j
		return &copy, nil
	}
	return nil, domain.ErrJobNotFound
}

func (r *stubJobRepo) ListByUniversity(_ context.Context, universityID int64) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, j := range r.jobs {
		if j.UniversityID == universityID {
			copy := *j
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubJobRepo) ListByCompany(_ context.Context, companyID int64) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, j := range r.jobs {
		if j.CompanyID == companyID {
			copy := *j
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubJobRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *stubJobRepo) DeleteByUniversity(_ context.Context, universityID int64) error {
	for id, j := range r.jobs {
		if j.UniversityID == universityID {
			delete(r.jobs, id)
		}
	}
	return nil
}

type stubApplicationRepo struct {
	applications map[int64]*domain.Application
	nextID       int64
}

func newStubApplicationRepo() *stubApplicationRepo {
	return &stubApplicationRepo{applications: make(map[int64]*domain.Application)}
}

func (r *stubApplicationRepo) Create(_ context.Context, app *domain.Application) (*domain.Application, error) {
	for _, a := range r.applications {
		if a.StudentID == app.StudentID && a.JobID == app.JobID {
			return nil, domain.ErrDuplicateApplication
		}
	}
	r.nextID++
	copy := *app
	copy.ID = r.nextID
	r.applications[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubApplicationRepo) FindByID(_ context.Context, id int64) (*domain.Application, error) {
	if a, ok := r.applications[id]; ok {
		copy := *a
		return &copy, nil
	}
	return nil, domain.ErrApplicationNotFound
}

func (r *stubApplicationRepo) ListByJob(_ context.Context, jobID int64) ([]*domain.Application, error) {
	var out []*domain.Application
	for _, a := range r.applications {
		if a.JobID == jobID {
			copy := *a
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubApplicationRepo) ListByStudent(_ context.Context, studentID int64) ([]*domain.Application, error) {
	var out []*domain.Application
	for _, a := range r.applications {
		if a.StudentID == studentID {
			copy := *a
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubApplicationRepo) UpdateStatus(_ context.Context, id int64, status domain.ApplicationStatus) error {
	a, ok := r.applications[id]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	a.Status = status
	return nil
}

func (r *stubApplicationRepo) DeleteByUniversity(_ context.Context, universityID int64) error {
	for id, a := range r.applications {
		if a.UniversityID == universityID {
			delete(r.applications, id)
		}
	}
	return nil
}
