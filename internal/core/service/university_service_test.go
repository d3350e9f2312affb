package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/startin-app/startin/internal/core/domain"
)

type universityFixture struct {
	svc          *UniversityService
	universities *stubUniversityRepo
	accounts     *stubAccountRepo
	profiles     *stubProfileRepo
	jobs         *stubJobRepo
	applications *stubApplicationRepo
	otps         *stubOTPStore
}

func newUniversityFixture() *universityFixture {
	f := &universityFixture{
		universities: newStubUniversityRepo(),
		accounts:     newStubAccountRepo(),
		profiles:     newStubProfileRepo(),
		jobs:         newStubJobRepo(),
		applications: newStubApplicationRepo(),
		otps:         newStubOTPStore(),
	}
	f.svc = NewUniversityService(f.universities, f.accounts, f.profiles, f.jobs, f.applications, f.otps, zerolog.Nop())
	return f
}

func (f *universityFixture) seedUniversity(t *testing.T, name, passkey string) *domain.University {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(passkey), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash passkey: %v", err)
	}
	uni, err := f.universities.Create(context.Background(), &domain.University{Name: name, PasskeyHash: string(hash)})
	if err != nil {
		t.Fatalf("seed university: %v", err)
	}
	return uni
}

func TestUniversityService_VerifyPasskey(t *testing.T) {
	f := newUniversityFixture()
	f.seedUniversity(t, "First University", "alpha-key")
	second := f.seedUniversity(t, "Second University", "beta-key")

	uni, err := f.svc.VerifyPasskey(context.Background(), "beta-key")
	if err != nil {
		t.Fatalf("VerifyPasskey returned error: %v", err)
	}
	if uni.ID != second.ID || uni.Name != "Second University" {
		t.Fatalf("resolved wrong university: %+v", uni)
	}

	if _, err := f.svc.VerifyPasskey(context.Background(), "no-such-key"); !errors.Is(err, domain.ErrInvalidPasskey) {
		t.Fatalf("expected ErrInvalidPasskey, got %v", err)
	}
	if _, err := f.svc.VerifyPasskey(context.Background(), ""); !errors.Is(err, domain.ErrInvalidPasskey) {
		t.Fatalf("expected ErrInvalidPasskey for empty key, got %v", err)
	}
}

func TestUniversityService_ImportCSV(t *testing.T) {
	f := newUniversityFixture()
	f.seedUniversity(t, "Existing University", "old-key")

	csv := strings.Join([]string{
		"universityName,passkey",
		"Existing University,rotated-key",
		"New University,fresh-key",
		",missing-name",
	}, "\n")

	report, err := f.svc.ImportCSV(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportCSV returned error: %v", err)
	}
	if report.Added != 1 || report.Updated != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "row 4") {
		t.Fatalf("expected one row error for row 4, got %v", report.Errors)
	}

	// The rotated passkey now resolves; the old one no longer does.
	if _, err := f.svc.VerifyPasskey(context.Background(), "rotated-key"); err != nil {
		t.Fatalf("rotated passkey rejected: %v", err)
	}
	if _, err := f.svc.VerifyPasskey(context.Background(), "old-key"); !errors.Is(err, domain.ErrInvalidPasskey) {
		t.Fatalf("expected old passkey to be invalid, got %v", err)
	}
	if _, err := f.svc.VerifyPasskey(context.Background(), "fresh-key"); err != nil {
		t.Fatalf("new university passkey rejected: %v", err)
	}
}

func TestUniversityService_ImportCSV_BadHeader(t *testing.T) {
	f := newUniversityFixture()

	if _, err := f.svc.ImportCSV(context.Background(), strings.NewReader("name,secret\na,b\n")); err == nil {
		t.Fatalf("expected error for missing columns")
	}
}

func TestUniversityService_Delete_Cascades(t *testing.T) {
	f := newUniversityFixture()
	uni := f.seedUniversity(t, "Doomed University", "doomed-key")
	other := f.seedUniversity(t, "Other University", "other-key")

	ctx := context.Background()
	_, _ = f.accounts.Create(ctx, &domain.Account{Email: "s@uni.edu", Role: domain.RoleStudent, UniversityID: uni.ID})
	_ = f.profiles.UpsertStudent(ctx, &domain.StudentProfile{StudentID: 1, FullName: "S", UniversityID: uni.ID})
	job, _ := f.jobs.Create(ctx, &domain.Job{Title: "Intern", CompanyID: 2, UniversityID: uni.ID})
	_, _ = f.applications.Create(ctx, &domain.Application{JobID: job.ID, StudentID: 1, UniversityID: uni.ID, Status: domain.StatusPending})
	_ = f.otps.Put(ctx, &domain.Challenge{Email: "p@uni.edu", Code: "123456", UniversityID: uni.ID})

	otherJob, _ := f.jobs.Create(ctx, &domain.Job{Title: "Survivor", CompanyID: 3, UniversityID: other.ID})

	if err := f.svc.Delete(ctx, uni.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := f.universities.FindByID(ctx, uni.ID); !errors.Is(err, domain.ErrUniversityNotFound) {
		t.Fatalf("university must be gone, got %v", err)
	}
	if _, err := f.accounts.FindByEmail(ctx, domain.RoleStudent, uni.ID, "s@uni.edu"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("accounts must be gone, got %v", err)
	}
	if _, err := f.profiles.FindStudent(ctx, 1); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("profiles must be gone, got %v", err)
	}
	if _, err := f.jobs.FindByID(ctx, job.ID); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("jobs must be gone, got %v", err)
	}
	if apps, _ := f.applications.ListByStudent(ctx, 1); len(apps) != 0 {
		t.Fatalf("applications must be gone, got %d", len(apps))
	}
	if _, err := f.otps.Get(ctx, uni.ID, "p@uni.edu"); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Fatalf("pending otps must be gone, got %v", err)
	}

	// The other tenant is untouched.
	if _, err := f.jobs.FindByID(ctx, otherJob.ID); err != nil {
		t.Fatalf("other tenant's job must survive: %v", err)
	}
}

func TestUniversityService_Delete_Unknown(t *testing.T) {
	f := newUniversityFixture()

	if err := f.svc.Delete(context.Background(), 42); !errors.Is(err, domain.ErrUniversityNotFound) {
		t.Fatalf("expected ErrUniversityNotFound, got %v", err)
	}
}
