package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/startin-app/startin/internal/core/domain"
	"github.com/startin-app/startin/internal/core/ports"
)

// UniversityService implements tenant management: passkey verification for
// scope selection, and the admin-side roster import and cascading delete.
type UniversityService struct {
	universities ports.UniversityRepository
	accounts     ports.AccountRepository
	profiles     ports.ProfileRepository
	jobs         ports.JobRepository
	applications ports.ApplicationRepository
	otps         ports.OTPStore
	log          zerolog.Logger
}

func NewUniversityService(
	universities ports.UniversityRepository,
	accounts ports.AccountRepository,
	profiles ports.ProfileRepository,
	jobs ports.JobRepository,
	applications ports.ApplicationRepository,
	otps ports.OTPStore,
	log zerolog.Logger,
) *UniversityService {
	return &UniversityService{
		universities: universities,
		accounts:     accounts,
		profiles:     profiles,
		jobs:         jobs,
		applications: applications,
		otps:         otps,
		log:          log,
	}
}

// VerifyPasskey resolves a passkey to its university. Passkeys are stored
// bcrypt-hashed, so the lookup sweeps all rows and compares each hash.
func (s *UniversityService) VerifyPasskey(ctx context.Context, passkey string) (*domain.University, error) {
	if passkey == "" {
		return nil, domain.ErrInvalidPasskey
	}

	universities, err := s.universities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify passkey: %w", err)
	}

	for _, uni := range universities {
		if bcrypt.CompareHashAndPassword([]byte(uni.PasskeyHash), []byte(passkey)) == nil {
			return uni, nil
		}
	}
	return nil, domain.ErrInvalidPasskey
}

func (s *UniversityService) List(ctx context.Context) ([]*domain.University, error) {
	return s.universities.List(ctx)
}

// ImportCSV upserts universities from a universityName/passkey CSV. Row
// failures are collected into the report rather than aborting the import.
func (s *UniversityService) ImportCSV(ctx context.Context, r io.Reader) (*ports.ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	nameCol, keyCol := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "universityName":
			nameCol = i
		case "passkey":
			keyCol = i
		}
	}
	if nameCol < 0 || keyCol < 0 {
		return nil, fmt.Errorf("csv must contain columns: universityName, passkey")
	}

	report := &ports.ImportReport{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		name := strings.TrimSpace(row[nameCol])
		passkey := strings.TrimSpace(row[keyCol])
		if name == "" || passkey == "" {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: empty universityName or passkey", line))
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(passkey), bcrypt.DefaultCost)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		existing, err := s.universities.FindByName(ctx, name)
		switch {
		case err == nil:
			if err := s.universities.UpdatePasskey(ctx, existing.ID, string(hash)); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
				continue
			}
			report.Updated++
		case err == domain.ErrUniversityNotFound:
			if _, err := s.universities.Create(ctx, &domain.University{Name: name, PasskeyHash: string(hash)}); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
				continue
			}
			report.Added++
		default:
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
		}
	}

	s.log.Info().
		Int("added", report.Added).
		Int("updated", report.Updated).
		Int("errors", len(report.Errors)).
		Msg("university roster imported")

	return report, nil
}

// Delete removes a university and everything scoped to it, children first so
// a partial failure never leaves orphans pointing at a missing tenant.
func (s *UniversityService) Delete(ctx context.Context, id int64) error {
	if _, err := s.universities.FindByID(ctx, id); err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func(context.Context, int64) error
	}{
		{"applications", s.applications.DeleteByUniversity},
		{"jobs", s.jobs.DeleteByUniversity},
		{"profiles", s.profiles.DeleteByUniversity},
		{"accounts", s.accounts.DeleteByUniversity},
		{"otps", s.otps.PurgeUniversity},
	}
	for _, step := range steps {
		if err := step.fn(ctx, id); err != nil {
			return fmt.Errorf("delete university %s: %w", step.name, err)
		}
	}

	if err := s.universities.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete university: %w", err)
	}

	s.log.Info().Int64("university_id", id).Msg("university and scoped records deleted")
	return nil
}
