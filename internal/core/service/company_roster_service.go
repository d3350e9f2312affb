package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/startin-app/startin/internal/core/domain"
	"github.com/startin-app/startin/internal/core/ports"
)

// CompanyRosterService implements the admin-side company invitations: the
// roster of companies allowed to sign up, each gated by its own passkey.
type CompanyRosterService struct {
	roster   ports.CompanyRosterRepository
	accounts ports.AccountRepository
	log      zerolog.Logger

	now func() time.Time
}

func NewCompanyRosterService(roster ports.CompanyRosterRepository, accounts ports.AccountRepository, log zerolog.Logger) *CompanyRosterService {
	return &CompanyRosterService{roster: roster, accounts: accounts, log: log, now: time.Now}
}

// List reports every rostered company. An entry counts as registered once a
// company account with its email exists in any university.
func (s *CompanyRosterService) List(ctx context.Context) ([]ports.RosterCompany, error) {
	entries, err := s.roster.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	out := make([]ports.RosterCompany, 0, len(entries))
	for _, entry := range entries {
		registered, err := s.accounts.ExistsByEmail(ctx, domain.RoleCompany, entry.Email)
		if err != nil {
			return nil, fmt.Errorf("list roster: %w", err)
		}
		out = append(out, ports.RosterCompany{
			ID:         entry.ID,
			Name:       entry.Name,
			Email:      entry.Email,
			Registered: registered,
		})
	}
	return out, nil
}

func (s *CompanyRosterService) Add(ctx context.Context, in ports.AddRosterEntryInput) (*domain.RosterEntry, error) {
	if in.Name == "" || in.Email == "" || in.Passkey == "" {
		return nil, fmt.Errorf("add roster entry: missing required fields")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Passkey), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash passkey: %w", err)
	}

	entry, err := s.roster.Create(ctx, &domain.RosterEntry{
		Name:        in.Name,
		Email:       strings.ToLower(in.Email),
		PasskeyHash: string(hash),
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", entry.Email).Msg("company added to roster")
	return entry, nil
}

// ImportCSV upserts roster entries from a companyName/email/passkey CSV,
// collecting row failures into the report like the university import.
func (s *CompanyRosterService) ImportCSV(ctx context.Context, r io.Reader) (*ports.ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	nameCol, mailCol, keyCol := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "companyName":
			nameCol = i
		case "email":
			mailCol = i
		case "passkey":
			keyCol = i
		}
	}
	if nameCol < 0 || mailCol < 0 || keyCol < 0 {
		return nil, fmt.Errorf("csv must contain columns: companyName, email, passkey")
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
		email := strings.ToLower(strings.TrimSpace(row[mailCol]))
		passkey := strings.TrimSpace(row[keyCol])
		if name == "" || email == "" || passkey == "" {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: empty companyName, email or passkey", line))
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(passkey), bcrypt.DefaultCost)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		existing, err := s.roster.FindByEmail(ctx, email)
		switch {
		case err == nil:
			if err := s.roster.Update(ctx, existing.ID, name, string(hash)); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
				continue
			}
			report.Updated++
		case err == domain.ErrRosterEntryNotFound:
			if _, err := s.roster.Create(ctx, &domain.RosterEntry{Name: name, Email: email, PasskeyHash: string(hash), CreatedAt: s.now().UTC()}); err != nil {
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
		Msg("company roster imported")

	return report, nil
}

func (s *CompanyRosterService) Delete(ctx context.Context, id int64) error {
	if err := s.roster.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("roster_id", id).Msg("company removed from roster")
	return nil
}
