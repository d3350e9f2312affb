package ports

import (
	"context"
	"io"

	"github.com/startin-app/startin/internal/core/domain"
)

// RosterCompany is one roster entry enriched with its registration state for
// the admin listing.
type RosterCompany struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Registered bool   `json:"registered"`
}

type AddRosterEntryInput struct {
	Name    string
	Email   string
	Passkey string
}

type CompanyRosterService interface {
	// List reports every rostered company, flagging the ones that already
	// completed signup.
	List(ctx context.Context) ([]RosterCompany, error)

	// Add invites a single company, hashing its passkey before storage.
	Add(ctx context.Context, in AddRosterEntryInput) (*domain.RosterEntry, error)

	// ImportCSV reads companyName/email/passkey rows. Existing entries
	// (matched by email) get their name and passkey rotated; unknown emails
	// are added. Row-level failures are reported, not fatal.
	ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error)

	Delete(ctx context.Context, id int64) error
}
