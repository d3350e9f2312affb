package ports

import (
	"context"
	"io"

	"github.com/startin-app/startin/internal/core/domain"
)

// ImportReport summarizes one CSV import pass.
type ImportReport struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

type UniversityService interface {
	// VerifyPasskey resolves a human-entered passkey to its university, or
	// domain.ErrInvalidPasskey when nothing matches.
	VerifyPasskey(ctx context.Context, passkey string) (*domain.University, error)

	List(ctx context.Context) ([]*domain.University, error)

	// ImportCSV reads universityName/passkey rows, hashing passkeys before
	// storage. Existing universities (matched by name) get their passkey
	// rotated; unknown names are added. Row-level failures are reported, not
	// fatal.
	ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error)

	// Delete removes a university and every record scoped to it.
	Delete(ctx context.Context, id int64) error
}
