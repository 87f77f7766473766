// Package store persists proposals. GormStore backs production (PostgreSQL or
// SQLite); MemoryStore keeps everything in process for tests and demos.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sujalbistaa/proposal/internal/models"
)

// ErrNotFound is returned when no proposal has the requested id.
var ErrNotFound = errors.New("proposal not found")

// Store is the persistence contract used by the lifecycle service.
type Store interface {
	// Create writes a new record keyed by p.ID.
	Create(ctx context.Context, p *models.Proposal) error
	// Get returns the record for id or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Proposal, error)
	// Update overwrites the non-nil fields unconditionally. Last write wins.
	Update(ctx context.Context, id string, f Fields) error
	// AppendGuess appends guess, keeps GuessesUsed equal to len(Guesses) and
	// sets GuessedCorrectly when correct. Already-true GuessedCorrectly stays true.
	AppendGuess(ctx context.Context, id, guess string, correct bool) (*models.Proposal, error)
	// DeleteExpired removes records whose ExpiresAt is before the given time.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

// Fields is a partial update of the scalar columns.
type Fields struct {
	Response    *models.Response
	RespondedAt *time.Time
}

func (f Fields) columns() map[string]any {
	cols := make(map[string]any, 2)
	if f.Response != nil {
		cols["response"] = string(*f.Response)
	}
	if f.RespondedAt != nil {
		cols["responded_at"] = f.RespondedAt.UTC()
	}
	return cols
}

// IsMemoryURL reports whether dbURL selects the in-process store.
func IsMemoryURL(dbURL string) bool {
	return strings.HasPrefix(dbURL, "memory://")
}
