// internal/domain/ledger/repository.go
package ledger

import (
	"context"
	"time"
)

// Repository reads and appends one status history ledger. Implementations never update or delete rows.
type Repository interface {
	// Lock serialises status changes of one entity until the surrounding transaction ends.
	// Returns ErrUnknownEntity when the owning row does not exist.
	Lock(ctx context.Context, entityID int64) error
	// Append inserts exactly one row. An unknown status description fails in the store.
	Append(ctx context.Context, change Change) error
	// CurrentStatus returns the most recent row at or before asAt, or ErrNoHistory.
	CurrentStatus(ctx context.Context, entityID int64, asAt time.Time) (Entry, error)
	// History returns every row of the entity in ledger order.
	History(ctx context.Context, entityID int64) ([]Entry, error)
}
