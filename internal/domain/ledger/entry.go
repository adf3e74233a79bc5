// internal/domain/ledger/entry.go
package ledger

import (
	"errors"
	"time"
)

// ErrNoHistory is returned when an entity has no status row at or before the requested instant.
// It is a state of its own and must not be confused with any named status.
var ErrNoHistory = errors.New("no status history at the requested instant")

// ErrUnknownEntity is returned when the entity owning a ledger does not exist.
var ErrUnknownEntity = errors.New("ledger entity does not exist")

// ErrAsAtRequired is returned before any query runs when the caller did not supply an as-at instant.
var ErrAsAtRequired = errors.New("as-at date is required")

// UnchangedPeriods is the number of periods compared when looking for entities whose status did not move.
const UnchangedPeriods = 2

// Entry is one immutable row of a status history ledger
// (review_status_history, contract_recommendation_status_history, feedback_assignment_status_history).
type Entry struct {
	ID          int64
	EntityID    int64
	StatusID    int32
	Status      string
	UpdatedBy   string
	UpdatedDate time.Time
}

// Change is an append request for a ledger. The status is given by description and resolved by the store.
type Change struct {
	EntityID int64
	Status   string
	Actor    string
	At       time.Time
}

// before orders entries by time, then by id for rows sharing a timestamp.
func before(a, b Entry) bool {
	if a.UpdatedDate.Equal(b.UpdatedDate) {
		return a.ID < b.ID
	}
	return a.UpdatedDate.Before(b.UpdatedDate)
}

// CurrentAsAt returns the most recent entry with UpdatedDate <= asAt.
// The entries may belong to a single entity only and can be in any order.
func CurrentAsAt(entries []Entry, asAt time.Time) (Entry, error) {
	var (
		latest Entry
		found  bool
	)
	for _, e := range entries {
		if e.UpdatedDate.After(asAt) {
			continue
		}
		if !found || before(latest, e) {
			latest = e
			found = true
		}
	}
	if !found {
		return Entry{}, ErrNoHistory
	}
	return latest, nil
}

// Snapshot is an entity's status at the end of the previous and of the latest compared period.
// A nil pointer means the entity had no history at that instant.
type Snapshot struct {
	EntityID int64
	Previous *int32
	Current  *int32
}

// Unchanged reports whether the status is the same at both period ends.
// Entities without history at either end are never unchanged.
func (s Snapshot) Unchanged() bool {
	if s.Previous == nil || s.Current == nil {
		return false
	}
	return *s.Previous == *s.Current
}
