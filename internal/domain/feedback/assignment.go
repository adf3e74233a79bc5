// internal/domain/feedback/assignment.go
package feedback

import (
	"database/sql"
	"errors"
	"fmt"
)

// ReasonReviewDeleted is the retraction reason stamped on everything removed by a review deletion.
const ReasonReviewDeleted = "Review Deleted"

type Status string

const (
	StatusNew           Status = "New"
	StatusViewed        Status = "Viewed"
	StatusStarted       Status = "Started"
	StatusSavedForLater Status = "Saved For Later"
	StatusSubmitted     Status = "Submitted"
	StatusRetracted     Status = "Retracted"
	StatusDeleted       Status = "Deleted"
)

var (
	ErrUnknownStatus            = errors.New("unknown feedback assignment status")
	ErrSystemOnlyTransition     = errors.New("deleted is only reached through review deletion")
	ErrRetractionReasonRequired = errors.New("a retraction reason is required")
)

// TransitionError reports a lifecycle move that is not allowed.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("feedback assignment transition error [%s->%s]: not allowed", e.From, e.To)
}

// Assignment is a request for one reviewer to give feedback on a review.
type Assignment struct {
	ID          int64
	ReviewID    int64
	Reviewer    string
	DeletedDate sql.NullTime
	DeletedBy   sql.NullString
}

type RetractionReason struct {
	ID     int32
	Reason string
}

var transitions = map[Status][]Status{
	StatusNew:           {StatusViewed, StatusRetracted},
	StatusViewed:        {StatusStarted, StatusRetracted},
	StatusStarted:       {StatusSavedForLater, StatusSubmitted, StatusRetracted},
	StatusSavedForLater: {StatusStarted, StatusSubmitted, StatusRetracted},
}

// ParseStatus matches a stored description to a lifecycle status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusNew, StatusViewed, StatusStarted, StatusSavedForLater, StatusSubmitted, StatusRetracted, StatusDeleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// IsTerminal reports whether nothing may follow the status.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CheckTransition validates a user-invoked move. Deleted is never user-invocable and Retracted
// needs a reason.
func CheckTransition(from, to Status, reason string) error {
	if to == StatusDeleted {
		return ErrSystemOnlyTransition
	}
	if _, err := ParseStatus(string(to)); err != nil {
		return err
	}
	for _, next := range transitions[from] {
		if next == to {
			if to == StatusRetracted && reason == "" {
				return ErrRetractionReasonRequired
			}
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}
