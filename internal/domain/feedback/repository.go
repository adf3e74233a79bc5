package feedback

import (
	"context"
	"time"
)

// Repository covers the feedback tables touched by review deletion and by status updates.
type Repository interface {
	// SoftDeleteMessagesForReview soft-deletes every message linked to the review's assignments
	// with the given retraction reason.
	SoftDeleteMessagesForReview(ctx context.Context, reviewID int64, reason, actor string, at time.Time) (int64, error)
	// SoftDeleteAssignmentsForReview soft-deletes the review's undeleted assignments.
	SoftDeleteAssignmentsForReview(ctx context.Context, reviewID int64, actor string, at time.Time) (int64, error)
	// AppendDeletedStatusForReview appends a Deleted row, carrying reason, for every assignment
	// soft-deleted by actor at the given instant.
	AppendDeletedStatusForReview(ctx context.Context, reviewID int64, reason, actor string, at time.Time) (int64, error)
	GetAssignment(ctx context.Context, id int64) (*Assignment, error)
	ListRetractionReasons(ctx context.Context) ([]RetractionReason, error)
	// AppendStatus appends one lifecycle row; reason may be empty.
	AppendStatus(ctx context.Context, assignmentID int64, status Status, reason, actor string, at time.Time) error
}
