package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hive_reviews/internal/domain/feedback"
)

var ErrAssignmentNotFound = fmt.Errorf("feedback assignment not found")

type PostgresFeedbackRepository struct {
	db *sql.DB
}

func NewPostgresFeedbackRepository(db *sql.DB) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{db: db}
}

func (r *PostgresFeedbackRepository) SoftDeleteMessagesForReview(ctx context.Context, reviewID int64, reason, actor string, at time.Time) (int64, error) {
	query := `UPDATE messages m
               SET deleted_date = $3, deleted_by = $4,
                   retraction_reason_id = (SELECT id FROM feedback_retraction_reasons WHERE reason = $2)
               FROM feedback_assignments fa
               WHERE m.feedback_assignment_id = fa.feedback_assignment_id
                 AND fa.review_id = $1
                 AND m.deleted_date IS NULL`
	result, err := querierFrom(ctx, r.db).ExecContext(ctx, query, reviewID, reason, at, actor)
	if err != nil {
		return 0, fmt.Errorf("error soft-deleting messages for review %d: %w", reviewID, err)
	}
	return rowsAffected(result)
}

func (r *PostgresFeedbackRepository) SoftDeleteAssignmentsForReview(ctx context.Context, reviewID int64, actor string, at time.Time) (int64, error) {
	query := `UPDATE feedback_assignments SET deleted_date = $2, deleted_by = $3
               WHERE review_id = $1 AND deleted_date IS NULL`
	result, err := querierFrom(ctx, r.db).ExecContext(ctx, query, reviewID, at, actor)
	if err != nil {
		return 0, fmt.Errorf("error soft-deleting feedback assignments for review %d: %w", reviewID, err)
	}
	return rowsAffected(result)
}

// AppendDeletedStatusForReview targets the assignments stamped by SoftDeleteAssignmentsForReview
// with the same actor and instant.
func (r *PostgresFeedbackRepository) AppendDeletedStatusForReview(ctx context.Context, reviewID int64, reason, actor string, at time.Time) (int64, error) {
	query := `INSERT INTO feedback_assignment_status_history
                   (feedback_assignment_id, status_id, retraction_reason_id, updated_by, updated_date)
               SELECT fa.feedback_assignment_id,
                      (SELECT id FROM feedback_assignment_statuses WHERE description = $2),
                      (SELECT id FROM feedback_retraction_reasons WHERE reason = $3),
                      $4, $5
               FROM feedback_assignments fa
               WHERE fa.review_id = $1 AND fa.deleted_date = $5 AND fa.deleted_by = $4`
	result, err := querierFrom(ctx, r.db).ExecContext(ctx, query, reviewID, string(feedback.StatusDeleted), reason, actor, at)
	if err != nil {
		return 0, fmt.Errorf("error appending deleted status for review %d: %w", reviewID, err)
	}
	return rowsAffected(result)
}

func (r *PostgresFeedbackRepository) GetAssignment(ctx context.Context, id int64) (*feedback.Assignment, error) {
	query := `SELECT feedback_assignment_id, review_id, reviewer, deleted_date, deleted_by
               FROM feedback_assignments WHERE feedback_assignment_id = $1`
	a := feedback.Assignment{}
	err := querierFrom(ctx, r.db).QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.ReviewID, &a.Reviewer, &a.DeletedDate, &a.DeletedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error getting feedback assignment %d: %w", id, err)
	}
	return &a, nil
}

func (r *PostgresFeedbackRepository) ListRetractionReasons(ctx context.Context) ([]feedback.RetractionReason, error) {
	rows, err := querierFrom(ctx, r.db).QueryContext(ctx, `SELECT id, reason FROM feedback_retraction_reasons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing retraction reasons: %w", err)
	}
	defer rows.Close()

	reasons := []feedback.RetractionReason{}
	for rows.Next() {
		var rr feedback.RetractionReason
		if err := rows.Scan(&rr.ID, &rr.Reason); err != nil {
			return nil, fmt.Errorf("error scanning retraction reason: %w", err)
		}
		reasons = append(reasons, rr)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating retraction reasons: %w", err)
	}
	return reasons, nil
}

func (r *PostgresFeedbackRepository) AppendStatus(ctx context.Context, assignmentID int64, status feedback.Status, reason, actor string, at time.Time) error {
	query := `INSERT INTO feedback_assignment_status_history
                   (feedback_assignment_id, status_id, retraction_reason_id, updated_by, updated_date)
               VALUES ($1,
                       (SELECT id FROM feedback_assignment_statuses WHERE description = $2),
                       (SELECT id FROM feedback_retraction_reasons WHERE reason = $3),
                       $4, $5)`
	var reasonParam any
	if reason != "" {
		reasonParam = reason
	}
	if _, err := querierFrom(ctx, r.db).ExecContext(ctx, query, assignmentID, string(status), reasonParam, actor, at); err != nil {
		return fmt.Errorf("error appending status %s for feedback assignment %d: %w", status, assignmentID, err)
	}
	return nil
}

func rowsAffected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading rows affected: %w", err)
	}
	return n, nil
}
