// internal/infra/database/postgres_review_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hive_reviews/internal/domain/review"

	"github.com/lib/pq"
)

type PostgresReviewRepository struct {
	db *sql.DB
}

func NewPostgresReviewRepository(db *sql.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func (r *PostgresReviewRepository) SoftDelete(ctx context.Context, reviewID int64, actor string, at time.Time) error {
	query := `UPDATE reviews SET deleted_date = $2, deleted_by = $3
               WHERE review_id = $1 AND deleted_date IS NULL`
	result, err := querierFrom(ctx, r.db).ExecContext(ctx, query, reviewID, at, actor)
	if err != nil {
		return fmt.Errorf("error soft-deleting review %d: %w", reviewID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected for review %d: %w", reviewID, err)
	}
	if affected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// CheckPreviousStaffReview locks the previous staff review so two concurrent inserts cannot both
// supersede it.
func (r *PostgresReviewRepository) CheckPreviousStaffReview(ctx context.Context, prevID, staffID int64) error {
	query := `SELECT sr.staff_id, sr.deleted_date IS NOT NULL,
                     EXISTS (SELECT 1 FROM staff_reviews n
                             WHERE n.previous_staff_review_id = sr.staff_review_id AND n.deleted_date IS NULL)
               FROM staff_reviews sr
               WHERE sr.staff_review_id = $1
               FOR UPDATE OF sr`

	var (
		owner               int64
		deleted, superseded bool
	)
	err := querierFrom(ctx, r.db).QueryRowContext(ctx, query, prevID).Scan(&owner, &deleted, &superseded)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: staff review %d does not exist", review.ErrStaffReviewSuperseded, prevID)
		}
		return fmt.Errorf("error checking previous staff review %d: %w", prevID, err)
	}
	switch {
	case owner != staffID:
		return fmt.Errorf("%w: staff review %d belongs to staff member %d", review.ErrStaffReviewSuperseded, prevID, owner)
	case deleted:
		return fmt.Errorf("%w: staff review %d is deleted", review.ErrStaffReviewSuperseded, prevID)
	case superseded:
		return fmt.Errorf("%w: staff review %d already has a successor", review.ErrStaffReviewSuperseded, prevID)
	}
	return nil
}

// CheckNoCurrentStaffReview serialises chain starts per staff member on the staff row. The current
// review lookup is a separate statement so it sees rows committed while waiting for the lock.
func (r *PostgresReviewRepository) CheckNoCurrentStaffReview(ctx context.Context, staffID int64) error {
	q := querierFrom(ctx, r.db)

	var locked int64
	err := q.QueryRowContext(ctx, `SELECT staff_id FROM staff WHERE staff_id = $1 FOR UPDATE`, staffID).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %d", review.ErrStaffNotFound, staffID)
		}
		return fmt.Errorf("error locking staff member %d: %w", staffID, err)
	}

	query := `SELECT sr.staff_review_id
               FROM staff_reviews sr
               WHERE sr.staff_id = $1
                 AND sr.deleted_date IS NULL
                 AND NOT EXISTS (SELECT 1 FROM staff_reviews n
                                 WHERE n.previous_staff_review_id = sr.staff_review_id AND n.deleted_date IS NULL)
               ORDER BY sr.staff_review_id DESC
               LIMIT 1`

	var current int64
	err = q.QueryRowContext(ctx, query, staffID).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return fmt.Errorf("error looking up current staff review of %d: %w", staffID, err)
	}
	return fmt.Errorf("%w: staff review %d", review.ErrCurrentStaffReviewExists, current)
}

func (r *PostgresReviewRepository) InsertStaffReview(ctx context.Context, actor string, at time.Time, in review.NewStaffReview) (int64, error) {
	query := `INSERT INTO staff_reviews (staff_id, next_review_date, previous_staff_review_id, next_feedback_type_id,
                                         hold_reason, on_hold_by, placed_on_hold_date, created_date, created_by)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
               RETURNING staff_review_id`

	var previous, holdReason, onHoldBy, placedOnHold any
	if in.PreviousStaffReviewID != nil {
		previous = *in.PreviousStaffReviewID
	}
	if in.Hold != nil {
		holdReason, onHoldBy, placedOnHold = in.Hold.Reason, in.Hold.OnHoldBy, in.Hold.PlacedAt
	}

	var id int64
	err := querierFrom(ctx, r.db).QueryRowContext(ctx, query,
		in.StaffID, dateParam(in.NextReviewDate), previous, in.NextFeedbackTypeID,
		holdReason, onHoldBy, placedOnHold, at, actor,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error inserting staff review for staff %d: %w", in.StaffID, err)
	}
	return id, nil
}

// ActiveReviewIDByTemplateNameForStaffMember picks the newest undeleted review of the template
// whose status as at asAt is neither Archived nor Cancelled.
func (r *PostgresReviewRepository) ActiveReviewIDByTemplateNameForStaffMember(ctx context.Context, templateName, upn string, asAt time.Time) (int64, error) {
	query := `SELECT r.review_id
	FROM reviews r
	JOIN templates t ON t.template_id = r.template_id
	JOIN staff_reviews sr ON sr.review_id = r.review_id AND sr.deleted_date IS NULL
	JOIN staff sf ON sf.staff_id = sr.staff_id
	` + ReviewLedger.statusAt("st", "r.review_id", "<= $4") + `
	WHERE t.template_name = $1
		AND lower(sf.upn) = lower($2)
		AND r.deleted_date IS NULL
		AND st.status_id IS NOT NULL
		AND NOT (st.description = ANY($3))
	ORDER BY r.review_id DESC
	LIMIT 1`

	var id int64
	inactive := pq.Array([]string{review.StatusArchived, review.StatusCancelled})
	err := querierFrom(ctx, r.db).QueryRowContext(ctx, query, templateName, upn, inactive, asAt).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &review.ActiveReviewNotFoundError{TemplateName: templateName, UPN: upn}
		}
		return 0, fmt.Errorf("error getting active review for template %q: %w", templateName, err)
	}
	return id, nil
}

// Audit returns one page of the review's audit trail, newest first, and the number of records
// matching the filter.
func (r *PostgresReviewRepository) Audit(ctx context.Context, reviewID int64, page review.Pagination, filter review.AuditFilter) (review.AuditPage, error) {
	offset, err := page.Offset()
	if err != nil {
		return review.AuditPage{}, err
	}

	where := `WHERE review_id = $1
		AND ($2::text[] IS NULL OR action_type = ANY($2))
		AND ($3::text[] IS NULL OR action_by = ANY($3))`
	actionTypes, users := listParam(filter.ActionTypes), listParam(filter.Users)
	q := querierFrom(ctx, r.db)

	var total int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM review_audit `+where, reviewID, actionTypes, users).Scan(&total); err != nil {
		return review.AuditPage{}, fmt.Errorf("error counting audit records for review %d: %w", reviewID, err)
	}

	rows, err := q.QueryContext(ctx, `SELECT review_audit_id, review_id, action_type, action_by, action_date, COALESCE(details, '')
		FROM review_audit `+where+`
		ORDER BY action_date DESC, review_audit_id DESC
		LIMIT $4 OFFSET $5`, reviewID, actionTypes, users, page.PageLength, offset)
	if err != nil {
		return review.AuditPage{}, fmt.Errorf("error listing audit records for review %d: %w", reviewID, err)
	}
	defer rows.Close()

	result := review.AuditPage{Records: []review.AuditRecord{}, TotalCount: int(total)}
	for rows.Next() {
		var rec review.AuditRecord
		if err := rows.Scan(&rec.ID, &rec.ReviewID, &rec.ActionType, &rec.ActionBy, &rec.ActionDate, &rec.Details); err != nil {
			return review.AuditPage{}, fmt.Errorf("error scanning audit record: %w", err)
		}
		result.Records = append(result.Records, rec)
	}
	if err = rows.Err(); err != nil {
		return review.AuditPage{}, fmt.Errorf("error iterating audit records: %w", err)
	}
	return result, nil
}
