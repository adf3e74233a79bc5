package database

import (
	"context"
	"database/sql"
	"fmt"

	"hive_reviews/internal/domain/dashboard"
	"hive_reviews/internal/domain/review"
)

// PostgresReviewDashboardRepository is read-only.
type PostgresReviewDashboardRepository struct {
	db *sql.DB
}

func NewPostgresReviewDashboardRepository(db *sql.DB) *PostgresReviewDashboardRepository {
	return &PostgresReviewDashboardRepository{db: db}
}

func (r *PostgresReviewDashboardRepository) StatusCounts(ctx context.Context, periods []dashboard.Period, companyEntities []string) ([]dashboard.GridRow, error) {
	return reviewSource.statusCounts(ctx, r.db, periods, companyEntities)
}

func (r *PostgresReviewDashboardRepository) StatusSnapshots(ctx context.Context, previous, current dashboard.Period, companyEntities []string) ([]dashboard.UnchangedRow, error) {
	return reviewSource.statusSnapshots(ctx, r.db, previous, current, companyEntities)
}

var reviewsForLatenessQuery = `SELECT sf.staff_id, sf.hr_rep, st.updated_date, sr.next_review_date, r.review_id,
		sf.display_name, sf.department, sf.manager, r.due_date,
		categorise_lateness(r.due_date, $1::date) AS lateness, st.description, sf.employment_status
	FROM reviews r
	JOIN staff_reviews sr ON sr.review_id = r.review_id AND sr.deleted_date IS NULL
	JOIN staff sf ON sf.staff_id = sr.staff_id
	` + ReviewLedger.statusAt("st", "r.review_id", "< $1::date + 1") + `
	WHERE st.status_id IS NOT NULL
		AND (r.deleted_date IS NULL OR r.deleted_date >= $1::date + 1)
		AND ($2::text[] IS NULL OR sf.company_entity = ANY($2))
		AND ($3::text IS NULL OR st.description = $3)
		AND ($4::text IS NULL OR categorise_lateness(r.due_date, $1::date) = $4)
		AND ($5::text IS NULL OR sf.hr_rep = $5)
	ORDER BY sf.display_name, r.review_id`

// ForLatenessAndStatus applies the equality filters in the store. Exclusions are the caller's.
func (r *PostgresReviewDashboardRepository) ForLatenessAndStatus(ctx context.Context, params dashboard.FilterParams) ([]review.LatenessRow, error) {
	rows, err := querierFrom(ctx, r.db).QueryContext(ctx, reviewsForLatenessQuery,
		dateParam(params.AsAtEndOf), listParam(params.CompanyEntities),
		stringParam(params.Status), stringParam(params.Lateness), stringParam(params.HRRep))
	if err != nil {
		return nil, fmt.Errorf("error listing reviews for lateness and status: %w", err)
	}
	defer rows.Close()

	var out []review.LatenessRow
	for rows.Next() {
		var (
			row                     review.LatenessRow
			hrRep, lateness, status sql.NullString
		)
		if err := rows.Scan(&row.StaffID, &hrRep, &row.UpdatedDate, &row.NextReviewDate, &row.ReviewID,
			&row.DisplayName, &row.Department, &row.Manager, &row.DueDate,
			&lateness, &status, &row.StaffStatus); err != nil {
			return nil, fmt.Errorf("error scanning review listing row: %w", err)
		}
		row.HRRep = nullString(hrRep)
		row.Lateness = nullString(lateness)
		row.ReviewStatus = nullString(status)
		out = append(out, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review listing rows: %w", err)
	}
	return out, nil
}
