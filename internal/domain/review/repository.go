// internal/domain/review/repository.go
package review

import (
	"context"
	"time"

	"hive_reviews/internal/domain/dashboard"
)

// Repository defines the write path and point lookups for reviews and staff reviews.
type Repository interface {
	// SoftDelete stamps DeletedDate/DeletedBy on an undeleted review. Returns ErrReviewNotFound otherwise.
	SoftDelete(ctx context.Context, reviewID int64, actor string, at time.Time) error
	// CheckPreviousStaffReview fails with ErrStaffReviewSuperseded when prevID belongs to another
	// staff member, is deleted, or is already named as previous by another row. It locks the row.
	CheckPreviousStaffReview(ctx context.Context, prevID, staffID int64) error
	// CheckNoCurrentStaffReview locks the staff member and fails with ErrCurrentStaffReviewExists
	// when any live staff review of theirs has no live successor, or ErrStaffNotFound.
	CheckNoCurrentStaffReview(ctx context.Context, staffID int64) error
	InsertStaffReview(ctx context.Context, actor string, at time.Time, in NewStaffReview) (int64, error)
	// ActiveReviewIDByTemplateNameForStaffMember returns *ActiveReviewNotFoundError when nothing matches.
	ActiveReviewIDByTemplateNameForStaffMember(ctx context.Context, templateName, upn string, asAt time.Time) (int64, error)
	Audit(ctx context.Context, reviewID int64, page Pagination, filter AuditFilter) (AuditPage, error)
}

// DashboardRepository is the read side the dashboard aggregator queries. It never writes.
type DashboardRepository interface {
	// StatusCounts returns unfiltered observed counts per (period, status, lateness, hrRep) for
	// staff who are not terminated and belong to one of companyEntities (all when empty).
	StatusCounts(ctx context.Context, periods []dashboard.Period, companyEntities []string) ([]dashboard.GridRow, error)
	// ForLatenessAndStatus lists reviews by their status as at params.AsAtEndOf, applying the
	// equality filters of params. Exclusions are left to the caller.
	ForLatenessAndStatus(ctx context.Context, params dashboard.FilterParams) ([]LatenessRow, error)
	// StatusSnapshots returns each review's status at the end of both periods.
	StatusSnapshots(ctx context.Context, previous, current dashboard.Period, companyEntities []string) ([]dashboard.UnchangedRow, error)
}
