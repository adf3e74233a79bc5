// internal/domain/review/review.go
package review

import (
	"database/sql"
	"time"

	"hive_reviews/internal/domain/dashboard"
)

// Status descriptions the layer refers to by name. The rest of the catalog is reference data.
const (
	StatusArchived  = "Archived"
	StatusCancelled = "Cancelled"
)

// Hold is the optional on-hold information of a new staff review.
type Hold struct {
	Reason   string
	OnHoldBy string
	PlacedAt time.Time
}

// NewStaffReview is the input of InsertStaffReview.
type NewStaffReview struct {
	StaffID               int64
	NextReviewDate        time.Time
	PreviousStaffReviewID *int64
	NextFeedbackTypeID    int32
	Hold                  *Hold
}

// LatenessRow is one line of the reviews-for-lateness-and-status listing.
type LatenessRow struct {
	StaffID        int64
	HRRep          *string
	UpdatedDate    time.Time
	NextReviewDate sql.NullTime
	ReviewID       int64
	DisplayName    string
	Department     sql.NullString
	Manager        sql.NullString
	DueDate        sql.NullTime
	Lateness       *string
	ReviewStatus   *string
	StaffStatus    string
}

func (r LatenessRow) Dimensions() dashboard.Dimensions {
	return dashboard.Dimensions{Status: r.ReviewStatus, Lateness: r.Lateness, HRRep: r.HRRep}
}
