// internal/domain/contract/recommendation.go
package contract

import (
	"database/sql"
	"time"

	"hive_reviews/internal/domain/dashboard"
)

// LatenessRow is one line of the contracts-for-lateness-and-status listing.
type LatenessRow struct {
	ContractRecommendationID int64
	ContractID               int64
	StaffID                  int64
	DisplayName              string
	Department               sql.NullString
	HRRep                    *string
	ContractEndDate          sql.NullTime
	UpdatedDate              time.Time
	StatusID                 int32
	Status                   *string
	Lateness                 *string
}

func (r LatenessRow) Dimensions() dashboard.Dimensions {
	return dashboard.Dimensions{Status: r.Status, Lateness: r.Lateness, HRRep: r.HRRep}
}
