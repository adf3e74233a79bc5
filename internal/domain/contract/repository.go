package contract

import (
	"context"

	"hive_reviews/internal/domain/dashboard"
)

// DashboardRepository is the read side for contract recommendations. The lateness target of a
// recommendation is its contract's end date.
type DashboardRepository interface {
	StatusCounts(ctx context.Context, periods []dashboard.Period, companyEntities []string) ([]dashboard.GridRow, error)
	ForLatenessAndStatus(ctx context.Context, params dashboard.FilterParams) ([]LatenessRow, error)
	StatusSnapshots(ctx context.Context, previous, current dashboard.Period, companyEntities []string) ([]dashboard.UnchangedRow, error)
}
