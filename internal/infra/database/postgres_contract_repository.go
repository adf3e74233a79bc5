// internal/infra/database/postgres_contract_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"hive_reviews/internal/domain/contract"
	"hive_reviews/internal/domain/dashboard"
)

// PostgresContractDashboardRepository is the read side of contract recommendations.
type PostgresContractDashboardRepository struct {
	db *sql.DB
}

func NewPostgresContractDashboardRepository(db *sql.DB) *PostgresContractDashboardRepository {
	return &PostgresContractDashboardRepository{db: db}
}

func (r *PostgresContractDashboardRepository) StatusCounts(ctx context.Context, periods []dashboard.Period, companyEntities []string) ([]dashboard.GridRow, error) {
	return contractSource.statusCounts(ctx, r.db, periods, companyEntities)
}

func (r *PostgresContractDashboardRepository) StatusSnapshots(ctx context.Context, previous, current dashboard.Period, companyEntities []string) ([]dashboard.UnchangedRow, error) {
	return contractSource.statusSnapshots(ctx, r.db, previous, current, companyEntities)
}

var contractsForLatenessQuery = `SELECT cr.id, c.contract_id, sf.staff_id, sf.display_name, sf.department, sf.hr_rep,
		c.end_date, st.updated_date, st.status_id, st.description,
		categorise_lateness(c.end_date, $1::date) AS lateness
	FROM ` + contractSource.from + `
	` + ContractRecommendationLedger.statusAt("st", "cr.id", "< $1::date + 1") + `
	WHERE st.status_id IS NOT NULL
		AND sf.employment_status <> $6
		AND ($2::text[] IS NULL OR sf.company_entity = ANY($2))
		AND ($3::text IS NULL OR st.description = $3)
		AND ($4::text IS NULL OR categorise_lateness(c.end_date, $1::date) = $4)
		AND ($5::text IS NULL OR sf.hr_rep = $5)
	ORDER BY sf.display_name, cr.id`

func (r *PostgresContractDashboardRepository) ForLatenessAndStatus(ctx context.Context, params dashboard.FilterParams) ([]contract.LatenessRow, error) {
	rows, err := querierFrom(ctx, r.db).QueryContext(ctx, contractsForLatenessQuery,
		dateParam(params.AsAtEndOf), listParam(params.CompanyEntities),
		stringParam(params.Status), stringParam(params.Lateness), stringParam(params.HRRep), staffTerminated)
	if err != nil {
		return nil, fmt.Errorf("error listing contracts for lateness and status: %w", err)
	}
	defer rows.Close()

	var out []contract.LatenessRow
	for rows.Next() {
		var (
			row                     contract.LatenessRow
			hrRep, status, lateness sql.NullString
		)
		if err := rows.Scan(&row.ContractRecommendationID, &row.ContractID, &row.StaffID, &row.DisplayName,
			&row.Department, &hrRep, &row.ContractEndDate, &row.UpdatedDate, &row.StatusID, &status, &lateness); err != nil {
			return nil, fmt.Errorf("error scanning contract listing row: %w", err)
		}
		row.HRRep = nullString(hrRep)
		row.Status = nullString(status)
		row.Lateness = nullString(lateness)
		out = append(out, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contract listing rows: %w", err)
	}
	return out, nil
}
