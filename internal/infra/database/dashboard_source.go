// internal/infra/database/dashboard_source.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"hive_reviews/internal/domain/dashboard"
	"hive_reviews/internal/domain/ledger"
)

const staffTerminated = "Terminated"

// dashboardSource describes how one entity kind joins to its staff member and lateness target.
// The from clause must expose the staff table as sf.
type dashboardSource struct {
	ledger   LedgerTable
	from     string
	entityID string
	target   string
	// liveAt returns the condition keeping entities that were not deleted before bound.
	liveAt func(bound string) string
}

var (
	reviewSource = dashboardSource{
		ledger: ReviewLedger,
		from: `reviews r
		JOIN staff_reviews sr ON sr.review_id = r.review_id AND sr.deleted_date IS NULL
		JOIN staff sf ON sf.staff_id = sr.staff_id`,
		entityID: "r.review_id",
		target:   "r.due_date",
		liveAt: func(bound string) string {
			return fmt.Sprintf("(r.deleted_date IS NULL OR r.deleted_date >= %s)", bound)
		},
	}
	contractSource = dashboardSource{
		ledger: ContractRecommendationLedger,
		from: `contract_recommendations cr
		JOIN contracts c ON c.contract_id = cr.contract_id
		JOIN staff sf ON sf.staff_id = cr.staff_id`,
		entityID: "cr.id",
		target:   "c.end_date",
		liveAt:   func(string) string { return "TRUE" },
	}
)

// statusCountsQuery counts entities per period, status, lateness and HR rep. Lateness is
// classified against each period end; status is the latest ledger row before the day after it.
// Binds: $1 period starts, $2 period ends, $3 company entities (NULL for all), $4 terminated status.
func (s dashboardSource) statusCountsQuery() string {
	return `WITH ` + periodsCTE + `
	SELECT p.period_start, p.period_end, st.status_id, st.description,
		categorise_lateness(` + s.target + `, p.period_end) AS lateness,
		sf.hr_rep, COUNT(*)
	FROM periods p
	CROSS JOIN ` + s.from + `
	` + s.ledger.statusAt("st", s.entityID, "< p.period_end + 1") + `
	WHERE st.status_id IS NOT NULL
		AND ` + s.liveAt("p.period_end + 1") + `
		AND sf.employment_status <> $4
		AND ($3::text[] IS NULL OR sf.company_entity = ANY($3))
	GROUP BY 1, 2, 3, 4, 5, 6`
}

// snapshotsQuery returns each entity with its status at the end of two periods.
// Binds: $1 previous period end, $2 current period end, $3 company entities, $4 terminated status.
func (s dashboardSource) snapshotsQuery() string {
	return `SELECT ` + s.entityID + `, sf.staff_id, sf.display_name, sf.hr_rep,
		prev.status_id, curr.status_id, curr.description
	FROM ` + s.from + `
	` + s.ledger.statusAt("prev", s.entityID, "< $1::date + 1") + `
	` + s.ledger.statusAt("curr", s.entityID, "< $2::date + 1") + `
	WHERE ` + s.liveAt("$2::date + 1") + `
		AND sf.employment_status <> $4
		AND ($3::text[] IS NULL OR sf.company_entity = ANY($3))
	ORDER BY 1`
}

func (s dashboardSource) statusCounts(ctx context.Context, db *sql.DB, periods []dashboard.Period, companyEntities []string) ([]dashboard.GridRow, error) {
	starts, ends := dashboard.Bounds(periods)
	rows, err := querierFrom(ctx, db).QueryContext(ctx, s.statusCountsQuery(),
		dateArray(starts), dateArray(ends), listParam(companyEntities), staffTerminated)
	if err != nil {
		return nil, fmt.Errorf("error counting %s statuses: %w", s.ledger.History, err)
	}
	defer rows.Close()

	var out []dashboard.GridRow
	for rows.Next() {
		var (
			row                     dashboard.GridRow
			statusID                sql.NullInt32
			status, lateness, hrRep sql.NullString
			count                   int64
		)
		if err := rows.Scan(&row.PeriodStart, &row.PeriodEnd, &statusID, &status, &lateness, &hrRep, &count); err != nil {
			return nil, fmt.Errorf("error scanning %s status count: %w", s.ledger.History, err)
		}
		row.PeriodStart = dashboard.DateOf(row.PeriodStart)
		row.PeriodEnd = dashboard.DateOf(row.PeriodEnd)
		row.StatusID = nullInt32(statusID)
		row.Status = nullString(status)
		row.Lateness = nullString(lateness)
		row.HRRep = nullString(hrRep)
		row.Count = int(count)
		out = append(out, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s status counts: %w", s.ledger.History, err)
	}
	return out, nil
}

func (s dashboardSource) statusSnapshots(ctx context.Context, db *sql.DB, previous, current dashboard.Period, companyEntities []string) ([]dashboard.UnchangedRow, error) {
	rows, err := querierFrom(ctx, db).QueryContext(ctx, s.snapshotsQuery(),
		dateParam(previous.End), dateParam(current.End), listParam(companyEntities), staffTerminated)
	if err != nil {
		return nil, fmt.Errorf("error reading %s snapshots: %w", s.ledger.History, err)
	}
	defer rows.Close()

	var out []dashboard.UnchangedRow
	for rows.Next() {
		var (
			row          dashboard.UnchangedRow
			prev, curr   sql.NullInt32
			hrRep, descr sql.NullString
		)
		if err := rows.Scan(&row.EntityID, &row.StaffID, &row.DisplayName, &hrRep, &prev, &curr, &descr); err != nil {
			return nil, fmt.Errorf("error scanning %s snapshot: %w", s.ledger.History, err)
		}
		row.Snapshot = ledger.Snapshot{EntityID: row.EntityID, Previous: nullInt32(prev), Current: nullInt32(curr)}
		row.HRRep = nullString(hrRep)
		row.Status = nullString(descr)
		out = append(out, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s snapshots: %w", s.ledger.History, err)
	}
	return out, nil
}
