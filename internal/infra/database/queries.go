// internal/infra/database/queries.go
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const dateLayout = "2006-01-02"

// LedgerTable names a status triad: the history ledger, its status reference table and its
// progression graph. All triads share the same column layout.
type LedgerTable struct {
	History      string
	Statuses     string
	Progressions string
	EntityColumn string

	// Owner and OwnerKey name the table and key column of the entity the ledger belongs to.
	Owner    string
	OwnerKey string
}

var (
	ReviewLedger = LedgerTable{
		History:      "review_status_history",
		Statuses:     "review_statuses",
		Progressions: "allowed_review_status_progressions",
		EntityColumn: "review_id",
		Owner:        "reviews",
		OwnerKey:     "review_id",
	}
	ContractRecommendationLedger = LedgerTable{
		History:      "contract_recommendation_status_history",
		Statuses:     "contract_recommendation_statuses",
		Progressions: "contract_recommendation_status_progressions",
		EntityColumn: "contract_recommendation_id",
		Owner:        "contract_recommendations",
		OwnerKey:     "id",
	}
	FeedbackAssignmentLedger = LedgerTable{
		History:      "feedback_assignment_status_history",
		Statuses:     "feedback_assignment_statuses",
		EntityColumn: "feedback_assignment_id",
		Owner:        "feedback_assignments",
		OwnerKey:     "feedback_assignment_id",
	}
)

// statusAt is a LATERAL join yielding status_id, description and updated_date of the latest
// ledger row of entityExpr whose updated_date satisfies bound (e.g. "< p.period_end + 1").
// Rows sharing a timestamp resolve to the higher id.
func (t LedgerTable) statusAt(alias, entityExpr, bound string) string {
	return fmt.Sprintf(`LEFT JOIN LATERAL (
		SELECT h.status_id, s.description, h.updated_date
		FROM %[1]s h
		JOIN %[2]s s ON s.id = h.status_id
		WHERE h.%[3]s = %[4]s AND h.updated_date %[5]s
		ORDER BY h.updated_date DESC, h.id DESC
		LIMIT 1
	) %[6]s ON TRUE`, t.History, t.Statuses, t.EntityColumn, entityExpr, bound, alias)
}

// periodsCTE unnests the period bounds bound at $1 and $2.
const periodsCTE = `periods AS (
		SELECT p.period_start, p.period_end
		FROM unnest($1::date[], $2::date[]) AS p(period_start, period_end)
	)`

// listParam binds an empty list as SQL NULL, which the queries read as "no filter".
func listParam(values []string) any {
	if len(values) == 0 {
		return nil
	}
	return pq.Array(values)
}

// dateArray binds dates as a text array the store casts to date[].
func dateArray(dates []time.Time) any {
	out := make(pq.StringArray, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	return out
}

func dateParam(t time.Time) string {
	return t.Format(dateLayout)
}

func stringParam(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt32(v sql.NullInt32) *int32 {
	if !v.Valid {
		return nil
	}
	x := v.Int32
	return &x
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
