// internal/domain/dashboard/unchanged.go
package dashboard

import (
	"sort"
	"time"

	"hive_reviews/internal/domain/ledger"
)

// UnchangedRow is an entity with its status at the end of the previous and the latest period.
type UnchangedRow struct {
	ledger.Snapshot
	StaffID     int64
	DisplayName string
	HRRep       *string
	// Status is the description of the latest status.
	Status *string
}

func (r UnchangedRow) Dimensions() Dimensions {
	return Dimensions{Status: r.Status, HRRep: r.HRRep}
}

// UnchangedSummaryRow counts unchanged entities per status and HR rep.
type UnchangedSummaryRow struct {
	StatusID *int32
	Status   *string
	HRRep    *string
	Count    int
}

// ComparisonPeriods returns the two periods compared for unchanged statuses. Only two periods
// are ever compared, whatever the grid size of the surrounding dashboard.
func ComparisonPeriods(asAtEndOf time.Time, periodLengthDays int) (previous, current Period, err error) {
	periods, err := BuildPeriods(asAtEndOf, periodLengthDays, ledger.UnchangedPeriods)
	if err != nil {
		return Period{}, Period{}, err
	}
	return periods[0], periods[1], nil
}

// KeepUnchanged drops rows whose status moved or that lack history at either period end.
func KeepUnchanged(rows []UnchangedRow) []UnchangedRow {
	out := make([]UnchangedRow, 0, len(rows))
	for _, r := range rows {
		if r.Unchanged() {
			out = append(out, r)
		}
	}
	return out
}

// SummariseUnchanged groups unchanged rows by status and HR rep.
func SummariseUnchanged(rows []UnchangedRow) []UnchangedSummaryRow {
	type key struct{ status, hrRep string }
	index := make(map[key]int)
	out := make([]UnchangedSummaryRow, 0)
	for _, r := range rows {
		k := key{status: strKey(r.Status), hrRep: strKey(r.HRRep)}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, UnchangedSummaryRow{StatusID: r.Current, Status: r.Status, HRRep: r.HRRep})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := compareStr(out[i].Status, out[j].Status); c != 0 {
			return c < 0
		}
		return compareStr(out[i].HRRep, out[j].HRRep) < 0
	})
	return out
}
