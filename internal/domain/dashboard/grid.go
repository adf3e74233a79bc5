// internal/domain/dashboard/grid.go
package dashboard

import (
	"sort"
	"strconv"
	"time"
)

// Dimensions are the attributes exclusion filters look at. Nil means NULL in the store.
type Dimensions struct {
	Status   *string
	Lateness *string
	HRRep    *string
}

// Dimensional is implemented by every row the exclusion pass can filter.
type Dimensional interface {
	Dimensions() Dimensions
}

// Exclusions are the "exclude" lists of a dashboard request.
type Exclusions struct {
	Statuses   []string
	Latenesses []string
	HRReps     []string
}

// Excludes reports whether a row is removed. A NULL attribute is never excluded and an empty
// list excludes nothing, so the check is order independent and idempotent.
func (e Exclusions) Excludes(d Dimensions) bool {
	return matches(d.Status, e.Statuses) || matches(d.Lateness, e.Latenesses) || matches(d.HRRep, e.HRReps)
}

func matches(v *string, list []string) bool {
	if v == nil {
		return false
	}
	for _, candidate := range list {
		if candidate == *v {
			return true
		}
	}
	return false
}

// ApplyExclusions returns the rows not excluded by e, preserving order.
func ApplyExclusions[T Dimensional](rows []T, e Exclusions) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if !e.Excludes(r.Dimensions()) {
			out = append(out, r)
		}
	}
	return out
}

// GridRow is one cell of a status x lateness x period grid.
type GridRow struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	StatusID    *int32
	Status      *string
	Lateness    *string
	HRRep       *string
	Count       int
}

func (r GridRow) Dimensions() Dimensions {
	return Dimensions{Status: r.Status, Lateness: r.Lateness, HRRep: r.HRRep}
}

type comboKey struct {
	statusID, status, lateness, hrRep string
}

type combo struct {
	statusID *int32
	status   *string
	lateness *string
	hrRep    *string
}

func keyOf(r GridRow) comboKey {
	return comboKey{
		statusID: int32Key(r.StatusID),
		status:   strKey(r.Status),
		lateness: strKey(r.Lateness),
		hrRep:    strKey(r.HRRep),
	}
}

// strKey keeps NULL distinct from the empty string.
func strKey(v *string) string {
	if v == nil {
		return "\x00"
	}
	return "=" + *v
}

func int32Key(v *int32) string {
	if v == nil {
		return "\x00"
	}
	return "=" + strconv.FormatInt(int64(*v), 10)
}

// Densify right-joins observed counts onto every period: each (status, lateness, hrRep)
// combination observed in any period appears in every period, with count 0 where nothing
// matched. With no observation at all every period still yields a single all-NULL row.
// Observed rows outside the given periods are dropped.
func Densify(periods []Period, observed []GridRow) []GridRow {
	type cellKey struct {
		start time.Time
		combo comboKey
	}

	inGrid := make(map[time.Time]Period, len(periods))
	for _, p := range periods {
		inGrid[p.Start] = p
	}

	counts := make(map[cellKey]int)
	combos := make(map[comboKey]combo)
	for _, r := range observed {
		if _, ok := inGrid[DateOf(r.PeriodStart)]; !ok {
			continue
		}
		k := keyOf(r)
		combos[k] = combo{statusID: r.StatusID, status: r.Status, lateness: r.Lateness, hrRep: r.HRRep}
		counts[cellKey{start: DateOf(r.PeriodStart), combo: k}] += r.Count
	}
	if len(combos) == 0 {
		combos[comboKey{statusID: "\x00", status: "\x00", lateness: "\x00", hrRep: "\x00"}] = combo{}
	}

	out := make([]GridRow, 0, len(periods)*len(combos))
	for _, p := range periods {
		for k, c := range combos {
			out = append(out, GridRow{
				PeriodStart: p.Start,
				PeriodEnd:   p.End,
				StatusID:    c.statusID,
				Status:      c.status,
				Lateness:    c.lateness,
				HRRep:       c.hrRep,
				Count:       counts[cellKey{start: p.Start, combo: k}],
			})
		}
	}
	SortGrid(out)
	return out
}

// SortGrid orders rows by period start, then status, lateness and HR rep with NULLs first.
func SortGrid(rows []GridRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.PeriodStart.Equal(b.PeriodStart) {
			return a.PeriodStart.Before(b.PeriodStart)
		}
		if c := compareStr(a.Status, b.Status); c != 0 {
			return c < 0
		}
		if c := compareStr(a.Lateness, b.Lateness); c != 0 {
			return c < 0
		}
		if c := compareStr(a.HRRep, b.HRRep); c != 0 {
			return c < 0
		}
		return int32Key(a.StatusID) < int32Key(b.StatusID)
	})
}

func compareStr(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

// BuildGrid densifies observed counts over the periods and applies the exclusion pass last.
func BuildGrid(periods []Period, observed []GridRow, e Exclusions) []GridRow {
	return ApplyExclusions(Densify(periods, observed), e)
}
