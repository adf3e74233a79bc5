// internal/domain/dashboard/period.go
package dashboard

import (
	"fmt"
	"time"

	"hive_reviews/internal/domain/ledger"
)

// Period is an inclusive date window [Start, End]. Both bounds are dates at midnight UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

// EndInstant is the first instant after the period; a ledger row belongs to the period end
// when it is strictly before this instant.
func (p Period) EndInstant() time.Time {
	return p.End.AddDate(0, 0, 1)
}

func (p Period) String() string {
	return fmt.Sprintf("[%s, %s]", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}

// DateOf truncates t to its calendar date in its own location and returns that date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuildPeriods tiles numberOfPeriods windows of lengthDays backwards from asAt with no gaps or
// overlaps. The last window ends on asAt's date. The result is ordered oldest first.
func BuildPeriods(asAt time.Time, lengthDays, numberOfPeriods int) ([]Period, error) {
	if asAt.IsZero() {
		return nil, ledger.ErrAsAtRequired
	}
	if lengthDays <= 0 || numberOfPeriods <= 0 {
		return nil, fmt.Errorf("%w: got %d periods of %d days", ErrInvalidPeriods, numberOfPeriods, lengthDays)
	}

	end := DateOf(asAt)
	periods := make([]Period, numberOfPeriods)
	for i := 0; i < numberOfPeriods; i++ {
		periodEnd := end.AddDate(0, 0, -i*lengthDays)
		periods[numberOfPeriods-1-i] = Period{
			Start: periodEnd.AddDate(0, 0, -(lengthDays - 1)),
			End:   periodEnd,
		}
	}
	return periods, nil
}

// Bounds splits periods into parallel start and end slices for array parameters.
func Bounds(periods []Period) (starts, ends []time.Time) {
	starts = make([]time.Time, len(periods))
	ends = make([]time.Time, len(periods))
	for i, p := range periods {
		starts[i] = p.Start
		ends[i] = p.End
	}
	return starts, ends
}
