package main

import (
	"fmt"
	"time"

	"hive_reviews/internal/app"
	"hive_reviews/internal/domain/dashboard"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// dashboardFlags are shared by every dashboard command.
type dashboardFlags struct {
	asAt               string
	numberOfPeriods    int
	periodDays         int
	entities           []string
	excludedStatuses   []string
	excludedLatenesses []string
	excludedHRReps     []string
}

func (f *dashboardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.asAt, "as-at", "", "As-at date YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&f.numberOfPeriods, "periods", 0, "Number of periods (default: DIGEST_NUMBER_OF_PERIODS)")
	cmd.Flags().IntVar(&f.periodDays, "period-days", 0, "Period length in days (default: DIGEST_PERIOD_DAYS)")
	cmd.Flags().StringSliceVar(&f.entities, "entity", nil, "Company entity to include (repeatable)")
	cmd.Flags().StringSliceVar(&f.excludedStatuses, "exclude-status", nil, "Status to exclude (repeatable)")
	cmd.Flags().StringSliceVar(&f.excludedLatenesses, "exclude-lateness", nil, "Lateness bucket to exclude (repeatable)")
	cmd.Flags().StringSliceVar(&f.excludedHRReps, "exclude-hr-rep", nil, "HR rep to exclude (repeatable)")
}

// params resolves the flags against the configured digest defaults. The as-at date is read from
// the clock once, here, and never again for the command.
func (f *dashboardFlags) params(clock app.Clock, defaults dashboard.FilterParams) (dashboard.FilterParams, error) {
	asAt, err := parseAsAt(f.asAt, clock)
	if err != nil {
		return dashboard.FilterParams{}, err
	}
	p := defaults
	p.AsAtEndOf = asAt
	if f.numberOfPeriods != 0 {
		p.NumberOfPeriods = f.numberOfPeriods
	}
	if f.periodDays != 0 {
		p.PeriodLengthDays = f.periodDays
	}
	if len(f.entities) > 0 {
		p.CompanyEntities = f.entities
	}
	p.ExcludedStatuses = f.excludedStatuses
	p.ExcludedLatenesses = f.excludedLatenesses
	p.ExcludedHRReps = f.excludedHRReps
	return p, nil
}

func parseAsAt(value string, clock app.Clock) (time.Time, error) {
	if value == "" {
		return dashboard.DateOf(clock.Now()), nil
	}
	asAt, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-at %q, expected YYYY-MM-DD: %w", value, err)
	}
	return asAt, nil
}
