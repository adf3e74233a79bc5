package main

import (
	"testing"
	"time"

	"hive_reviews/internal/domain/dashboard"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

var defaults = dashboard.FilterParams{NumberOfPeriods: 2, PeriodLengthDays: 30, CompanyEntities: []string{"NO"}}

func parseFlags(t *testing.T, args ...string) *dashboardFlags {
	t.Helper()
	f := &dashboardFlags{}
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return f
}

func TestParamsFallBackToDefaults(t *testing.T) {
	clock := fixedClock{at: time.Date(2024, 6, 30, 23, 10, 0, 0, time.UTC)}

	p, err := parseFlags(t).params(clock, defaults)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), p.AsAtEndOf)
	assert.Equal(t, 2, p.NumberOfPeriods)
	assert.Equal(t, 30, p.PeriodLengthDays)
	assert.Equal(t, []string{"NO"}, p.CompanyEntities)
	assert.Empty(t, p.ExcludedStatuses)
}

func TestParamsFromFlags(t *testing.T) {
	f := parseFlags(t,
		"--as-at", "2024-03-31",
		"--periods", "6",
		"--period-days", "7",
		"--entity", "SE", "--entity", "DK",
		"--exclude-status", "Archived,Cancelled",
		"--exclude-hr-rep", "Hana",
	)

	p, err := f.params(fixedClock{}, defaults)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), p.AsAtEndOf)
	assert.Equal(t, 6, p.NumberOfPeriods)
	assert.Equal(t, 7, p.PeriodLengthDays)
	assert.Equal(t, []string{"SE", "DK"}, p.CompanyEntities)
	assert.Equal(t, []string{"Archived", "Cancelled"}, p.ExcludedStatuses)
	assert.Equal(t, []string{"Hana"}, p.ExcludedHRReps)
	assert.Equal(t, []string{"NO"}, defaults.CompanyEntities, "defaults are not mutated")
}

func TestParamsRejectBadAsAt(t *testing.T) {
	_, err := parseFlags(t, "--as-at", "31.03.2024").params(fixedClock{}, defaults)
	assert.ErrorContains(t, err, "expected YYYY-MM-DD")
}

func TestFixedAsAtKeepsTheDateInLocalTime(t *testing.T) {
	asAt := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	got := fixedAsAt(asAt).Now().In(time.Local)

	assert.Equal(t, asAt, dashboard.DateOf(got))
}
