package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"hive_reviews/internal/domain/contract"
	"hive_reviews/internal/domain/dashboard"
	"hive_reviews/internal/domain/ledger"
	"hive_reviews/internal/domain/review"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func id(v int32) *int32 { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newDashboardFixture() (*DashboardService, *fakeDashboardRepo, *fakeDashboardRepo, *fakeClassifier) {
	reviews, contracts := &fakeDashboardRepo{}, &fakeDashboardRepo{}
	classifier := &fakeClassifier{}
	svc := NewDashboardService(fakeReviewDashboard{reviews}, fakeContractDashboard{contracts}, classifier, testLogger())
	return svc, reviews, contracts, classifier
}

func juneParams() dashboard.FilterParams {
	return dashboard.FilterParams{AsAtEndOf: date(2024, 6, 30), NumberOfPeriods: 2, PeriodLengthDays: 30}
}

func TestMissingAsAtFailsBeforeAnyQuery(t *testing.T) {
	svc, reviews, contracts, _ := newDashboardFixture()
	ctx := context.Background()
	params := dashboard.FilterParams{NumberOfPeriods: 2, PeriodLengthDays: 30}

	_, err := svc.RetrieveReviewsStatusSummary(ctx, params)
	assert.ErrorIs(t, err, ledger.ErrAsAtRequired)
	_, err = svc.RetrieveContractsStatusSummary(ctx, params)
	assert.ErrorIs(t, err, ledger.ErrAsAtRequired)
	_, err = svc.RetrieveReviewsForLatenessAndStatus(ctx, params)
	assert.ErrorIs(t, err, ledger.ErrAsAtRequired)
	_, err = svc.RetrieveContractsForLatenessAndStatus(ctx, params)
	assert.ErrorIs(t, err, ledger.ErrAsAtRequired)
	_, err = svc.RetrieveContractsWithUnchangedStatus(ctx, params)
	assert.ErrorIs(t, err, ledger.ErrAsAtRequired)
	_, err = svc.RetrieveReviewsWithUnchangedStatusSummary(ctx, params)
	assert.ErrorIs(t, err, ledger.ErrAsAtRequired)
	_, err = svc.ClassifyLateness(ctx, date(2024, 7, 1), time.Time{})
	assert.ErrorIs(t, err, ledger.ErrAsAtRequired)
	_, err = svc.Dashboard(ctx, params)
	assert.ErrorIs(t, err, ledger.ErrAsAtRequired)

	assert.Zero(t, reviews.calls)
	assert.Zero(t, contracts.calls)
}

func TestContractsStatusSummaryIsDenseThenExcluded(t *testing.T) {
	svc, _, contracts, _ := newDashboardFixture()
	contracts.counts = []dashboard.GridRow{
		{PeriodStart: date(2024, 6, 1), PeriodEnd: date(2024, 6, 30), StatusID: id(1), Status: str("Pending HR"), Lateness: str("Overdue"), HRRep: str("Hana"), Count: 3},
		{PeriodStart: date(2024, 6, 1), PeriodEnd: date(2024, 6, 30), StatusID: id(2), Status: str("Renew"), Lateness: nil, HRRep: nil, Count: 1},
	}
	params := juneParams()
	params.ExcludedStatuses = []string{"Renew"}

	got, err := svc.RetrieveContractsStatusSummary(context.Background(), params)

	require.NoError(t, err)
	want := []dashboard.GridRow{
		{PeriodStart: date(2024, 5, 2), PeriodEnd: date(2024, 5, 31), StatusID: id(1), Status: str("Pending HR"), Lateness: str("Overdue"), HRRep: str("Hana"), Count: 0},
		{PeriodStart: date(2024, 6, 1), PeriodEnd: date(2024, 6, 30), StatusID: id(1), Status: str("Pending HR"), Lateness: str("Overdue"), HRRep: str("Hana"), Count: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, contracts.countedPeriods, 1)
	assert.Len(t, contracts.countedPeriods[0], 2)
}

func TestListingAppliesExclusionsAfterTheStoreFilters(t *testing.T) {
	svc, reviews, _, _ := newDashboardFixture()
	reviews.reviewRows = []review.LatenessRow{
		{ReviewID: 1, ReviewStatus: str("In Progress"), Lateness: str("Overdue"), HRRep: str("Hana")},
		{ReviewID: 2, ReviewStatus: str("Finalised"), Lateness: str("Overdue"), HRRep: str("Ola")},
		{ReviewID: 3, ReviewStatus: nil, Lateness: nil, HRRep: nil},
	}
	params := juneParams()
	params.Lateness = str("Overdue")
	params.ExcludedHRReps = []string{"Ola"}

	got, err := svc.RetrieveReviewsForLatenessAndStatus(context.Background(), params)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ReviewID)
	assert.Equal(t, int64(3), got[1].ReviewID, "NULL HR rep is never excluded")
	require.Len(t, reviews.listParams, 1)
	assert.Equal(t, "Overdue", *reviews.listParams[0].Lateness)
}

func TestContractsListingExcludesByStatus(t *testing.T) {
	svc, _, contracts, _ := newDashboardFixture()
	contracts.contractRows = []contract.LatenessRow{
		{ContractRecommendationID: 1, Status: str("Renew")},
		{ContractRecommendationID: 2, Status: str("Terminate")},
	}
	params := juneParams()
	params.ExcludedStatuses = []string{"Terminate"}

	got, err := svc.RetrieveContractsForLatenessAndStatus(context.Background(), params)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ContractRecommendationID)
}

func TestUnchangedComparesExactlyTwoPeriods(t *testing.T) {
	svc, _, contracts, _ := newDashboardFixture()
	contracts.snapshots = []dashboard.UnchangedRow{
		{Snapshot: ledger.Snapshot{EntityID: 1, Previous: id(3), Current: id(3)}, Status: str("Pending HR"), HRRep: str("Hana")},
		{Snapshot: ledger.Snapshot{EntityID: 2, Previous: id(2), Current: id(3)}, Status: str("Pending HR"), HRRep: str("Hana")},
		{Snapshot: ledger.Snapshot{EntityID: 3, Previous: nil, Current: nil}},
		{Snapshot: ledger.Snapshot{EntityID: 4, Previous: id(3), Current: id(3)}, Status: str("Pending HR"), HRRep: str("Hana")},
	}
	params := juneParams()
	params.NumberOfPeriods = 6

	rows, err := svc.RetrieveContractsWithUnchangedStatus(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Len(t, contracts.compared, 1)
	assert.Equal(t, dashboard.Period{Start: date(2024, 5, 2), End: date(2024, 5, 31)}, contracts.compared[0][0])
	assert.Equal(t, dashboard.Period{Start: date(2024, 6, 1), End: date(2024, 6, 30)}, contracts.compared[0][1])

	summary, err := svc.RetrieveContractsWithUnchangedStatusSummary(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, 2, summary[0].Count)
	assert.Equal(t, int32(3), *summary[0].StatusID)
}

func TestDashboardRunsEveryPartUnderOneAsAt(t *testing.T) {
	svc, reviews, contracts, _ := newDashboardFixture()
	params := juneParams()
	params.NumberOfPeriods = 3

	overview, err := svc.Dashboard(context.Background(), params)

	require.NoError(t, err)
	assert.NotEmpty(t, overview.PassID)
	assert.Len(t, overview.Periods, 3)
	assert.Len(t, overview.Reviews, 3, "one all-NULL row per period")
	assert.Len(t, overview.Contracts, 3)
	assert.Empty(t, overview.UnchangedContracts)
	assert.Equal(t, overview.Periods, reviews.countedPeriods[0])
	assert.Equal(t, overview.Periods, contracts.countedPeriods[0])
	require.Len(t, contracts.compared, 1)
	assert.Equal(t, params.AsAtEndOf, contracts.compared[0][1].End)
}

func TestDashboardSurfacesTheFirstFailure(t *testing.T) {
	svc, _, contracts, _ := newDashboardFixture()
	outage := errors.New("dial tcp: connection refused")
	contracts.snapshotErr = outage

	overview, err := svc.Dashboard(context.Background(), juneParams())

	assert.Nil(t, overview)
	assert.ErrorIs(t, err, outage)
}

func TestStoreFailureIsNotAnEmptyGrid(t *testing.T) {
	svc, reviews, _, _ := newDashboardFixture()
	outage := errors.New("dial tcp: connection refused")
	reviews.countsErr = outage

	rows, err := svc.RetrieveReviewsStatusSummary(context.Background(), juneParams())

	assert.Nil(t, rows)
	assert.ErrorIs(t, err, outage)
}

func TestClassifyLatenessPassesAsAtThrough(t *testing.T) {
	svc, _, _, classifier := newDashboardFixture()
	classifier.result = str(dashboard.LatenessOverdue)

	got, err := svc.ClassifyLateness(context.Background(), date(2024, 5, 1), date(2024, 6, 30))

	require.NoError(t, err)
	assert.Equal(t, dashboard.LatenessOverdue, *got)
	assert.Equal(t, date(2024, 6, 30), classifier.gotAsAt)
}

func TestClassifyLatenessOfZeroTargetIsNil(t *testing.T) {
	svc, _, _, classifier := newDashboardFixture()
	classifier.result = str(dashboard.LatenessOverdue)

	got, err := svc.ClassifyLateness(context.Background(), time.Time{}, date(2024, 6, 30))

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, classifier.calls)
}
