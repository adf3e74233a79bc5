package app

import (
	"context"
	"io"
	"sync"
	"time"

	"hive_reviews/internal/domain/contract"
	"hive_reviews/internal/domain/dashboard"
	"hive_reviews/internal/domain/feedback"
	"hive_reviews/internal/domain/ledger"
	"hive_reviews/internal/domain/review"
	"hive_reviews/internal/domain/status"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type txMarker struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txMarker{}).(bool)
	return v
}

type fakeUnitOfWork struct {
	commits   int
	rollbacks int
}

func (u *fakeUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		u.rollbacks++
		return err
	}
	u.commits++
	return nil
}

// journal records repository calls in order and whether each ran inside the unit of work.
type journal struct {
	calls     []string
	outsideTx []string
}

func (j *journal) record(ctx context.Context, call string) {
	j.calls = append(j.calls, call)
	if !inTx(ctx) {
		j.outsideTx = append(j.outsideTx, call)
	}
}

type fakeLedger struct {
	j         *journal
	entries   []ledger.Entry
	appended  []ledger.Change
	appendErr error
	readErr   error
	lockErr   error
}

func (l *fakeLedger) Lock(ctx context.Context, _ int64) error {
	l.j.record(ctx, "history.Lock")
	return l.lockErr
}

func (l *fakeLedger) Append(ctx context.Context, change ledger.Change) error {
	l.j.record(ctx, "history.Append")
	if l.appendErr != nil {
		return l.appendErr
	}
	l.appended = append(l.appended, change)
	return nil
}

func (l *fakeLedger) CurrentStatus(ctx context.Context, entityID int64, asAt time.Time) (ledger.Entry, error) {
	l.j.record(ctx, "history.CurrentStatus")
	if l.readErr != nil {
		return ledger.Entry{}, l.readErr
	}
	entries, _ := l.History(ctx, entityID)
	return ledger.CurrentAsAt(entries, asAt)
}

func (l *fakeLedger) History(_ context.Context, entityID int64) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for _, e := range l.entries {
		if e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeReviewRepo struct {
	j          *journal
	deleteErr  error
	checkErr   error
	currentErr error
	insertID   int64
	inserted   []review.NewStaffReview
	audit      review.AuditPage
	auditCalls int
	activeID   int64
	activeAsAt time.Time
}

func (r *fakeReviewRepo) SoftDelete(ctx context.Context, _ int64, _ string, _ time.Time) error {
	r.j.record(ctx, "reviews.SoftDelete")
	return r.deleteErr
}

func (r *fakeReviewRepo) CheckPreviousStaffReview(ctx context.Context, _, _ int64) error {
	r.j.record(ctx, "reviews.CheckPreviousStaffReview")
	return r.checkErr
}

func (r *fakeReviewRepo) CheckNoCurrentStaffReview(ctx context.Context, _ int64) error {
	r.j.record(ctx, "reviews.CheckNoCurrentStaffReview")
	return r.currentErr
}

func (r *fakeReviewRepo) InsertStaffReview(ctx context.Context, _ string, _ time.Time, in review.NewStaffReview) (int64, error) {
	r.j.record(ctx, "reviews.InsertStaffReview")
	r.inserted = append(r.inserted, in)
	return r.insertID, nil
}

func (r *fakeReviewRepo) ActiveReviewIDByTemplateNameForStaffMember(_ context.Context, templateName, upn string, asAt time.Time) (int64, error) {
	r.activeAsAt = asAt
	if r.activeID == 0 {
		return 0, &review.ActiveReviewNotFoundError{TemplateName: templateName, UPN: upn}
	}
	return r.activeID, nil
}

func (r *fakeReviewRepo) Audit(_ context.Context, _ int64, _ review.Pagination, _ review.AuditFilter) (review.AuditPage, error) {
	r.auditCalls++
	return r.audit, nil
}

type appendedStatus struct {
	assignmentID int64
	status       feedback.Status
	reason       string
}

type fakeFeedbackRepo struct {
	j           *journal
	messages    int64
	assignments int64
	deletedRows int64
	failOn      string
	err         error
	assignment  *feedback.Assignment
	reasons     []feedback.RetractionReason
	appended    []appendedStatus
}

func (f *fakeFeedbackRepo) fail(ctx context.Context, call string) error {
	f.j.record(ctx, call)
	if f.failOn == call {
		return f.err
	}
	return nil
}

func (f *fakeFeedbackRepo) SoftDeleteMessagesForReview(ctx context.Context, _ int64, _, _ string, _ time.Time) (int64, error) {
	return f.messages, f.fail(ctx, "feedback.SoftDeleteMessagesForReview")
}

func (f *fakeFeedbackRepo) SoftDeleteAssignmentsForReview(ctx context.Context, _ int64, _ string, _ time.Time) (int64, error) {
	return f.assignments, f.fail(ctx, "feedback.SoftDeleteAssignmentsForReview")
}

func (f *fakeFeedbackRepo) AppendDeletedStatusForReview(ctx context.Context, _ int64, _, _ string, _ time.Time) (int64, error) {
	return f.deletedRows, f.fail(ctx, "feedback.AppendDeletedStatusForReview")
}

func (f *fakeFeedbackRepo) GetAssignment(ctx context.Context, _ int64) (*feedback.Assignment, error) {
	if err := f.fail(ctx, "feedback.GetAssignment"); err != nil {
		return nil, err
	}
	return f.assignment, nil
}

func (f *fakeFeedbackRepo) ListRetractionReasons(_ context.Context) ([]feedback.RetractionReason, error) {
	return f.reasons, nil
}

func (f *fakeFeedbackRepo) AppendStatus(ctx context.Context, assignmentID int64, s feedback.Status, reason, _ string, _ time.Time) error {
	if err := f.fail(ctx, "feedback.AppendStatus"); err != nil {
		return err
	}
	f.appended = append(f.appended, appendedStatus{assignmentID: assignmentID, status: s, reason: reason})
	return nil
}

type fakeStatusRepo struct {
	statuses     []status.Status
	progressions []status.Progression
}

func (r fakeStatusRepo) ListStatuses(context.Context) ([]status.Status, error) {
	return r.statuses, nil
}

func (r fakeStatusRepo) ListAllowedProgressions(context.Context) ([]status.Progression, error) {
	return r.progressions, nil
}

// fakeDashboardRepo serves both the review and the contract read side.
type fakeDashboardRepo struct {
	mu             sync.Mutex
	counts         []dashboard.GridRow
	countsErr      error
	countedPeriods [][]dashboard.Period
	reviewRows     []review.LatenessRow
	contractRows   []contract.LatenessRow
	listParams     []dashboard.FilterParams
	snapshots      []dashboard.UnchangedRow
	snapshotErr    error
	compared       [][2]dashboard.Period
	calls          int
}

func (r *fakeDashboardRepo) StatusCounts(_ context.Context, periods []dashboard.Period, _ []string) ([]dashboard.GridRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.countedPeriods = append(r.countedPeriods, periods)
	return r.counts, r.countsErr
}

func (r *fakeDashboardRepo) StatusSnapshots(_ context.Context, previous, current dashboard.Period, _ []string) ([]dashboard.UnchangedRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.compared = append(r.compared, [2]dashboard.Period{previous, current})
	return r.snapshots, r.snapshotErr
}

type fakeReviewDashboard struct{ *fakeDashboardRepo }

func (r fakeReviewDashboard) ForLatenessAndStatus(_ context.Context, params dashboard.FilterParams) ([]review.LatenessRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.listParams = append(r.listParams, params)
	return r.reviewRows, nil
}

type fakeContractDashboard struct{ *fakeDashboardRepo }

func (r fakeContractDashboard) ForLatenessAndStatus(_ context.Context, params dashboard.FilterParams) ([]contract.LatenessRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.listParams = append(r.listParams, params)
	return r.contractRows, nil
}

type fakeClassifier struct {
	gotAsAt time.Time
	result  *string
	calls   int
}

func (c *fakeClassifier) Classify(_ context.Context, _, asAt time.Time) (*string, error) {
	c.calls++
	c.gotAsAt = asAt
	return c.result, nil
}
