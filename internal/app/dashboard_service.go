// internal/app/dashboard_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"hive_reviews/internal/domain/contract"
	"hive_reviews/internal/domain/dashboard"
	"hive_reviews/internal/domain/ledger"
	"hive_reviews/internal/domain/review"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DashboardService is read-only. Every operation takes its as-at date from the params and
// fails before querying when it is missing.
type DashboardService struct {
	reviews    review.DashboardRepository
	contracts  contract.DashboardRepository
	classifier dashboard.Classifier
	logger     *logrus.Entry
}

func NewDashboardService(reviews review.DashboardRepository, contracts contract.DashboardRepository, classifier dashboard.Classifier, logger *logrus.Entry) *DashboardService {
	return &DashboardService{
		reviews:    reviews,
		contracts:  contracts,
		classifier: classifier,
		logger:     logger,
	}
}

// Overview is one dashboard pass: both grids and the unchanged-contract summary under one as-at date.
type Overview struct {
	PassID             string
	AsAtEndOf          time.Time
	Periods            []dashboard.Period
	Reviews            []dashboard.GridRow
	Contracts          []dashboard.GridRow
	UnchangedContracts []dashboard.UnchangedSummaryRow
}

type statusCounter func(ctx context.Context, periods []dashboard.Period, companyEntities []string) ([]dashboard.GridRow, error)

func summarise(ctx context.Context, params dashboard.FilterParams, count statusCounter) ([]dashboard.GridRow, error) {
	periods, err := params.Periods()
	if err != nil {
		return nil, err
	}
	observed, err := count(ctx, periods, params.CompanyEntities)
	if err != nil {
		return nil, err
	}
	return dashboard.BuildGrid(periods, observed, params.Exclusions()), nil
}

func (s *DashboardService) RetrieveReviewsStatusSummary(ctx context.Context, params dashboard.FilterParams) ([]dashboard.GridRow, error) {
	return summarise(ctx, params, s.reviews.StatusCounts)
}

func (s *DashboardService) RetrieveContractsStatusSummary(ctx context.Context, params dashboard.FilterParams) ([]dashboard.GridRow, error) {
	return summarise(ctx, params, s.contracts.StatusCounts)
}

func (s *DashboardService) RetrieveReviewsForLatenessAndStatus(ctx context.Context, params dashboard.FilterParams) ([]review.LatenessRow, error) {
	if err := params.ValidateAsAt(); err != nil {
		return nil, err
	}
	rows, err := s.reviews.ForLatenessAndStatus(ctx, params)
	if err != nil {
		return nil, err
	}
	return dashboard.ApplyExclusions(rows, params.Exclusions()), nil
}

func (s *DashboardService) RetrieveContractsForLatenessAndStatus(ctx context.Context, params dashboard.FilterParams) ([]contract.LatenessRow, error) {
	if err := params.ValidateAsAt(); err != nil {
		return nil, err
	}
	rows, err := s.contracts.ForLatenessAndStatus(ctx, params)
	if err != nil {
		return nil, err
	}
	return dashboard.ApplyExclusions(rows, params.Exclusions()), nil
}

type snapshotReader func(ctx context.Context, previous, current dashboard.Period, companyEntities []string) ([]dashboard.UnchangedRow, error)

// unchanged compares the last two periods ending at params.AsAtEndOf. params.NumberOfPeriods is
// ignored.
func unchanged(ctx context.Context, params dashboard.FilterParams, read snapshotReader) ([]dashboard.UnchangedRow, error) {
	if err := params.ValidateAsAt(); err != nil {
		return nil, err
	}
	previous, current, err := dashboard.ComparisonPeriods(params.AsAtEndOf, params.PeriodLengthDays)
	if err != nil {
		return nil, err
	}
	rows, err := read(ctx, previous, current, params.CompanyEntities)
	if err != nil {
		return nil, err
	}
	return dashboard.ApplyExclusions(dashboard.KeepUnchanged(rows), params.Exclusions()), nil
}

func (s *DashboardService) RetrieveContractsWithUnchangedStatus(ctx context.Context, params dashboard.FilterParams) ([]dashboard.UnchangedRow, error) {
	return unchanged(ctx, params, s.contracts.StatusSnapshots)
}

func (s *DashboardService) RetrieveContractsWithUnchangedStatusSummary(ctx context.Context, params dashboard.FilterParams) ([]dashboard.UnchangedSummaryRow, error) {
	rows, err := s.RetrieveContractsWithUnchangedStatus(ctx, params)
	if err != nil {
		return nil, err
	}
	return dashboard.SummariseUnchanged(rows), nil
}

func (s *DashboardService) RetrieveReviewsWithUnchangedStatus(ctx context.Context, params dashboard.FilterParams) ([]dashboard.UnchangedRow, error) {
	return unchanged(ctx, params, s.reviews.StatusSnapshots)
}

func (s *DashboardService) RetrieveReviewsWithUnchangedStatusSummary(ctx context.Context, params dashboard.FilterParams) ([]dashboard.UnchangedSummaryRow, error) {
	rows, err := s.RetrieveReviewsWithUnchangedStatus(ctx, params)
	if err != nil {
		return nil, err
	}
	return dashboard.SummariseUnchanged(rows), nil
}

// ClassifyLateness buckets a single target date. asAt is required. A zero target has no
// lateness and returns nil.
func (s *DashboardService) ClassifyLateness(ctx context.Context, target, asAt time.Time) (*string, error) {
	if asAt.IsZero() {
		return nil, ledger.ErrAsAtRequired
	}
	if target.IsZero() {
		return nil, nil
	}
	return s.classifier.Classify(ctx, target, asAt)
}

// Dashboard runs the review grid, the contract grid and the unchanged-contract summary
// concurrently. The first failure cancels the other queries and is returned.
func (s *DashboardService) Dashboard(ctx context.Context, params dashboard.FilterParams) (*Overview, error) {
	periods, err := params.Periods()
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		PassID:    uuid.NewString(),
		AsAtEndOf: params.AsAtEndOf,
		Periods:   periods,
	}
	passLogger := s.logger.WithFields(logrus.Fields{
		"pass_id":     overview.PassID,
		"as_at":       params.AsAtEndOf.Format("2006-01-02"),
		"periods":     params.NumberOfPeriods,
		"period_days": params.PeriodLengthDays,
	})
	passLogger.Debug("Dashboard pass started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.RetrieveReviewsStatusSummary(gctx, params)
		if err != nil {
			return fmt.Errorf("reviews status summary: %w", err)
		}
		overview.Reviews = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.RetrieveContractsStatusSummary(gctx, params)
		if err != nil {
			return fmt.Errorf("contracts status summary: %w", err)
		}
		overview.Contracts = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.RetrieveContractsWithUnchangedStatusSummary(gctx, params)
		if err != nil {
			return fmt.Errorf("unchanged contracts summary: %w", err)
		}
		overview.UnchangedContracts = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		passLogger.WithError(err).Debug("Dashboard pass failed")
		return nil, err
	}

	passLogger.WithFields(logrus.Fields{
		"review_rows":   len(overview.Reviews),
		"contract_rows": len(overview.Contracts),
	}).Debug("Dashboard pass finished")
	return overview, nil
}
