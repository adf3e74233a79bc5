package scheduler

import (
	"context"
	"fmt"
	"time"

	"hive_reviews/internal/app"
	"hive_reviews/internal/domain/dashboard"
	"hive_reviews/internal/domain/telegram"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DashboardBuilder is the part of the dashboard service the digest needs.
type DashboardBuilder interface {
	Dashboard(ctx context.Context, params dashboard.FilterParams) (*app.Overview, error)
}

// DigestScheduler posts the dashboard overview to the HR chat on a cron schedule.
type DigestScheduler struct {
	cronEngine *cron.Cron
	dashboards DashboardBuilder
	client     telegram.Client
	clock      app.Clock
	logger     *logrus.Entry
	cronSpec   string
	// location is where cronSpec fires and where the as-at day is taken.
	location *time.Location
	chatID   int64
	// params carries everything but the as-at date, which is read from the clock per run.
	params     dashboard.FilterParams
	jobTimeout time.Duration
}

func NewDigestScheduler(
	dashboards DashboardBuilder,
	client telegram.Client,
	clock app.Clock,
	logger *logrus.Entry,
	cronSpec string, // e.g. "0 9 * * MON" (09:00 every Monday)
	chatID int64,
	params dashboard.FilterParams,
) *DigestScheduler {
	return newDigestScheduler(dashboards, client, clock, logger, cronSpec, chatID, params, time.Local)
}

func newDigestScheduler(
	dashboards DashboardBuilder,
	client telegram.Client,
	clock app.Clock,
	logger *logrus.Entry,
	cronSpec string,
	chatID int64,
	params dashboard.FilterParams,
	location *time.Location,
) *DigestScheduler {
	return &DigestScheduler{
		cronEngine: cron.New(cron.WithLocation(location)),
		dashboards: dashboards,
		client:     client,
		clock:      clock,
		logger:     logger,
		cronSpec:   cronSpec,
		location:   location,
		chatID:     chatID,
		params:     params,
		jobTimeout: 2 * time.Minute,
	}
}

// Start registers the digest job and starts the cron engine.
func (s *DigestScheduler) Start() error {
	s.logger.WithField("cron_spec", s.cronSpec).Info("Starting digest scheduler")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		if err := s.RunDigest(ctx); err != nil {
			s.logger.WithError(err).Error("Digest run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("error adding digest cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.Info("Digest scheduler started")
	return nil
}

// BuildDigest reads the clock once and renders the dashboard as at that date in the
// scheduler's location.
func (s *DigestScheduler) BuildDigest(ctx context.Context) (*app.Overview, string, error) {
	params := s.params
	params.AsAtEndOf = dashboard.DateOf(s.clock.Now().In(s.location))

	overview, err := s.dashboards.Dashboard(ctx, params)
	if err != nil {
		return nil, "", fmt.Errorf("error building dashboard as at %s: %w", params.AsAtEndOf.Format("2006-01-02"), err)
	}
	return overview, app.FormatOverview(overview), nil
}

// RunDigest builds one digest and posts it to the configured chat.
func (s *DigestScheduler) RunDigest(ctx context.Context) error {
	overview, text, err := s.BuildDigest(ctx)
	if err != nil {
		return err
	}
	runLogger := s.logger.WithFields(logrus.Fields{
		"pass_id": overview.PassID,
		"as_at":   overview.AsAtEndOf.Format("2006-01-02"),
		"chat_id": s.chatID,
	})

	if err := s.client.SendMessage(s.chatID, text, nil); err != nil {
		runLogger.WithError(err).Error("Failed to send digest")
		return fmt.Errorf("error sending digest to chat %d: %w", s.chatID, err)
	}
	runLogger.Info("Digest sent")
	return nil
}

func (s *DigestScheduler) Stop() {
	s.logger.Info("Stopping digest scheduler")
	ctx := s.cronEngine.Stop() // waits for a running digest
	<-ctx.Done()
	s.logger.Info("Digest scheduler stopped")
}
