package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"hive_reviews/internal/app"
	"hive_reviews/internal/infra/config"
	idb "hive_reviews/internal/infra/database"
	"hive_reviews/internal/infra/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hive",
	Short: "Review and contract recommendation status dashboards",
	Long: `hive reads and advances review, contract recommendation and feedback statuses and
builds the period dashboards HR works from.

Configuration comes from the environment or a .env file; DATABASE_URL is required.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(unchangedCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(contractCmd)
	rootCmd.AddCommand(feedbackCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// services is the wired application for one process.
type services struct {
	cfg        *config.AppConfig
	db         *sql.DB
	clock      app.Clock
	dashboards *app.DashboardService
	reviews    *app.ReviewService
	contracts  *app.ContractService
	feedback   *app.FeedbackService
}

func setup(ctx context.Context) (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("could not load application configuration: %w", err)
	}
	logger.Init(cfg)
	logger.Log.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Configuration loaded")

	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	logger.Log.Info("Database connection established")

	clock := app.SystemClock{}
	uow := idb.NewTxManager(db)

	reviewHistory := idb.NewPostgresLedgerRepository(db, idb.ReviewLedger)
	contractHistory := idb.NewPostgresLedgerRepository(db, idb.ContractRecommendationLedger)
	feedbackHistory := idb.NewPostgresLedgerRepository(db, idb.FeedbackAssignmentLedger)
	feedbackRepo := idb.NewPostgresFeedbackRepository(db)

	statuses := app.NewStatusService(
		idb.NewPostgresStatusRepository(db, idb.ReviewLedger),
		idb.NewPostgresStatusRepository(db, idb.ContractRecommendationLedger),
	)

	return &services{
		cfg:   cfg,
		db:    db,
		clock: clock,
		dashboards: app.NewDashboardService(
			idb.NewPostgresReviewDashboardRepository(db),
			idb.NewPostgresContractDashboardRepository(db),
			idb.NewPostgresLatenessClassifier(db),
			logger.Component("dashboard"),
		),
		reviews: app.NewReviewService(
			uow,
			idb.NewPostgresReviewRepository(db),
			reviewHistory,
			feedbackRepo,
			statuses,
			clock,
			logger.Component("reviews"),
		),
		contracts: app.NewContractService(uow, contractHistory, statuses, clock, logger.Component("contracts")),
		feedback:  app.NewFeedbackService(uow, feedbackRepo, feedbackHistory, clock, logger.Component("feedback")),
	}, nil
}

func (s *services) Close() {
	if err := s.db.Close(); err != nil {
		logger.Log.WithError(err).Warn("Failed to close database")
	}
}
