package main

import (
	"fmt"
	"time"

	"hive_reviews/internal/app"
	"hive_reviews/internal/infra/logger"
	"hive_reviews/internal/infra/scheduler"
	"hive_reviews/internal/infra/telegram"

	"github.com/spf13/cobra"
)

var (
	summaryFlags   dashboardFlags
	unchangedFlags dashboardFlags
	digestFlags    dashboardFlags
	digestSend     bool
	unchangedFull  bool
)

var summaryCmd = &cobra.Command{
	Use:       "summary reviews|contracts",
	Short:     "Print the status x lateness grid per period",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"reviews", "contracts"},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		params, err := summaryFlags.params(svc.clock, digestDefaults(svc.cfg))
		if err != nil {
			return err
		}
		title := "Reviews"
		summarise := svc.dashboards.RetrieveReviewsStatusSummary
		if args[0] == "contracts" {
			title = "Contract recommendations"
			summarise = svc.dashboards.RetrieveContractsStatusSummary
		}
		rows, err := summarise(cmd.Context(), params)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), app.FormatGrid(title+" as at "+params.AsAtEndOf.Format(dateLayout), rows))
		return nil
	},
}

var unchangedCmd = &cobra.Command{
	Use:       "unchanged contracts|reviews",
	Short:     "Print entities whose status did not change over the last two periods",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"contracts", "reviews"},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		params, err := unchangedFlags.params(svc.clock, digestDefaults(svc.cfg))
		if err != nil {
			return err
		}
		title := "Contract recommendations unchanged as at " + params.AsAtEndOf.Format(dateLayout)
		list := svc.dashboards.RetrieveContractsWithUnchangedStatus
		summarise := svc.dashboards.RetrieveContractsWithUnchangedStatusSummary
		if args[0] == "reviews" {
			title = "Reviews unchanged as at " + params.AsAtEndOf.Format(dateLayout)
			list = svc.dashboards.RetrieveReviewsWithUnchangedStatus
			summarise = svc.dashboards.RetrieveReviewsWithUnchangedStatusSummary
		}

		if unchangedFull {
			rows, err := list(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), app.FormatUnchanged(title, rows))
			return nil
		}
		rows, err := summarise(cmd.Context(), params)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), app.FormatUnchangedSummary(title, rows))
		return nil
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build the HR digest now and print it, or post it with --send",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		params, err := digestFlags.params(svc.clock, digestDefaults(svc.cfg))
		if err != nil {
			return err
		}
		if !digestSend {
			overview, err := svc.dashboards.Dashboard(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), app.FormatOverview(overview))
			return nil
		}

		if err := svc.cfg.RequireBot(); err != nil {
			return err
		}
		bot, err := newBot(svc.cfg, logger.Component("telegram"))
		if err != nil {
			return fmt.Errorf("could not create Telegram bot: %w", err)
		}
		digest := scheduler.NewDigestScheduler(
			svc.dashboards,
			telegram.NewTelebotAdapter(bot),
			fixedAsAt(params.AsAtEndOf),
			logger.Component("scheduler"),
			svc.cfg.CronSpecDigest,
			svc.cfg.HRChatID,
			params,
		)
		return digest.RunDigest(cmd.Context())
	},
}

// fixedAsAt is a clock pinned to the --as-at date of a one-off digest. It reports local midnight
// of that date so the scheduler's local as-at day is the date given.
type fixedAsAt time.Time

func (c fixedAsAt) Now() time.Time {
	y, m, d := time.Time(c).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func init() {
	summaryFlags.register(summaryCmd)
	unchangedFlags.register(unchangedCmd)
	unchangedCmd.Flags().BoolVar(&unchangedFull, "list", false, "List every unchanged entity instead of the summary")
	digestFlags.register(digestCmd)
	digestCmd.Flags().BoolVar(&digestSend, "send", false, "Post the digest to HR_CHAT_ID instead of printing it")
}
