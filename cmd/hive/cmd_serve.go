package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"hive_reviews/internal/domain/dashboard"
	"hive_reviews/internal/infra/config"
	"hive_reviews/internal/infra/logger"
	"hive_reviews/internal/infra/scheduler"
	"hive_reviews/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/telebot.v3"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram admin bot and the HR digest scheduler",
	Long: `Starts the Telegram bot with the admin dashboard commands and the cron job that posts
the dashboard digest to the HR chat. Requires TELEGRAM_TOKEN, ADMIN_TELEGRAM_ID and HR_CHAT_ID.`,
	RunE: runServe,
}

// digestDefaults are the dashboard params configured for the digest and the bot commands.
func digestDefaults(cfg *config.AppConfig) dashboard.FilterParams {
	return dashboard.FilterParams{
		NumberOfPeriods:  cfg.DigestNumberOfPeriods,
		PeriodLengthDays: cfg.DigestPeriodDays,
		CompanyEntities:  cfg.DigestCompanyEntities,
	}
}

func newBot(cfg *config.AppConfig, botLogger *logrus.Entry) (*telebot.Bot, error) {
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			errLogger := botLogger.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				errLogger = errLogger.WithFields(logrus.Fields{
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			errLogger.Error("Telegram handler failed")
		},
	}
	return telebot.NewBot(pref)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.cfg.RequireBot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	botLogger := logger.Component("telegram")
	bot, err := newBot(svc.cfg, botLogger)
	if err != nil {
		return fmt.Errorf("could not create Telegram bot: %w", err)
	}

	defaults := digestDefaults(svc.cfg)
	commands := telegram.NewAdminCommands(svc.dashboards, svc.clock, defaults)
	telegram.RegisterBotCommands(bot, commands, svc.cfg.AdminTelegramID, botLogger)
	telegram.RegisterAdminHandlers(ctx, bot, commands, svc.cfg.AdminTelegramID, botLogger)
	botLogger.Info("Admin command handlers registered")

	digest := scheduler.NewDigestScheduler(
		svc.dashboards,
		telegram.NewTelebotAdapter(bot),
		svc.clock,
		logger.Component("scheduler"),
		svc.cfg.CronSpecDigest,
		svc.cfg.HRChatID,
		defaults,
	)
	if err := digest.Start(); err != nil {
		return err
	}

	go bot.Start()
	logger.Log.Info("Bot and scheduler are running")

	<-ctx.Done()

	logger.Log.Info("Shutting down")
	digest.Stop()
	bot.Stop()
	logger.Log.Info("Shut down gracefully")
	return nil
}
