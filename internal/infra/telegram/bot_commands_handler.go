// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotCommands registers /start and /help.
func RegisterBotCommands(b *telebot.Bot, commands *AdminCommands, adminTelegramID int64, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if senderID == adminTelegramID {
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("Hello %s, the review dashboard is ready. Use /help for the list of commands.", c.Sender().FirstName))
		}
		logCtx.Info("User is unknown")
		return c.Send("This bot posts the staff review dashboard to HR. Ask an administrator if you need access.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if senderID != adminTelegramID {
			logCtx.Info("User is unknown, sending restricted help.")
			return c.Send("No commands are available to you.")
		}
		return c.Send(helpText(commands), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}

func helpText(commands *AdminCommands) string {
	table := commands.table()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	var text strings.Builder
	text.WriteString("Admin commands (dates are YYYY-MM-DD, default today):\n\n")
	for _, name := range names {
		fmt.Fprintf(&text, "`%s`\n", table[name].usage)
	}
	text.WriteString("`/help`")
	return text.String()
}
