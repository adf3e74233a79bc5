package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hive_reviews/internal/app"
	"hive_reviews/internal/domain/dashboard"
	"hive_reviews/internal/domain/review"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const argDateLayout = "2006-01-02"

var errUsage = errors.New("invalid command format")

// DashboardQueries is the read side the admin commands call.
type DashboardQueries interface {
	RetrieveReviewsStatusSummary(ctx context.Context, params dashboard.FilterParams) ([]dashboard.GridRow, error)
	RetrieveContractsStatusSummary(ctx context.Context, params dashboard.FilterParams) ([]dashboard.GridRow, error)
	RetrieveReviewsForLatenessAndStatus(ctx context.Context, params dashboard.FilterParams) ([]review.LatenessRow, error)
	RetrieveContractsWithUnchangedStatus(ctx context.Context, params dashboard.FilterParams) ([]dashboard.UnchangedRow, error)
	ClassifyLateness(ctx context.Context, target, asAt time.Time) (*string, error)
}

// AdminCommands turns command arguments into dashboard queries and renders the answer.
type AdminCommands struct {
	queries  DashboardQueries
	clock    app.Clock
	defaults dashboard.FilterParams
}

func NewAdminCommands(queries DashboardQueries, clock app.Clock, defaults dashboard.FilterParams) *AdminCommands {
	return &AdminCommands{queries: queries, clock: clock, defaults: defaults}
}

// paramsFor returns the default params as at args[0], or as at today when no date was given.
func (a *AdminCommands) paramsFor(args []string) (dashboard.FilterParams, error) {
	if len(args) > 1 {
		return dashboard.FilterParams{}, errUsage
	}
	params := a.defaults
	asAt, err := a.dateArg(args, 0)
	if err != nil {
		return dashboard.FilterParams{}, err
	}
	params.AsAtEndOf = asAt
	return params, nil
}

func (a *AdminCommands) dateArg(args []string, i int) (time.Time, error) {
	if len(args) <= i {
		return dashboard.DateOf(a.clock.Now()), nil
	}
	d, err := time.Parse(argDateLayout, args[i])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", errUsage, args[i])
	}
	return d, nil
}

func (a *AdminCommands) ReviewsSummary(ctx context.Context, args []string) (string, error) {
	params, err := a.paramsFor(args)
	if err != nil {
		return "", err
	}
	rows, err := a.queries.RetrieveReviewsStatusSummary(ctx, params)
	if err != nil {
		return "", err
	}
	return app.FormatGrid("Reviews as at "+params.AsAtEndOf.Format(argDateLayout), rows), nil
}

func (a *AdminCommands) ContractsSummary(ctx context.Context, args []string) (string, error) {
	params, err := a.paramsFor(args)
	if err != nil {
		return "", err
	}
	rows, err := a.queries.RetrieveContractsStatusSummary(ctx, params)
	if err != nil {
		return "", err
	}
	return app.FormatGrid("Contract recommendations as at "+params.AsAtEndOf.Format(argDateLayout), rows), nil
}

func (a *AdminCommands) OverdueReviews(ctx context.Context, args []string) (string, error) {
	params, err := a.paramsFor(args)
	if err != nil {
		return "", err
	}
	overdue := dashboard.LatenessOverdue
	params.Lateness = &overdue
	rows, err := a.queries.RetrieveReviewsForLatenessAndStatus(ctx, params)
	if err != nil {
		return "", err
	}
	return app.FormatReviewListing("Overdue reviews as at "+params.AsAtEndOf.Format(argDateLayout), rows), nil
}

func (a *AdminCommands) UnchangedContracts(ctx context.Context, args []string) (string, error) {
	params, err := a.paramsFor(args)
	if err != nil {
		return "", err
	}
	rows, err := a.queries.RetrieveContractsWithUnchangedStatus(ctx, params)
	if err != nil {
		return "", err
	}
	return app.FormatUnchanged("Contract recommendations unchanged as at "+params.AsAtEndOf.Format(argDateLayout), rows), nil
}

// Lateness expects "<target> [asAt]".
func (a *AdminCommands) Lateness(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", errUsage
	}
	target, err := time.Parse(argDateLayout, args[0])
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a YYYY-MM-DD date", errUsage, args[0])
	}
	asAt, err := a.dateArg(args, 1)
	if err != nil {
		return "", err
	}
	bucket, err := a.queries.ClassifyLateness(ctx, target, asAt)
	if err != nil {
		return "", err
	}
	if bucket == nil {
		return fmt.Sprintf("%s has no lateness as at %s", args[0], asAt.Format(argDateLayout)), nil
	}
	return fmt.Sprintf("%s is %s as at %s", args[0], *bucket, asAt.Format(argDateLayout)), nil
}

type adminCommand struct {
	usage string
	run   func(ctx context.Context, args []string) (string, error)
}

func (a *AdminCommands) table() map[string]adminCommand {
	return map[string]adminCommand{
		"/reviews_summary":     {usage: "/reviews_summary [YYYY-MM-DD]", run: a.ReviewsSummary},
		"/contracts_summary":   {usage: "/contracts_summary [YYYY-MM-DD]", run: a.ContractsSummary},
		"/overdue_reviews":     {usage: "/overdue_reviews [YYYY-MM-DD]", run: a.OverdueReviews},
		"/unchanged_contracts": {usage: "/unchanged_contracts [YYYY-MM-DD]", run: a.UnchangedContracts},
		"/lateness":            {usage: "/lateness <YYYY-MM-DD> [YYYY-MM-DD]", run: a.Lateness},
	}
}

// RegisterAdminHandlers registers the dashboard commands. Only the configured admin may run them.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, commands *AdminCommands, adminTelegramID int64, baseLogger *logrus.Entry) {
	for name, cmd := range commands.table() {
		name, cmd := name, cmd
		b.Handle(name, func(c telebot.Context) error {
			handlerLogger := baseLogger.WithFields(logrus.Fields{
				"handler":   name,
				"sender_id": c.Sender().ID,
			})
			handlerLogger.Info("Command received")

			if c.Sender().ID != adminTelegramID {
				handlerLogger.Warn("Unauthorized access attempt")
				return c.Send("Error: you are not allowed to run this command.")
			}

			reply, err := cmd.run(ctx, c.Args())
			if errors.Is(err, errUsage) {
				handlerLogger.WithError(err).Warn("Invalid command format")
				return c.Send(fmt.Sprintf("%v\nUsage: %s", err, cmd.usage))
			}
			if err != nil {
				handlerLogger.WithError(err).Error("Dashboard query failed")
				return c.Send(fmt.Sprintf("The dashboard could not be built: %s", err.Error()))
			}

			handlerLogger.Info("Command answered")
			return NewTelebotAdapter(b).SendMessage(c.Chat().ID, reply, nil)
		})
	}
}
