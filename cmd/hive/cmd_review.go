package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hive_reviews/internal/domain/feedback"
	"hive_reviews/internal/domain/review"

	"github.com/spf13/cobra"
)

var (
	auditStart       int
	auditPageLength  int
	auditActionTypes []string
	auditUsers       []string

	historyAsAt string

	actor string

	staffReviewStaffID    int64
	staffReviewNextDate   string
	staffReviewPrevious   int64
	staffReviewFeedbackID int32
	staffReviewHoldReason string

	retractionReason string
)

func parseID(value, what string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", what, value)
	}
	return id, nil
}

var auditCmd = &cobra.Command{
	Use:   "audit <reviewID>",
	Short: "Print one page of a review's audit trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reviewID, err := parseID(args[0], "review ID")
		if err != nil {
			return err
		}
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		page, err := svc.reviews.RetrieveReviewAudit(cmd.Context(), reviewID,
			review.Pagination{StartIndex: auditStart, PageLength: auditPageLength},
			review.AuditFilter{ActionTypes: auditActionTypes, Users: auditUsers},
		)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Review %d audit, %d records in total\n", reviewID, page.TotalCount)
		for _, r := range page.Records {
			fmt.Fprintf(out, "%s  %-20s %-24s %s\n", r.ActionDate.Format(time.RFC3339), r.ActionType, r.ActionBy, r.Details)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <reviewID>",
	Short: "Print a review's status ledger and its status as at a date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reviewID, err := parseID(args[0], "review ID")
		if err != nil {
			return err
		}
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		asAt := svc.clock.Now()
		if historyAsAt != "" {
			day, err := parseAsAt(historyAsAt, svc.clock)
			if err != nil {
				return err
			}
			// the whole as-at day counts
			asAt = day.AddDate(0, 0, 1).Add(-time.Microsecond)
		}
		entries, current, err := svc.reviews.ReviewStatusTimeline(cmd.Context(), reviewID, asAt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range entries {
			marker := " "
			if current != nil && e.ID == current.ID {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s  %-20s %s\n", marker, e.UpdatedDate.Format(time.RFC3339), e.Status, e.UpdatedBy)
		}
		if current == nil {
			fmt.Fprintln(out, "no status as at", asAt.Format(time.RFC3339))
		}
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Change reviews and staff reviews",
}

var reviewDeleteCmd = &cobra.Command{
	Use:   "delete <reviewID>",
	Short: "Soft-delete a review, cancel it and retract its feedback",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reviewID, err := parseID(args[0], "review ID")
		if err != nil {
			return err
		}
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.reviews.DeleteReview(cmd.Context(), reviewID, actor); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "review %d deleted\n", reviewID)
		return nil
	},
}

var reviewAdvanceCmd = &cobra.Command{
	Use:   "advance <reviewID> <status>",
	Short: "Move a review to the next status",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reviewID, err := parseID(args[0], "review ID")
		if err != nil {
			return err
		}
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		next, err := svc.reviews.AdvanceReviewStatus(cmd.Context(), reviewID, strings.Join(args[1:], " "), actor)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "review %d is now %s\n", reviewID, next.Description)
		return nil
	},
}

var reviewActiveCmd = &cobra.Command{
	Use:   "active <templateName> <upn>",
	Short: "Print the active review of a template for a staff member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		id, err := svc.reviews.RetrieveActiveReviewIDByTemplateNameForStaffMember(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var reviewScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule the next review for a staff member",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		next, err := time.Parse(dateLayout, staffReviewNextDate)
		if err != nil {
			return fmt.Errorf("invalid --next-review-date %q, expected YYYY-MM-DD: %w", staffReviewNextDate, err)
		}
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		in := review.NewStaffReview{
			StaffID:            staffReviewStaffID,
			NextReviewDate:     next,
			NextFeedbackTypeID: staffReviewFeedbackID,
		}
		if staffReviewPrevious > 0 {
			in.PreviousStaffReviewID = &staffReviewPrevious
		}
		if staffReviewHoldReason != "" {
			in.Hold = &review.Hold{Reason: staffReviewHoldReason, OnHoldBy: actor, PlacedAt: svc.clock.Now()}
		}
		id, err := svc.reviews.InsertStaffReview(cmd.Context(), actor, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "staff review %d created\n", id)
		return nil
	},
}

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Read and move contract recommendation statuses",
}

var contractAdvanceCmd = &cobra.Command{
	Use:   "advance <recommendationID> <status>",
	Short: "Move a contract recommendation to the next status",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "contract recommendation ID")
		if err != nil {
			return err
		}
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		next, err := svc.contracts.AdvanceContractRecommendationStatus(cmd.Context(), id, strings.Join(args[1:], " "), actor)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "contract recommendation %d is now %s\n", id, next.Description)
		return nil
	},
}

var contractStatusCmd = &cobra.Command{
	Use:   "status <recommendationID>",
	Short: "Print the status of a contract recommendation as at --as-at",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "contract recommendation ID")
		if err != nil {
			return err
		}
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		asAt := svc.clock.Now()
		if historyAsAt != "" {
			day, err := parseAsAt(historyAsAt, svc.clock)
			if err != nil {
				return err
			}
			asAt = day.AddDate(0, 0, 1).Add(-time.Microsecond)
		}
		entry, err := svc.contracts.CurrentContractRecommendationStatus(cmd.Context(), id, asAt)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s since %s by %s\n", entry.Status, entry.UpdatedDate.Format(time.RFC3339), entry.UpdatedBy)
		return nil
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Move feedback assignments through their lifecycle",
}

var feedbackSetStatusCmd = &cobra.Command{
	Use:   "set-status <assignmentID> <status>",
	Short: "Move a feedback assignment to a new status",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "assignment ID")
		if err != nil {
			return err
		}
		next, err := feedback.ParseStatus(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.feedback.UpdateAssignmentStatus(cmd.Context(), id, next, retractionReason, actor); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "feedback assignment %d is now %s\n", id, next)
		return nil
	},
}

var feedbackReasonsCmd = &cobra.Command{
	Use:   "reasons",
	Short: "List the retraction reasons a user can pick",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		reasons, err := svc.feedback.ListRetractionReasons(cmd.Context())
		if err != nil {
			return err
		}
		for _, r := range reasons {
			fmt.Fprintf(cmd.OutOrStdout(), "%d  %s\n", r.ID, r.Reason)
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().IntVar(&auditStart, "start", 0, "Zero-based index of the first record")
	auditCmd.Flags().IntVar(&auditPageLength, "page", 25, "Page length")
	auditCmd.Flags().StringSliceVar(&auditActionTypes, "action-type", nil, "Only these action types (repeatable)")
	auditCmd.Flags().StringSliceVar(&auditUsers, "user", nil, "Only actions by these users (repeatable)")

	historyCmd.Flags().StringVar(&historyAsAt, "as-at", "", "Date YYYY-MM-DD to resolve the status at (default: now)")
	contractStatusCmd.Flags().StringVar(&historyAsAt, "as-at", "", "Date YYYY-MM-DD to resolve the status at (default: now)")

	for _, c := range []*cobra.Command{reviewDeleteCmd, reviewAdvanceCmd, reviewScheduleCmd, contractAdvanceCmd, feedbackSetStatusCmd} {
		c.Flags().StringVar(&actor, "actor", "", "UPN recorded as the author of the change (required)")
		_ = c.MarkFlagRequired("actor")
	}
	feedbackSetStatusCmd.Flags().StringVar(&retractionReason, "reason", "", "Retraction reason, required when retracting")

	reviewScheduleCmd.Flags().Int64Var(&staffReviewStaffID, "staff", 0, "Staff ID (required)")
	reviewScheduleCmd.Flags().StringVar(&staffReviewNextDate, "next-review-date", "", "Next review date YYYY-MM-DD (required)")
	reviewScheduleCmd.Flags().Int64Var(&staffReviewPrevious, "previous", 0, "Previous staff review ID")
	reviewScheduleCmd.Flags().Int32Var(&staffReviewFeedbackID, "feedback-type", 0, "Next feedback type ID (required)")
	reviewScheduleCmd.Flags().StringVar(&staffReviewHoldReason, "hold", "", "Place the staff review on hold with this reason")
	_ = reviewScheduleCmd.MarkFlagRequired("staff")
	_ = reviewScheduleCmd.MarkFlagRequired("next-review-date")
	_ = reviewScheduleCmd.MarkFlagRequired("feedback-type")

	reviewCmd.AddCommand(reviewDeleteCmd, reviewAdvanceCmd, reviewActiveCmd, reviewScheduleCmd)
	contractCmd.AddCommand(contractAdvanceCmd, contractStatusCmd)
	feedbackCmd.AddCommand(feedbackSetStatusCmd, feedbackReasonsCmd)
}
