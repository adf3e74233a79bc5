// internal/app/format.go
package app

import (
	"fmt"
	"strings"

	"hive_reviews/internal/domain/dashboard"
	"hive_reviews/internal/domain/review"
)

const dateLayout = "2006-01-02"

func orNone(v *string) string {
	if v == nil {
		return "(none)"
	}
	return *v
}

// FormatGrid renders a status grid as plain text, one block per period. Zero cells are kept so a
// quiet period is visible.
func FormatGrid(title string, rows []dashboard.GridRow) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	var current string
	for _, r := range rows {
		period := fmt.Sprintf("%s..%s", r.PeriodStart.Format(dateLayout), r.PeriodEnd.Format(dateLayout))
		if period != current {
			current = period
			fmt.Fprintf(&b, "%s\n", period)
		}
		if r.Status == nil && r.Lateness == nil && r.HRRep == nil && r.Count == 0 {
			b.WriteString("  no records\n")
			continue
		}
		fmt.Fprintf(&b, "  %s / %s / %s: %d\n", orNone(r.Status), orNone(r.Lateness), orNone(r.HRRep), r.Count)
	}
	return b.String()
}

// FormatReviewListing renders a review listing, one staff member per line.
func FormatReviewListing(title string, rows []review.LatenessRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)\n", title, len(rows))
	for _, r := range rows {
		due := "no due date"
		if r.DueDate.Valid {
			due = "due " + r.DueDate.Time.Format(dateLayout)
		}
		fmt.Fprintf(&b, "  #%d %s, %s, %s, HR %s\n", r.ReviewID, r.DisplayName, orNone(r.ReviewStatus), due, orNone(r.HRRep))
	}
	return b.String()
}

// FormatUnchanged renders entities whose status did not move between the two compared periods.
func FormatUnchanged(title string, rows []dashboard.UnchangedRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)\n", title, len(rows))
	for _, r := range rows {
		fmt.Fprintf(&b, "  #%d %s, %s, HR %s\n", r.EntityID, r.DisplayName, orNone(r.Status), orNone(r.HRRep))
	}
	return b.String()
}

func FormatUnchangedSummary(title string, rows []dashboard.UnchangedSummaryRow) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString("  none\n")
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "  %s / %s: %d\n", orNone(r.Status), orNone(r.HRRep), r.Count)
	}
	return b.String()
}

// FormatOverview renders a dashboard pass for the HR digest.
func FormatOverview(o *Overview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dashboard as at %s\n\n", o.AsAtEndOf.Format(dateLayout))
	b.WriteString(FormatGrid("Reviews", o.Reviews))
	b.WriteString("\n")
	b.WriteString(FormatGrid("Contract recommendations", o.Contracts))
	b.WriteString("\n")
	b.WriteString(FormatUnchangedSummary("Contract recommendations unchanged over the last two periods", o.UnchangedContracts))
	return b.String()
}
