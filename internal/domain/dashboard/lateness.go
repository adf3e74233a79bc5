// internal/domain/dashboard/lateness.go
package dashboard

import (
	"context"
	"time"
)

// LatenessOverdue is the categorise_lateness bucket the overdue admin command filters on. The
// store owns the full list of categories.
const LatenessOverdue = "Overdue"

// Classifier buckets a target date against an as-at date. It is a pure function of its two
// arguments; callers pass the same asAt used by the rest of an aggregation pass.
// A zero target stands for a NULL date and yields a nil result.
type Classifier interface {
	Classify(ctx context.Context, target, asAt time.Time) (*string, error)
}
