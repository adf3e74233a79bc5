package app

import (
	"context"
	"time"
)

// Clock supplies "now" to write paths and to callers that pick an as-at date. Aggregations never
// read it; they take the as-at date from their params.
type Clock interface {
	Now() time.Time
}

// SystemClock truncates to the store's microsecond precision so a stamped instant can be matched
// again inside the same unit of work.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// UnitOfWork runs fn in one transaction. Repositories called with the context passed to fn take
// part in it.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
