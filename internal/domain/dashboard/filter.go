// internal/domain/dashboard/filter.go
package dashboard

import (
	"errors"
	"fmt"
	"time"

	"hive_reviews/internal/domain/ledger"
)

var ErrInvalidPeriods = errors.New("number of periods and period length must be positive")

// FilterParams is the shared input of every dashboard query. It is a value object: the
// aggregator reads it and never mutates it.
type FilterParams struct {
	AsAtEndOf        time.Time
	NumberOfPeriods  int
	PeriodLengthDays int

	// CompanyEntities restricts staff to the listed entities; empty means every entity.
	CompanyEntities []string

	ExcludedHRReps     []string
	ExcludedStatuses   []string
	ExcludedLatenesses []string

	// Equality filters for row-level listings; nil passes everything through.
	Status   *string
	Lateness *string
	HRRep    *string
}

// ValidateAsAt fails fast when no as-at date was supplied. A silent "now" would move every
// lateness bucket.
func (p FilterParams) ValidateAsAt() error {
	if p.AsAtEndOf.IsZero() {
		return ledger.ErrAsAtRequired
	}
	return nil
}

// ValidateGrid checks everything a period grid needs.
func (p FilterParams) ValidateGrid() error {
	if err := p.ValidateAsAt(); err != nil {
		return err
	}
	if p.NumberOfPeriods <= 0 || p.PeriodLengthDays <= 0 {
		return fmt.Errorf("%w: got %d periods of %d days", ErrInvalidPeriods, p.NumberOfPeriods, p.PeriodLengthDays)
	}
	return nil
}

// Exclusions returns the exclude lists of the params.
func (p FilterParams) Exclusions() Exclusions {
	return Exclusions{
		Statuses:   p.ExcludedStatuses,
		Latenesses: p.ExcludedLatenesses,
		HRReps:     p.ExcludedHRReps,
	}
}

// Periods builds the period grid of the params.
func (p FilterParams) Periods() ([]Period, error) {
	if err := p.ValidateGrid(); err != nil {
		return nil, err
	}
	return BuildPeriods(p.AsAtEndOf, p.PeriodLengthDays, p.NumberOfPeriods)
}
