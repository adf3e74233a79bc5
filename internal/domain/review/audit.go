package review

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPagination = errors.New("page length must be positive and start index non-negative")

// Pagination is the zero-based window requested by the caller.
type Pagination struct {
	StartIndex int
	PageLength int
}

// Page converts the window into page number and page size: page = floor(startIndex / pageLength).
// The offset is aligned to the page, so a start index inside a page returns the whole page.
func (p Pagination) Page() (number, size int, err error) {
	if p.PageLength <= 0 || p.StartIndex < 0 {
		return 0, 0, fmt.Errorf("%w: start %d, length %d", ErrInvalidPagination, p.StartIndex, p.PageLength)
	}
	return p.StartIndex / p.PageLength, p.PageLength, nil
}

// Offset is the number of rows skipped for the page.
func (p Pagination) Offset() (int, error) {
	number, size, err := p.Page()
	if err != nil {
		return 0, err
	}
	return number * size, nil
}

// AuditFilter narrows the audit trail. Empty slices mean no filter.
type AuditFilter struct {
	ActionTypes []string
	Users       []string
}

type AuditRecord struct {
	ID         int64
	ReviewID   int64
	ActionType string
	ActionBy   string
	ActionDate time.Time
	Details    string
}

// AuditPage is one page of audit records plus the total number of matching records.
type AuditPage struct {
	Records    []AuditRecord
	TotalCount int
}
