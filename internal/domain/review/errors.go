package review

import (
	"errors"
	"fmt"
)

var (
	ErrReviewNotFound        = errors.New("review not found")
	ErrActiveReviewNotFound  = errors.New("active review not found")
	ErrStaffReviewSuperseded = errors.New("previous staff review is already superseded or belongs to another staff member")
	ErrStaffNotFound         = errors.New("staff member not found")
	// ErrCurrentStaffReviewExists rejects a chain start for a staff member who already has a live,
	// unsuperseded staff review. The new row must name it as previous instead.
	ErrCurrentStaffReviewExists = errors.New("staff member already has a current staff review")
)

// ActiveReviewNotFoundError names the template/staff pair that has no active review.
type ActiveReviewNotFoundError struct {
	TemplateName string
	UPN          string
}

func (e *ActiveReviewNotFoundError) Error() string {
	return fmt.Sprintf("no active review for template %q and staff member %q", e.TemplateName, e.UPN)
}

func (e *ActiveReviewNotFoundError) Unwrap() error {
	return ErrActiveReviewNotFound
}
