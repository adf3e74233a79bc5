// internal/app/review_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"hive_reviews/internal/domain/feedback"
	"hive_reviews/internal/domain/ledger"
	"hive_reviews/internal/domain/review"
	"hive_reviews/internal/domain/status"

	"github.com/sirupsen/logrus"
)

type ReviewService struct {
	uow      UnitOfWork
	reviews  review.Repository
	history  ledger.Repository
	feedback feedback.Repository
	statuses *StatusService
	clock    Clock
	logger   *logrus.Entry
}

func NewReviewService(
	uow UnitOfWork,
	reviews review.Repository,
	history ledger.Repository,
	fb feedback.Repository,
	statuses *StatusService,
	clock Clock,
	logger *logrus.Entry,
) *ReviewService {
	return &ReviewService{
		uow:      uow,
		reviews:  reviews,
		history:  history,
		feedback: fb,
		statuses: statuses,
		clock:    clock,
		logger:   logger,
	}
}

// DeleteReview soft-deletes the review, appends a Cancelled status and retracts all of its
// feedback in one unit of work. Any failing step undoes the others.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID int64, actor string) error {
	at := s.clock.Now()
	return s.uow.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.reviews.SoftDelete(ctx, reviewID, actor, at); err != nil {
			return fmt.Errorf("failed to soft-delete review %d: %w", reviewID, err)
		}
		change := ledger.Change{EntityID: reviewID, Status: review.StatusCancelled, Actor: actor, At: at}
		if err := s.history.Append(ctx, change); err != nil {
			return fmt.Errorf("failed to cancel review %d: %w", reviewID, err)
		}

		messages, err := s.feedback.SoftDeleteMessagesForReview(ctx, reviewID, feedback.ReasonReviewDeleted, actor, at)
		if err != nil {
			return fmt.Errorf("failed to delete messages of review %d: %w", reviewID, err)
		}
		assignments, err := s.feedback.SoftDeleteAssignmentsForReview(ctx, reviewID, actor, at)
		if err != nil {
			return fmt.Errorf("failed to delete feedback assignments of review %d: %w", reviewID, err)
		}
		appended, err := s.feedback.AppendDeletedStatusForReview(ctx, reviewID, feedback.ReasonReviewDeleted, actor, at)
		if err != nil {
			return fmt.Errorf("failed to append deleted statuses for review %d: %w", reviewID, err)
		}
		if appended != assignments {
			return fmt.Errorf("%w: review %d, %d assignments, %d status rows", ErrIncompleteCascade, reviewID, assignments, appended)
		}

		s.logger.WithFields(logrus.Fields{
			"review_id":   reviewID,
			"messages":    messages,
			"assignments": assignments,
		}).Debug("Review deleted")
		return nil
	})
}

// InsertStaffReview links a staff member to their next review cycle. A previous staff review, when
// given, must belong to the same staff member and must not have a successor yet. Without one the
// staff member must have no current staff review.
func (s *ReviewService) InsertStaffReview(ctx context.Context, actor string, in review.NewStaffReview) (int64, error) {
	at := s.clock.Now()
	var id int64
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if in.PreviousStaffReviewID != nil {
			err = s.reviews.CheckPreviousStaffReview(ctx, *in.PreviousStaffReviewID, in.StaffID)
		} else {
			err = s.reviews.CheckNoCurrentStaffReview(ctx, in.StaffID)
		}
		if err != nil {
			return err
		}
		id, err = s.reviews.InsertStaffReview(ctx, actor, at, in)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *ReviewService) RetrieveReviewAudit(ctx context.Context, reviewID int64, page review.Pagination, filter review.AuditFilter) (review.AuditPage, error) {
	if _, _, err := page.Page(); err != nil {
		return review.AuditPage{}, err
	}
	return s.reviews.Audit(ctx, reviewID, page, filter)
}

// RetrieveActiveReviewIDByTemplateNameForStaffMember returns *review.ActiveReviewNotFoundError
// when the staff member has no active review of the template.
func (s *ReviewService) RetrieveActiveReviewIDByTemplateNameForStaffMember(ctx context.Context, templateName, upn string) (int64, error) {
	return s.reviews.ActiveReviewIDByTemplateNameForStaffMember(ctx, templateName, upn, s.clock.Now())
}

func (s *ReviewService) AdvanceReviewStatus(ctx context.Context, reviewID int64, next, actor string) (status.Status, error) {
	catalog, err := s.statuses.ReviewCatalog(ctx)
	if err != nil {
		return status.Status{}, err
	}
	return advance(ctx, s.uow, catalog, s.history, reviewID, next, actor, s.clock.Now())
}

// ReviewStatusTimeline returns the whole ledger of a review and the entry current at asAt.
// current is nil when the review had no status yet at asAt.
func (s *ReviewService) ReviewStatusTimeline(ctx context.Context, reviewID int64, asAt time.Time) (entries []ledger.Entry, current *ledger.Entry, err error) {
	if asAt.IsZero() {
		return nil, nil, ledger.ErrAsAtRequired
	}
	entries, err = s.history.History(ctx, reviewID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load status history of review %d: %w", reviewID, err)
	}
	entry, err := ledger.CurrentAsAt(entries, asAt)
	if err != nil {
		return entries, nil, nil
	}
	return entries, &entry, nil
}
