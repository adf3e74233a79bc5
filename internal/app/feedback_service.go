package app

import (
	"context"
	"fmt"

	"hive_reviews/internal/domain/feedback"
	"hive_reviews/internal/domain/ledger"

	"github.com/sirupsen/logrus"
)

// FeedbackService drives the user-invocable part of the feedback assignment lifecycle.
type FeedbackService struct {
	uow      UnitOfWork
	feedback feedback.Repository
	history  ledger.Repository
	clock    Clock
	logger   *logrus.Entry
}

func NewFeedbackService(uow UnitOfWork, fb feedback.Repository, history ledger.Repository, clock Clock, logger *logrus.Entry) *FeedbackService {
	return &FeedbackService{
		uow:      uow,
		feedback: fb,
		history:  history,
		clock:    clock,
		logger:   logger,
	}
}

// UpdateAssignmentStatus moves an assignment along its lifecycle. Retracting needs one of the
// known retraction reasons; Deleted is only reached through review deletion.
func (s *FeedbackService) UpdateAssignmentStatus(ctx context.Context, assignmentID int64, next feedback.Status, reason, actor string) error {
	at := s.clock.Now()
	return s.uow.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.history.Lock(ctx, assignmentID); err != nil {
			return err
		}
		assignment, err := s.feedback.GetAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		if assignment.DeletedDate.Valid {
			return fmt.Errorf("%w: %d", ErrAssignmentDeleted, assignmentID)
		}

		entry, err := s.history.CurrentStatus(ctx, assignmentID, at)
		if err != nil {
			return fmt.Errorf("failed to read status of feedback assignment %d: %w", assignmentID, err)
		}
		current, err := feedback.ParseStatus(entry.Status)
		if err != nil {
			return err
		}
		if err := feedback.CheckTransition(current, next, reason); err != nil {
			return err
		}
		if next != feedback.StatusRetracted {
			reason = ""
		} else if err := s.checkReason(ctx, reason); err != nil {
			return err
		}

		if err := s.feedback.AppendStatus(ctx, assignmentID, next, reason, actor, at); err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"feedback_assignment_id": assignmentID,
			"from":                   current,
			"to":                     next,
		}).Debug("Feedback assignment status updated")
		return nil
	})
}

func (s *FeedbackService) checkReason(ctx context.Context, reason string) error {
	reasons, err := s.feedback.ListRetractionReasons(ctx)
	if err != nil {
		return fmt.Errorf("failed to list retraction reasons: %w", err)
	}
	for _, r := range reasons {
		if r.Reason == reason && reason != feedback.ReasonReviewDeleted {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownRetractionReason, reason)
}

func (s *FeedbackService) ListRetractionReasons(ctx context.Context) ([]feedback.RetractionReason, error) {
	return s.feedback.ListRetractionReasons(ctx)
}
