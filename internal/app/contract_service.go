package app

import (
	"context"
	"time"

	"hive_reviews/internal/domain/ledger"
	"hive_reviews/internal/domain/status"

	"github.com/sirupsen/logrus"
)

// ContractService is the write path of contract recommendation statuses.
type ContractService struct {
	uow      UnitOfWork
	history  ledger.Repository
	statuses *StatusService
	clock    Clock
	logger   *logrus.Entry
}

func NewContractService(uow UnitOfWork, history ledger.Repository, statuses *StatusService, clock Clock, logger *logrus.Entry) *ContractService {
	return &ContractService{
		uow:      uow,
		history:  history,
		statuses: statuses,
		clock:    clock,
		logger:   logger,
	}
}

func (s *ContractService) AdvanceContractRecommendationStatus(ctx context.Context, recommendationID int64, next, actor string) (status.Status, error) {
	catalog, err := s.statuses.ContractRecommendationCatalog(ctx)
	if err != nil {
		return status.Status{}, err
	}
	target, err := advance(ctx, s.uow, catalog, s.history, recommendationID, next, actor, s.clock.Now())
	if err != nil {
		return status.Status{}, err
	}
	s.logger.WithFields(logrus.Fields{
		"contract_recommendation_id": recommendationID,
		"status":                     target.Description,
	}).Debug("Contract recommendation status advanced")
	return target, nil
}

// CurrentContractRecommendationStatus returns ledger.ErrNoHistory when nothing was recorded by asAt.
func (s *ContractService) CurrentContractRecommendationStatus(ctx context.Context, recommendationID int64, asAt time.Time) (ledger.Entry, error) {
	if asAt.IsZero() {
		return ledger.Entry{}, ledger.ErrAsAtRequired
	}
	return s.history.CurrentStatus(ctx, recommendationID, asAt)
}
