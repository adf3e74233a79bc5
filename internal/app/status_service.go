// internal/app/status_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hive_reviews/internal/domain/ledger"
	"hive_reviews/internal/domain/status"
)

// StatusService loads the status catalogs. Nothing is cached between calls.
type StatusService struct {
	reviewStatuses   status.Repository
	contractStatuses status.Repository
}

func NewStatusService(reviewStatuses, contractStatuses status.Repository) *StatusService {
	return &StatusService{
		reviewStatuses:   reviewStatuses,
		contractStatuses: contractStatuses,
	}
}

func (s *StatusService) ReviewCatalog(ctx context.Context) (*status.Catalog, error) {
	return loadCatalog(ctx, s.reviewStatuses)
}

func (s *StatusService) ContractRecommendationCatalog(ctx context.Context) (*status.Catalog, error) {
	return loadCatalog(ctx, s.contractStatuses)
}

func loadCatalog(ctx context.Context, repo status.Repository) (*status.Catalog, error) {
	statuses, err := repo.ListStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	progressions, err := repo.ListAllowedProgressions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowed progressions: %w", err)
	}
	return status.NewCatalog(statuses, progressions), nil
}

// advance appends next to the entity's ledger when the catalog has an edge from its current
// status. The entity is locked before its current status is read, inside the unit of work.
func advance(ctx context.Context, uow UnitOfWork, catalog *status.Catalog, history ledger.Repository, entityID int64, next, actor string, at time.Time) (status.Status, error) {
	var target status.Status
	err := uow.WithinTx(ctx, func(ctx context.Context) error {
		if err := history.Lock(ctx, entityID); err != nil {
			return err
		}
		var current *int32
		entry, err := history.CurrentStatus(ctx, entityID, at)
		switch {
		case err == nil:
			current = &entry.StatusID
		case !errors.Is(err, ledger.ErrNoHistory):
			return fmt.Errorf("failed to read current status of %d: %w", entityID, err)
		}

		target, err = catalog.CheckProgression(current, next)
		if err != nil {
			return err
		}
		return history.Append(ctx, ledger.Change{EntityID: entityID, Status: target.Description, Actor: actor, At: at})
	})
	if err != nil {
		return status.Status{}, err
	}
	return target, nil
}
