package database

import (
	"context"
	"database/sql"
	"fmt"

	"hive_reviews/internal/domain/status"
)

// PostgresStatusRepository reads the reference tables of one status triad.
type PostgresStatusRepository struct {
	db    *sql.DB
	table LedgerTable
}

func NewPostgresStatusRepository(db *sql.DB, table LedgerTable) *PostgresStatusRepository {
	return &PostgresStatusRepository{db: db, table: table}
}

func (r *PostgresStatusRepository) ListStatuses(ctx context.Context) ([]status.Status, error) {
	query := fmt.Sprintf(`SELECT id, description, action_name FROM %s ORDER BY id`, r.table.Statuses)
	rows, err := querierFrom(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", r.table.Statuses, err)
	}
	defer rows.Close()

	statuses := []status.Status{}
	for rows.Next() {
		var s status.Status
		if err := rows.Scan(&s.ID, &s.Description, &s.ActionName); err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", r.table.Statuses, err)
		}
		statuses = append(statuses, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", r.table.Statuses, err)
	}
	return statuses, nil
}

// ListAllowedProgressions returns no edges for a triad without a progression table.
func (r *PostgresStatusRepository) ListAllowedProgressions(ctx context.Context) ([]status.Progression, error) {
	if r.table.Progressions == "" {
		return []status.Progression{}, nil
	}
	query := fmt.Sprintf(`SELECT id, current_status_id, next_status_id FROM %s ORDER BY id`, r.table.Progressions)
	rows, err := querierFrom(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", r.table.Progressions, err)
	}
	defer rows.Close()

	edges := []status.Progression{}
	for rows.Next() {
		var p status.Progression
		if err := rows.Scan(&p.ID, &p.CurrentStatusID, &p.NextStatusID); err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", r.table.Progressions, err)
		}
		edges = append(edges, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", r.table.Progressions, err)
	}
	return edges, nil
}
