// internal/infra/database/postgres_ledger_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hive_reviews/internal/domain/ledger"
)

// PostgresLedgerRepository reads and appends one status history table.
type PostgresLedgerRepository struct {
	db    *sql.DB
	table LedgerTable
}

func NewPostgresLedgerRepository(db *sql.DB, table LedgerTable) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db, table: table}
}

// Lock takes a row lock on the owning entity. Concurrent writers of the same entity queue on it,
// so a status read after Lock stays current until commit. It only holds inside a transaction.
func (r *PostgresLedgerRepository) Lock(ctx context.Context, entityID int64) error {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 FOR UPDATE`, r.table.Owner, r.table.OwnerKey)

	var one int
	err := querierFrom(ctx, r.db).QueryRowContext(ctx, query, entityID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s %d", ledger.ErrUnknownEntity, r.table.Owner, entityID)
		}
		return fmt.Errorf("error locking %s %d: %w", r.table.Owner, entityID, err)
	}
	return nil
}

// Append resolves the status by description inside the insert. An unknown description leaves
// status_id NULL and the store rejects the row.
func (r *PostgresLedgerRepository) Append(ctx context.Context, change ledger.Change) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, status_id, updated_by, updated_date)
		VALUES ($1, (SELECT id FROM %s WHERE description = $2), $3, $4)`,
		r.table.History, r.table.EntityColumn, r.table.Statuses)

	if _, err := querierFrom(ctx, r.db).ExecContext(ctx, query, change.EntityID, change.Status, change.Actor, change.At); err != nil {
		return fmt.Errorf("error appending %s row for %d: %w", r.table.History, change.EntityID, err)
	}
	return nil
}

func (r *PostgresLedgerRepository) CurrentStatus(ctx context.Context, entityID int64, asAt time.Time) (ledger.Entry, error) {
	query := fmt.Sprintf(`SELECT h.id, h.%[2]s, h.status_id, s.description, h.updated_by, h.updated_date
		FROM %[1]s h
		JOIN %[3]s s ON s.id = h.status_id
		WHERE h.%[2]s = $1 AND h.updated_date <= $2
		ORDER BY h.updated_date DESC, h.id DESC
		LIMIT 1`, r.table.History, r.table.EntityColumn, r.table.Statuses)

	var e ledger.Entry
	err := querierFrom(ctx, r.db).QueryRowContext(ctx, query, entityID, asAt).
		Scan(&e.ID, &e.EntityID, &e.StatusID, &e.Status, &e.UpdatedBy, &e.UpdatedDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Entry{}, ledger.ErrNoHistory
		}
		return ledger.Entry{}, fmt.Errorf("error getting current status from %s: %w", r.table.History, err)
	}
	return e, nil
}

func (r *PostgresLedgerRepository) History(ctx context.Context, entityID int64) ([]ledger.Entry, error) {
	query := fmt.Sprintf(`SELECT h.id, h.%[2]s, h.status_id, s.description, h.updated_by, h.updated_date
		FROM %[1]s h
		JOIN %[3]s s ON s.id = h.status_id
		WHERE h.%[2]s = $1
		ORDER BY h.updated_date, h.id`, r.table.History, r.table.EntityColumn, r.table.Statuses)

	rows, err := querierFrom(ctx, r.db).QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", r.table.History, err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(&e.ID, &e.EntityID, &e.StatusID, &e.Status, &e.UpdatedBy, &e.UpdatedDate); err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", r.table.History, err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", r.table.History, err)
	}
	return entries, nil
}
