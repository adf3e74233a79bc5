package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresLatenessClassifier calls the store's categorise_lateness function.
type PostgresLatenessClassifier struct {
	db *sql.DB
}

func NewPostgresLatenessClassifier(db *sql.DB) *PostgresLatenessClassifier {
	return &PostgresLatenessClassifier{db: db}
}

func (c *PostgresLatenessClassifier) Classify(ctx context.Context, target, asAt time.Time) (*string, error) {
	var targetParam any
	if !target.IsZero() {
		targetParam = dateParam(target)
	}

	var lateness sql.NullString
	err := querierFrom(ctx, c.db).QueryRowContext(ctx, `SELECT categorise_lateness($1::date, $2::date)`,
		targetParam, dateParam(asAt)).Scan(&lateness)
	if err != nil {
		return nil, fmt.Errorf("error classifying lateness: %w", err)
	}
	return nullString(lateness), nil
}
