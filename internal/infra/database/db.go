package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

const (
	applicationName        = "hive"
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
	pingTimeout            = 5 * time.Second
)

// connectionString turns a postgres:// URL into a key/value DSN and tags the session with the
// application name so dashboard queries can be told apart in pg_stat_activity.
func connectionString(dataSourceName string) (string, error) {
	dsn := dataSourceName
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		var err error
		if dsn, err = pq.ParseURL(dsn); err != nil {
			return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
	}
	if !strings.Contains(dsn, "application_name=") {
		dsn = strings.TrimSpace(dsn + " application_name=" + applicationName)
	}
	return dsn, nil
}

// NewPostgresConnection opens the pool and pings the database before returning it.
func NewPostgresConnection(ctx context.Context, dataSourceName string) (*sql.DB, error) {
	dsn, err := connectionString(dataSourceName)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
