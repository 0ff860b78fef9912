package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

const createLedgerTable = `
	CREATE TABLE IF NOT EXISTS ledger_records (
		collection TEXT    NOT NULL,
		position   INTEGER NOT NULL,
		record     TEXT    NOT NULL,
		PRIMARY KEY (collection, position)
	)
`

// PostgresStore keeps the encoded records in a single ledger_records table
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore connects to dsn and makes sure the ledger table exists
func NewPostgresStore(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createLedgerTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ledger table: %w", err)
	}

	logger.Info("connected to PostgreSQL ledger store")
	return &PostgresStore{db: db, logger: logger}, nil
}

// ReadRecords returns the records of collection in their saved order
func (ps *PostgresStore) ReadRecords(ctx context.Context, collection Collection) ([]string, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT record FROM ledger_records WHERE collection = $1 ORDER BY position`, string(collection))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	var records []string
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", collection, err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// WriteRecords replaces collection inside one transaction using COPY
func (ps *PostgresStore) WriteRecords(ctx context.Context, collection Collection, records []string) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_records WHERE collection = $1`, string(collection)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", collection, err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("ledger_records", "collection", "position", "record"))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}
	for i, record := range records {
		if _, err := stmt.ExecContext(ctx, string(collection), i, record); err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy %s record %d: %w", collection, i+1, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("failed to close copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", collection, err)
	}
	return nil
}

// Close closes the connection pool
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
