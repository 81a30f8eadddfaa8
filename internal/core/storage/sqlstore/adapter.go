// Package sqlstore implements storage.RecordStore on database/sql. SQLite is
// the default for single-process deployments; PostgreSQL is supported for
// shared stores.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/aevon-lab/salesboard/internal/core/storage"
	"github.com/google/uuid"
	_ "github.com/lib/pq"           // Register postgres driver
	_ "github.com/mattn/go-sqlite3" // Register sqlite3 driver
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	connectPingTimeout = 5 * time.Second
	sqlitePragmas      = "_journal_mode=WAL&_busy_timeout=5000"
)

// Adapter implements storage.RecordStore.
type Adapter struct {
	db     *sql.DB
	driver string
	nowFn  func() time.Time
}

var _ storage.RecordStore = (*Adapter)(nil)

// NewAdapter opens and pings the database. Schema is created separately by
// the migrations package; call ValidateSchema once it has run.
//
// For sqlite3 the DSN is a file path. WAL mode is enabled unless the DSN
// already carries query parameters, and the pool is pinned to one
// connection.
func NewAdapter(driver, dsn string, maxOpenConns, maxIdleConns int) (*Adapter, error) {
	switch driver {
	case DriverSQLite:
		if dir := filepath.Dir(dsn); dir != "." && dsn != ":memory:" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		if !strings.Contains(dsn, "?") {
			dsn += "?" + sqlitePragmas
		}
		maxOpenConns, maxIdleConns = 1, 1
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	if driver == DriverPostgres {
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	slog.Info("[SQLStore] Connection pool configured",
		"driver", driver,
		"max_open_conns", maxOpenConns,
		"max_idle_conns", maxIdleConns)

	pingCtx, cancel := context.WithTimeout(context.Background(), connectPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	return newAdapter(db, driver), nil
}

func newAdapter(db *sql.DB, driver string) *Adapter {
	return &Adapter{db: db, driver: driver, nowFn: time.Now}
}

// ValidateSchema checks that the tracking table exists.
func (a *Adapter) ValidateSchema(ctx context.Context) error {
	var one int
	err := a.db.QueryRowContext(ctx, a.q(queryProbeSchema)).Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("schema validation failed - did you run migrations?: %w", err)
	}
	return nil
}

// UpsertSource replaces a file's rows in one transaction. A file whose
// stored mtime is not older than file.MTime is left untouched.
func (a *Adapter) UpsertSource(ctx context.Context, file storage.SourceFile, rows []v1.Record) (bool, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("upsert source: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var stored int64
	err = tx.QueryRowContext(ctx, a.q(querySelectTrackedMTime), file.Path).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("upsert source: read tracked mtime: %w", err)
	case stored >= toUnixNano(file.MTime):
		slog.Warn("[SQLStore] Skipping stale/no-op upsert",
			"path", file.Path,
			"mtime", file.MTime,
			"stored_mtime", fromUnixNano(stored))
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, a.q(queryDeleteSourceRows), file.Path); err != nil {
		return false, fmt.Errorf("upsert source: delete rows: %w", err)
	}

	insertStmt, err := tx.PrepareContext(ctx, a.q(queryInsertSourceRow))
	if err != nil {
		return false, fmt.Errorf("upsert source: prepare insert: %w", err)
	}
	defer insertStmt.Close()

	for i := range rows {
		data, err := marshalRowData(&rows[i])
		if err != nil {
			return false, fmt.Errorf("upsert source: %w", err)
		}
		if _, err := insertStmt.ExecContext(ctx, file.Dataset, file.Path, rows[i].Row, data); err != nil {
			return false, fmt.Errorf("upsert source: insert row %d: %w", rows[i].Row, err)
		}
	}

	ingestID := file.IngestID
	if ingestID == "" {
		ingestID = uuid.NewString()
	}
	if _, err := tx.ExecContext(ctx, a.q(queryUpsertSourceFile),
		file.Path,
		file.Dataset,
		toUnixNano(file.MTime),
		len(rows),
		ingestID,
		a.nowFn().UTC(),
	); err != nil {
		return false, fmt.Errorf("upsert source: record mtime: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("upsert source: commit: %w", err)
	}

	slog.Info("[SQLStore] Source ingested",
		"dataset", file.Dataset,
		"path", file.Path,
		"rows", len(rows),
		"ingest_id", ingestID)
	return true, nil
}

// ReadRecords returns every stored row of dataset.
func (a *Adapter) ReadRecords(ctx context.Context, dataset string) ([]v1.Record, error) {
	rows, err := a.db.QueryContext(ctx, a.q(queryReadRecords), dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []v1.Record
	for rows.Next() {
		rec, err := scanRecordRow(rows, dataset)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// TrackedMTime returns the mtime recorded for path.
func (a *Adapter) TrackedMTime(ctx context.Context, path string) (time.Time, error) {
	var stored int64
	err := a.db.QueryRowContext(ctx, a.q(querySelectTrackedMTime), path).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, storage.ErrNotTracked
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read tracked mtime: %w", err)
	}
	return fromUnixNano(stored), nil
}

// TrackedSources lists the tracking rows of dataset.
func (a *Adapter) TrackedSources(ctx context.Context, dataset string) ([]storage.SourceFile, error) {
	rows, err := a.db.QueryContext(ctx, a.q(queryTrackedSources), dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked sources: %w", err)
	}
	defer rows.Close()

	var sources []storage.SourceFile
	for rows.Next() {
		src, err := scanSourceRow(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracked sources: %w", err)
	}

	return sources, nil
}

// DeleteSource removes a file's rows and its tracking row together.
func (a *Adapter) DeleteSource(ctx context.Context, path string) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete source: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, a.q(queryDeleteSourceRows), path); err != nil {
		return fmt.Errorf("delete source: delete rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, a.q(queryDeleteSourceFile), path); err != nil {
		return fmt.Errorf("delete source: delete tracking row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete source: commit: %w", err)
	}

	slog.Info("[SQLStore] Source forgotten", "path", path)
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// DB returns the underlying *sql.DB for migrations and health checks.
func (a *Adapter) DB() *sql.DB {
	return a.db
}

// Driver returns the database/sql driver name.
func (a *Adapter) Driver() string {
	return a.driver
}

// Close closes the database connection. Should be called during graceful
// shutdown.
func (a *Adapter) Close() error {
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	slog.Info("[SQLStore] Adapter closed gracefully")
	return nil
}

func (a *Adapter) q(query string) string {
	return rebind(a.driver, query)
}
