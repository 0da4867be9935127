// Package sqlite archives charts in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/natalchart/internal/storage"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS charts (
	id             TEXT PRIMARY KEY,
	archived_at    TEXT NOT NULL,
	julian_day     REAL NOT NULL,
	precision_mode TEXT NOT NULL,
	house_system   TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL,
	view           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS charts_archived_at_idx ON charts (archived_at);
CREATE INDEX IF NOT EXISTS charts_julian_day_idx ON charts (julian_day);
`

// timeLayout has fixed-width fractions so text order matches time order
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Storage is a SQLite chart archive
type Storage struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

var _ storage.ChartStore = (*Storage)(nil)

// New opens (creating if needed) the database at path
func New(ctx context.Context, path string, logger *zap.SugaredLogger) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// One writer avoids SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	logger.Infow("creating chart archive table", "path", path)
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create charts table: %w", err)
	}

	return &Storage{db: db, logger: logger}, nil
}

// Save inserts or replaces a chart
func (s *Storage) Save(ctx context.Context, rec storage.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO charts (id, archived_at, julian_day, precision_mode, house_system, status, view)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ArchivedAt.UTC().Format(timeLayout), rec.JulianDay,
		rec.PrecisionMode, rec.HouseSystem, rec.Status, string(rec.View))
	if err != nil {
		return fmt.Errorf("could not store chart %s: %w", rec.ID, err)
	}
	return nil
}

// Get returns one chart
func (s *Storage) Get(ctx context.Context, id string) (storage.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, archived_at, julian_day, precision_mode, house_system, status, view
		FROM charts WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Record{}, storage.ErrNotFound
	}
	return rec, err
}

// Recent lists the newest charts
func (s *Storage) Recent(ctx context.Context, limit int) ([]storage.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, archived_at, julian_day, precision_mode, house_system, status, view
		FROM charts ORDER BY archived_at DESC LIMIT ?`, storage.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query charts: %w", err)
	}
	defer rows.Close()

	var records []storage.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (storage.Record, error) {
	var rec storage.Record
	var archivedAt, view string

	err := sc.Scan(&rec.ID, &archivedAt, &rec.JulianDay, &rec.PrecisionMode, &rec.HouseSystem, &rec.Status, &view)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan chart row: %w", err)
	}

	rec.ArchivedAt, err = time.Parse(timeLayout, archivedAt)
	if err != nil {
		return rec, fmt.Errorf("chart %s has invalid archived_at %q: %w", rec.ID, archivedAt, err)
	}
	rec.View = []byte(view)
	return rec, nil
}

// Ping checks the database
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}
