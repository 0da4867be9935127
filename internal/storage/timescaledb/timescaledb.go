// Package timescaledb archives charts in a TimescaleDB hypertable through GORM.
package timescaledb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chrissnell/natalchart/internal/database"
	"github.com/chrissnell/natalchart/internal/storage"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS natal_charts (
    id text NOT NULL,
    archived_at timestamp WITH TIME ZONE NOT NULL,
    julian_day double precision NOT NULL,
    precision_mode text NOT NULL,
    house_system text NOT NULL DEFAULT '',
    status text NOT NULL,
    view jsonb NOT NULL,
    PRIMARY KEY (id, archived_at)
);`

const createExtensionSQL = `CREATE EXTENSION IF NOT EXISTS timescaledb;`

const createHypertableSQL = `SELECT create_hypertable('natal_charts', 'archived_at', if_not_exists => TRUE, migrate_data => TRUE);`

const createIndexSQL = `CREATE INDEX IF NOT EXISTS natal_charts_id_idx ON natal_charts (id);`

// ChartRow is the GORM model for natal_charts
type ChartRow struct {
	ID            string    `gorm:"column:id;primaryKey"`
	ArchivedAt    time.Time `gorm:"column:archived_at;primaryKey"`
	JulianDay     float64   `gorm:"column:julian_day"`
	PrecisionMode string    `gorm:"column:precision_mode"`
	HouseSystem   string    `gorm:"column:house_system"`
	Status        string    `gorm:"column:status"`
	View          string    `gorm:"column:view;type:jsonb"`
}

// TableName implements gorm's Tabler
func (ChartRow) TableName() string {
	return "natal_charts"
}

func rowFromRecord(rec storage.Record) ChartRow {
	return ChartRow{
		ID:            rec.ID,
		ArchivedAt:    rec.ArchivedAt.UTC(),
		JulianDay:     rec.JulianDay,
		PrecisionMode: rec.PrecisionMode,
		HouseSystem:   rec.HouseSystem,
		Status:        rec.Status,
		View:          string(rec.View),
	}
}

func (r ChartRow) record() storage.Record {
	return storage.Record{
		ID:            r.ID,
		ArchivedAt:    r.ArchivedAt.UTC(),
		JulianDay:     r.JulianDay,
		PrecisionMode: r.PrecisionMode,
		HouseSystem:   r.HouseSystem,
		Status:        r.Status,
		View:          []byte(r.View),
	}
}

// Storage is a TimescaleDB chart archive
type Storage struct {
	conn   *gorm.DB
	logger *zap.SugaredLogger
}

var _ storage.ChartStore = (*Storage)(nil)

// New connects and provisions the hypertable
func New(ctx context.Context, connectionString string, zl *zap.Logger) (*Storage, error) {
	conn, err := database.CreateConnection(connectionString, zl)
	if err != nil {
		return nil, err
	}
	t := &Storage{conn: conn, logger: zl.Sugar()}

	steps := []struct {
		desc string
		sql  string
	}{
		{"creating TimescaleDB extension", createExtensionSQL},
		{"creating charts table", createTableSQL},
		{"creating hypertable", createHypertableSQL},
		{"creating chart id index", createIndexSQL},
	}
	for _, step := range steps {
		t.logger.Infow(step.desc + "...")
		if err := conn.WithContext(ctx).Exec(step.sql).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", step.desc, err)
		}
	}

	return t, nil
}

// Save stores a chart
func (t *Storage) Save(ctx context.Context, rec storage.Record) error {
	row := rowFromRecord(rec)
	if err := t.conn.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("could not store chart %s: %w", rec.ID, err)
	}
	return nil
}

// Get returns the most recent archive of a chart ID
func (t *Storage) Get(ctx context.Context, id string) (storage.Record, error) {
	var row ChartRow
	err := t.conn.WithContext(ctx).Where("id = ?", id).Order("archived_at DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.Record{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Record{}, fmt.Errorf("error querying chart %s: %w", id, err)
	}
	return row.record(), nil
}

// Recent lists the newest charts
func (t *Storage) Recent(ctx context.Context, limit int) ([]storage.Record, error) {
	var rows []ChartRow
	err := t.conn.WithContext(ctx).Order("archived_at DESC").Limit(storage.ClampLimit(limit)).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error querying recent charts: %w", err)
	}

	records := make([]storage.Record, len(rows))
	for i, r := range rows {
		records[i] = r.record()
	}
	return records, nil
}

// Ping checks the connection with a trivial query
func (t *Storage) Ping(ctx context.Context) error {
	sqlDB, err := t.conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database connection: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	var result int
	return t.conn.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error
}

// Close closes the connection pool
func (t *Storage) Close() error {
	sqlDB, err := t.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
