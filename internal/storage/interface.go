// Package storage archives rendered charts. Archived charts are read back
// for display only and never feed into a computation.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/natalchart/pkg/chart"
)

// ErrNotFound is returned when no chart has the requested ID
var ErrNotFound = errors.New("chart not found")

// ChartStore is implemented by every archive backend
type ChartStore interface {
	// Save stores a rendered chart under its ID
	Save(ctx context.Context, rec Record) error

	// Get returns the chart with the given ID or ErrNotFound
	Get(ctx context.Context, id string) (Record, error)

	// Recent returns up to limit charts, newest first
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Ping checks the backend connection
	Ping(ctx context.Context) error

	Close() error
}

// Record is an archived chart with indexed metadata
type Record struct {
	ID            string    `json:"id"`
	ArchivedAt    time.Time `json:"archived_at"`
	JulianDay     float64   `json:"julian_day"`
	PrecisionMode string    `json:"precision_mode"`
	HouseSystem   string    `json:"house_system"`
	Status        string    `json:"status"`
	View          []byte    `json:"-"` // JSON-encoded chart.View
}

// NewRecord encodes a chart view for archiving
func NewRecord(v chart.View, archivedAt time.Time) (Record, error) {
	if v.ID == "" {
		return Record{}, fmt.Errorf("chart has no ID")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return Record{}, fmt.Errorf("error encoding chart %s: %w", v.ID, err)
	}
	return Record{
		ID:            v.ID,
		ArchivedAt:    archivedAt.UTC(),
		JulianDay:     v.JulianDay,
		PrecisionMode: v.PrecisionMode,
		HouseSystem:   v.HouseSystem,
		Status:        v.Status,
		View:          data,
	}, nil
}

// DecodeView decodes the archived chart view
func (r Record) DecodeView() (chart.View, error) {
	var v chart.View
	if err := json.Unmarshal(r.View, &v); err != nil {
		return chart.View{}, fmt.Errorf("error decoding chart %s: %w", r.ID, err)
	}
	return v, nil
}

// ClampLimit bounds list queries, defaulting to 50
func ClampLimit(limit int) int {
	const maxLimit = 500
	if limit <= 0 {
		return 50
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
