package restserver

import (
	"time"

	"github.com/chrissnell/natalchart/internal/storage"
	"github.com/chrissnell/natalchart/pkg/ephemeris"
)

// ChartSummary is one row of GET /charts
type ChartSummary struct {
	ID            string    `json:"id"`
	ArchivedAt    time.Time `json:"archived_at"`
	JulianDay     float64   `json:"julian_day"`
	PrecisionMode string    `json:"precision_mode"`
	HouseSystem   string    `json:"house_system"`
	Status        string    `json:"status"`
}

func summaryOf(rec storage.Record) ChartSummary {
	return ChartSummary{
		ID:            rec.ID,
		ArchivedAt:    rec.ArchivedAt,
		JulianDay:     rec.JulianDay,
		PrecisionMode: rec.PrecisionMode,
		HouseSystem:   rec.HouseSystem,
		Status:        rec.Status,
	}
}

// EphemerisInfo describes the provider chosen at startup
type EphemerisInfo struct {
	PrecisionMode string                      `json:"precision_mode"`
	HouseSystem   string                      `json:"house_system"`
	Fallback      string                      `json:"fallback,omitempty"`
	Windows       map[string]ephemeris.Window `json:"windows"`
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status        string                    `json:"status"`
	PrecisionMode string                    `json:"precision_mode"`
	Storage       map[string]storage.Health `json:"storage,omitempty"`
}
