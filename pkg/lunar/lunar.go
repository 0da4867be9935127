// Package lunar derives the lunar phase from the ecliptic longitudes of the
// Sun and Moon. It takes longitudes from whichever ephemeris computed the
// chart, so the phase never disagrees with the positions it is shown beside.
package lunar

import (
	"math"

	"github.com/chrissnell/natalchart/pkg/orbit"
)

// SynodicMonth is the average length of the lunar cycle in days
const SynodicMonth = 29.530588853

// MoonPhase contains calculated moon phase information
type MoonPhase struct {
	Phase        float64 `json:"phase"`        // Phase fraction [0,1): 0=new, 0.5=full
	Elongation   float64 `json:"elongation"`   // Sun→Moon angle in degrees [0,360)
	Illumination float64 `json:"illumination"` // Illuminated fraction [0,1]: 0=new, 1=full
	AgeDays      float64 `json:"age_days"`     // Days since new moon [0,SynodicMonth)
	IsWaxing     bool    `json:"waxing"`
	PhaseName    string  `json:"name"`
}

// FromLongitudes computes the phase for a Sun and Moon longitude in degrees
func FromLongitudes(sunLon, moonLon float64) MoonPhase {
	elongation := orbit.Normalize(moonLon - sunLon)
	phase := elongation / 360.0
	illumination := (1 - math.Cos(degToRad(elongation))) / 2
	isWaxing := elongation < 180

	return MoonPhase{
		Phase:        phase,
		Elongation:   elongation,
		Illumination: illumination,
		AgeDays:      phase * SynodicMonth,
		IsWaxing:     isWaxing,
		PhaseName:    phaseName(illumination, isWaxing),
	}
}

// phaseName returns the 8-phase name based on illumination percentage and direction
func phaseName(illumination float64, isWaxing bool) string {
	switch {
	case illumination < 0.01:
		return "New Moon"
	case illumination > 0.99:
		return "Full Moon"
	case illumination >= 0.49 && illumination <= 0.51:
		if isWaxing {
			return "First Quarter"
		}
		return "Third Quarter"
	case illumination < 0.50:
		if isWaxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if isWaxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
