// Package ephemeris hides the source of body positions and house frames
// behind a single Provider. One implementation is chosen at startup: the
// meeus-backed HighPrecisionProvider when its VSOP87 data is available, or
// the always-available ApproximateProvider.
package ephemeris

import (
	"fmt"
	"math"

	"github.com/chrissnell/natalchart/pkg/houses"
	"github.com/chrissnell/natalchart/pkg/orbit"
	"github.com/chrissnell/natalchart/pkg/timescale"
)

// Mode identifies the precision of a provider
type Mode int

const (
	ModeApproximate Mode = iota
	ModeHighPrecision
)

// String returns the label used in chart output
func (m Mode) String() string {
	switch m {
	case ModeApproximate:
		return "approximate"
	case ModeHighPrecision:
		return "high-precision"
	default:
		return "unknown"
	}
}

// Longitude is a body's geocentric ecliptic longitude and its daily motion
type Longitude struct {
	Degrees float64 // [0, 360)
	Speed   float64 // degrees per day, negative when retrograde
	Warning *orbit.ConvergenceWarning
}

// Provider computes body longitudes and house frames for one precision mode.
// Implementations are immutable after construction and safe for concurrent use.
type Provider interface {
	// Mode reports the precision of every value this provider returns
	Mode() Mode

	// BodyLongitude returns the longitude and speed of a body at a moment
	BodyLongitude(body Body, jm timescale.JulianMoment) (Longitude, error)

	// Houses returns the house cusps, Ascendant and Midheaven for an observer
	Houses(jm timescale.JulianMoment, latitude, longitude float64) (houses.Houses, error)
}

// ComputationError means a model cannot evaluate the requested moment.
// Ordinary numerical imprecision is never reported this way.
type ComputationError struct {
	Subject string // body name or "houses"
	Mode    Mode
	JD      float64
	Reason  string
	Err     error
}

func (e *ComputationError) Error() string {
	msg := fmt.Sprintf("%s provider cannot compute %s at JD %.5f: %s", e.Mode, e.Subject, e.JD, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// Window is a validity span in Julian Days, inclusive at the start
type Window struct {
	Start float64 `json:"start_jd"`
	End   float64 `json:"end_jd"`
}

// windowFromCenturies builds a window from Julian centuries around J2000.0
func windowFromCenturies(from, to float64) Window {
	return Window{
		Start: timescale.J2000 + from*timescale.DaysPerCentury,
		End:   timescale.J2000 + to*timescale.DaysPerCentury,
	}
}

// Contains reports whether the moment falls inside the window
func (w Window) Contains(jm timescale.JulianMoment) bool {
	jd := jm.JD()
	return jd >= w.Start && jd < w.End
}

// speedStep is the half-width, in days, of the centred difference used for speeds
const speedStep = 0.5

// dailyMotion differentiates a longitude function across a one-day interval
func dailyMotion(lon func(timescale.JulianMoment) float64, jm timescale.JulianMoment) float64 {
	before := lon(jm.Add(-speedStep))
	after := lon(jm.Add(speedStep))
	return signedDelta(before, after) / (2 * speedStep)
}

// signedDelta returns b-a wrapped to (-180, 180]
func signedDelta(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}
