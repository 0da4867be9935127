// Package houses orients the ecliptic to an observer: sidereal time,
// obliquity, the Ascendant and Midheaven, and the twelve house cusps.
// All angles are in degrees.
package houses

import (
	"math"

	"github.com/chrissnell/natalchart/pkg/orbit"
	"github.com/chrissnell/natalchart/pkg/timescale"
)

// SiderealRate is the advance of sidereal time per UT hour, in degrees
const SiderealRate = 15 * 1.00273790935

// GreenwichSiderealTimeAtMidnight returns Greenwich mean sidereal time at
// the 0h UT preceding the moment (IAU 1982, Meeus eq. 12.2)
func GreenwichSiderealTimeAtMidnight(jm timescale.JulianMoment) float64 {
	T := jm.Midnight().Centuries()
	hours := 6.697374558 + 2400.0513369*T + 0.0000258622*T*T - 1.7222e-9*T*T*T
	return orbit.Normalize(hours * 15.0)
}

// GreenwichSiderealTime returns Greenwich mean sidereal time at the moment
func GreenwichSiderealTime(jm timescale.JulianMoment) float64 {
	return orbit.Normalize(GreenwichSiderealTimeAtMidnight(jm) + jm.UTHours()*SiderealRate)
}

// LocalSiderealTime returns the local mean sidereal time for an east-positive
// longitude, normalized to [0, 360)
func LocalSiderealTime(jm timescale.JulianMoment, longitude float64) float64 {
	return orbit.Normalize(GreenwichSiderealTime(jm) + longitude)
}

// Obliquity returns the mean obliquity of the ecliptic (IAU formula)
func Obliquity(T float64) float64 {
	return 23.439291111 - 0.013004167*T - 0.00000164*T*T + 0.000000504*T*T*T
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
