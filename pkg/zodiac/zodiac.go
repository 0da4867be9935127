// Package zodiac classifies ecliptic longitudes into signs, degrees within
// a sign, and houses.
package zodiac

import (
	"fmt"
	"math"

	"github.com/chrissnell/natalchart/pkg/orbit"
)

// SignWidth is the span of one zodiac sign in degrees
const SignWidth = 30.0

// Signs lists the tropical signs starting at the vernal equinox
var Signs = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Placement is a longitude resolved into its sign
type Placement struct {
	Longitude    float64 // [0, 360)
	Sign         int     // [0, 11]
	DegreeInSign float64 // [0, 30)
}

// SignName returns the name of the placement's sign
func (p Placement) SignName() string {
	return Signs[p.Sign]
}

// Normalize wraps an angle in degrees to [0, 360)
func Normalize(angle float64) float64 {
	return orbit.Normalize(angle)
}

// Classify resolves a longitude (any real value) into sign and degree
func Classify(longitude float64) Placement {
	lon := Normalize(longitude)

	sign := int(math.Floor(lon/SignWidth)) % 12
	degree := lon - float64(sign)*SignWidth
	// Guard against rounding just below a sign boundary
	if degree >= SignWidth {
		degree = 0
		sign = (sign + 1) % 12
	} else if degree < 0 {
		degree = 0
	}

	return Placement{Longitude: lon, Sign: sign, DegreeInSign: degree}
}

// HouseOf returns the 1-based house containing the longitude. House i spans
// [cusps[i-1], cusps[i]) going forward; when a house straddles 0° the test
// becomes lon >= start || lon < end. If no house matches, which only happens
// for malformed cusps, it returns (1, false) so the caller can record the
// anomaly.
func HouseOf(longitude float64, cusps [12]float64) (int, bool) {
	lon := Normalize(longitude)

	for i := range cusps {
		start := cusps[i]
		end := cusps[(i+1)%12]

		var inside bool
		if start <= end {
			inside = lon >= start && lon < end
		} else {
			inside = lon >= start || lon < end
		}
		if inside {
			return i + 1, true
		}
	}

	return 1, false
}

// FormatDegrees renders a degree within a sign as degrees and minutes,
// e.g. 10°22'. Minutes are truncated so a value never reads as 30°00'.
func FormatDegrees(degreeInSign float64) string {
	if degreeInSign < 0 {
		degreeInSign = 0
	}
	// The epsilon keeps 10.3 from printing as 10°17' after float rounding
	totalMinutes := int(math.Floor(degreeInSign*60 + 1e-9))
	if totalMinutes >= 30*60 {
		totalMinutes = 30*60 - 1
	}
	return fmt.Sprintf("%d°%02d'", totalMinutes/60, totalMinutes%60)
}

// RoundLongitude rounds a longitude to two decimals without producing 360.00
func RoundLongitude(longitude float64) float64 {
	r := math.Round(Normalize(longitude)*100) / 100
	if r >= 360 {
		r -= 360
	}
	return r
}
