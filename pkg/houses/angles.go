package houses

import (
	"math"

	"github.com/chrissnell/natalchart/pkg/orbit"
)

// Ascendant returns the approximate Ascendant for a local sidereal time,
// obliquity and geographic latitude:
//
//	tan(Asc) = [cos(LST)·tan(ε)·cos(φ) - sin(φ)·sin(LST)] / cos(LST)
//
// The principal arctangent is moved into the western half of the circle by
// adding 180° whenever LST > 180°. That correction is the only place the
// result jumps by a full 180°; elsewhere it is continuous modulo 180°.
func Ascendant(lst, obliquity, latitude float64) float64 {
	l := degToRad(lst)
	eps := degToRad(obliquity)
	phi := degToRad(latitude)

	// The quotient reduces to tan(ε)·cos(φ) - sin(φ)·tan(LST), which avoids
	// 0/0 at LST = 90° on the equator
	ratio := math.Tan(eps)*math.Cos(phi) - math.Sin(phi)*math.Tan(l)

	asc := radToDeg(math.Atan(ratio))
	if lst > 180 {
		asc += 180
	}
	return orbit.Normalize(asc)
}

// ApproximateMidheaven returns the approximate-mode Midheaven, LST + 90°
func ApproximateMidheaven(lst float64) float64 {
	return orbit.Normalize(lst + 90)
}

// ExactMidheaven returns the ecliptic longitude on the meridian for a right
// ascension of the meridian (RAMC) and the obliquity
func ExactMidheaven(ramc, obliquity float64) float64 {
	r := degToRad(ramc)
	mc := math.Atan2(math.Sin(r), math.Cos(r)*math.Cos(degToRad(obliquity)))
	return orbit.Normalize(radToDeg(mc))
}

// ExactAscendant returns the ecliptic longitude rising on the eastern
// horizon, quadrant-resolved by atan2
func ExactAscendant(ramc, obliquity, latitude float64) float64 {
	r := degToRad(ramc)
	eps := degToRad(obliquity)
	phi := degToRad(latitude)

	y := math.Cos(r)
	x := -(math.Sin(r)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps))
	return orbit.Normalize(radToDeg(math.Atan2(y, x)))
}
