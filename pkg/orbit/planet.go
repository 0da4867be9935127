package orbit

import (
	"fmt"
	"math"
)

// GeneralPrecession is the annual precession in ecliptic longitude, in
// degrees per Julian century, used to carry J2000 elements to the equinox
// of date
const GeneralPrecession = 1.396971

// vector is a heliocentric ecliptic position in AU
type vector struct {
	x, y, z float64
}

// PlanetPosition is the result of propagating one planet
type PlanetPosition struct {
	Longitude             float64 // geocentric, equinox of date
	HeliocentricLongitude float64 // J2000
	Distance              float64 // geocentric, AU
	Warning               *ConvergenceWarning
}

// PlanetLongitude returns the geocentric ecliptic longitude of a planet.
// The planet's and the Earth's orbits are solved with Kepler's equation,
// corrected by the periodic terms, and differenced. A non-converged Kepler
// solution still produces a longitude with the warning attached.
func PlanetLongitude(p Planet, T float64) (PlanetPosition, error) {
	if p == Earth {
		return PlanetPosition{}, fmt.Errorf("geocentric longitude of %v is undefined", p)
	}
	if _, ok := Elements[p]; !ok {
		return PlanetPosition{}, fmt.Errorf("no orbital elements for %v", p)
	}

	anomalies := perturberAnomalies(T)

	planet, lon, planetWarn := heliocentric(p, T, anomalies)
	earth, _, earthWarn := heliocentric(Earth, T, anomalies)

	dx := planet.x - earth.x
	dy := planet.y - earth.y
	dz := planet.z - earth.z

	pos := PlanetPosition{
		Longitude:             Normalize(radToDeg(math.Atan2(dy, dx)) + GeneralPrecession*T),
		HeliocentricLongitude: lon,
		Distance:              math.Sqrt(dx*dx + dy*dy + dz*dz),
		Warning:               planetWarn,
	}
	if pos.Warning == nil {
		pos.Warning = earthWarn
	}

	return pos, nil
}

// perturberAnomalies returns the mean anomalies of Jupiter, Saturn and Uranus
func perturberAnomalies(T float64) [3]float64 {
	return [3]float64{
		Elements[Jupiter].At(T).MeanAnomaly(),
		Elements[Saturn].At(T).MeanAnomaly(),
		Elements[Uranus].At(T).MeanAnomaly(),
	}
}

// heliocentric returns the heliocentric ecliptic position of a planet and its
// corrected heliocentric longitude
func heliocentric(p Planet, T float64, anomalies [3]float64) (vector, float64, *ConvergenceWarning) {
	elements := Elements[p]
	m := elements.At(T)

	sol := SolveKepler(m.E, m.MeanAnomaly())
	nu := TrueAnomaly(m.E, sol.E)
	r := m.A * (1 - m.E*cosDeg(sol.E))

	// Argument of latitude measured from the ascending node
	u := nu + m.Peri - m.Node

	sinU, cosU := math.Sincos(degToRad(u))
	sinN, cosN := math.Sincos(degToRad(m.Node))
	sinI, cosI := math.Sincos(degToRad(m.I))

	x := r * (cosN*cosU - sinN*sinU*cosI)
	y := r * (sinN*cosU + cosN*sinU*cosI)
	z := r * (sinU * sinI)

	lon := radToDeg(math.Atan2(y, x))
	if len(elements.Terms) > 0 {
		lon += longitudeCorrection(elements.Terms, anomalies)
		rxy := math.Hypot(x, y)
		sinL, cosL := math.Sincos(degToRad(lon))
		x, y = rxy*cosL, rxy*sinL
	}

	return vector{x: x, y: y, z: z}, Normalize(lon), sol.Warning
}

func longitudeCorrection(terms []PeriodicTerm, anomalies [3]float64) float64 {
	var sum float64
	for _, t := range terms {
		arg := t.J*anomalies[0] + t.S*anomalies[1] + t.U*anomalies[2] + t.Phase
		if t.Cosine {
			sum += t.Amplitude * cosDeg(arg)
		} else {
			sum += t.Amplitude * sinDeg(arg)
		}
	}
	return sum
}
