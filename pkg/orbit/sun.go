// Package orbit propagates mean orbital elements to geocentric ecliptic
// longitudes. It is a low-order model: the Sun uses a three-term equation of
// center, the Moon its six largest periodic terms, and the planets JPL's
// approximate Keplerian elements. Expect errors of a few arcminutes for the
// Sun and planets and up to about half a degree for the Moon, which is
// enough to place a body in the correct sign and house in all but edge
// cases. All angles are degrees; T is Julian centuries since J2000.0.
package orbit

// SunMeanLongitude returns the geometric mean longitude of the Sun
func SunMeanLongitude(T float64) float64 {
	return Normalize(280.46646 + 36000.76983*T + 0.0003032*T*T)
}

// SunMeanAnomaly returns the mean anomaly of the Sun (and of the Earth)
func SunMeanAnomaly(T float64) float64 {
	return Normalize(357.52911 + 35999.05029*T - 0.0001537*T*T)
}

// SunEquationOfCenter returns the correction from mean to true longitude
func SunEquationOfCenter(T float64) float64 {
	M := SunMeanAnomaly(T)
	return (1.914602-0.004817*T-0.000014*T*T)*sinDeg(M) +
		(0.019993-0.000101*T)*sinDeg(2*M) +
		0.000289*sinDeg(3*M)
}

// SunLongitude returns the true geometric ecliptic longitude of the Sun,
// referred to the mean equinox of date
func SunLongitude(T float64) float64 {
	return Normalize(SunMeanLongitude(T) + SunEquationOfCenter(T))
}
