package houses

import (
	"fmt"
	"math"

	"github.com/chrissnell/natalchart/pkg/orbit"
	"github.com/chrissnell/natalchart/pkg/timescale"
)

// System names a house division
type System string

const (
	// Equal divides the ecliptic into 30° houses starting at the Ascendant
	Equal System = "equal"
	// Porphyry trisects each quadrant between the Ascendant and Midheaven
	Porphyry System = "porphyry"
)

// Cusps are the twelve house boundaries, cusp[0] opening house 1. They
// increase going forward around the circle and wrap through 0°.
type Cusps [12]float64

// Houses is a full house frame for a moment and place
type Houses struct {
	Cusps     Cusps
	Ascendant float64
	Midheaven float64
	System    System
}

// EqualCusps returns cusp[i] = Ascendant + 30°·i
func EqualCusps(asc float64) Cusps {
	var c Cusps
	for i := range c {
		c[i] = orbit.Normalize(asc + float64(i)*30)
	}
	return c
}

// PorphyryCusps trisects the four quadrants bounded by the Ascendant, IC,
// Descendant and Midheaven
func PorphyryCusps(asc, mc float64) Cusps {
	ic := orbit.Normalize(mc + 180)
	desc := orbit.Normalize(asc + 180)

	var c Cusps
	trisect := func(start int, from, to float64) {
		arc := orbit.Normalize(to - from)
		for k := 0; k < 3; k++ {
			c[start+k] = orbit.Normalize(from + arc*float64(k)/3)
		}
	}
	trisect(0, asc, ic)
	trisect(3, ic, desc)
	trisect(6, desc, mc)
	trisect(9, mc, asc)

	return c
}

// Validate checks that the cusps are finite, normalized and strictly ordered
// around the circle, so that every longitude falls in exactly one house
func (c Cusps) Validate() error {
	var total float64
	for i, cusp := range c {
		if math.IsNaN(cusp) || math.IsInf(cusp, 0) || cusp < 0 || cusp >= 360 {
			return fmt.Errorf("cusp %d is %v, outside [0, 360)", i+1, cusp)
		}
		gap := orbit.Normalize(c[(i+1)%len(c)] - cusp)
		if gap == 0 {
			return fmt.Errorf("cusps %d and %d coincide at %.6f°", i+1, (i+1)%len(c)+1, cusp)
		}
		total += gap
	}
	// Out-of-order cusps make the forward gaps wrap more than once
	if math.Abs(total-360) > 1e-6 {
		return fmt.Errorf("cusps are not in circular order (forward gaps sum to %.6f°)", total)
	}
	return nil
}

// Approximate computes the approximate-mode house frame: mean sidereal time,
// mean obliquity, the tangent-form Ascendant, Midheaven at LST + 90° and
// equal houses
func Approximate(jm timescale.JulianMoment, latitude, longitude float64) Houses {
	lst := LocalSiderealTime(jm, longitude)
	eps := Obliquity(jm.Centuries())
	asc := Ascendant(lst, eps, latitude)

	return Houses{
		Cusps:     EqualCusps(asc),
		Ascendant: asc,
		Midheaven: ApproximateMidheaven(lst),
		System:    Equal,
	}
}
