package chart

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// houseDividers bound bins centred on the house numbers 1..12
var houseDividers = []float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5, 8.5, 9.5, 10.5, 11.5, 12.5}

// occupancy counts the bodies in each house. Angles and bodies without a
// house are not counted.
func occupancy(slots []Slot) Occupancy {
	var occ Occupancy

	x := make([]float64, 0, len(slots))
	for _, s := range slots {
		if s.Kind != KindBody || !s.OK() || s.Position.House == 0 {
			continue
		}
		x = append(x, float64(s.Position.House))
	}
	sort.Float64s(x)

	counts := stat.Histogram(nil, houseDividers, x, nil)
	for i, c := range counts {
		occ[i] = int(c)
	}
	return occ
}

// Total returns the number of counted bodies
func (o Occupancy) Total() int {
	n := 0
	for _, c := range o {
		n += c
	}
	return n
}

// Busiest returns the 1-based house with the most bodies, the lowest
// numbered on ties, or 0 when the chart has no house data
func (o Occupancy) Busiest() int {
	best, house := 0, 0
	for i, c := range o {
		if c > best {
			best, house = c, i+1
		}
	}
	return house
}
