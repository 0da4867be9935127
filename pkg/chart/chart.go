// Package chart assembles body positions, angles and houses from a single
// ephemeris provider into a NatalChart.
package chart

import (
	"errors"

	"github.com/chrissnell/natalchart/pkg/ephemeris"
	"github.com/chrissnell/natalchart/pkg/houses"
	"github.com/chrissnell/natalchart/pkg/orbit"
	"github.com/chrissnell/natalchart/pkg/timescale"
)

// Status summarizes how many slots of a chart hold a valid position
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailure Status = "failure"
)

// ErrNoValidPositions is returned alongside a chart whose every slot failed
var ErrNoValidPositions = errors.New("no position could be computed")

// SlotKind distinguishes bodies from chart angles
type SlotKind string

const (
	KindBody  SlotKind = "body"
	KindAngle SlotKind = "angle"
)

// Angle slot names
const (
	Ascendant = "Ascendant"
	Midheaven = "Midheaven"
)

// Position is a resolved longitude
type Position struct {
	Longitude    float64 // [0, 360)
	Sign         int     // [0, 11]
	DegreeInSign float64 // [0, 30)
	Speed        float64 // degrees per day, 0 for angles
	House        int     // [1, 12], 0 when the chart has no houses
	Warning      *orbit.ConvergenceWarning
}

// Slot is the result for one body or angle. Exactly one of Position and
// Err is set.
type Slot struct {
	Name     string
	Kind     SlotKind
	Position *Position
	Err      error
}

// OK reports whether the slot holds a position
func (s Slot) OK() bool {
	return s.Err == nil && s.Position != nil
}

// Occupancy counts bodies per house; index 0 is house 1
type Occupancy [12]int

// NatalChart is a complete chart produced by one provider
type NatalChart struct {
	ID             string
	BirthMoment    timescale.BirthMoment
	JulianMoment   timescale.JulianMoment
	Slots          []Slot
	Cusps          houses.Cusps
	HasHouses      bool
	HouseSystem    houses.System
	PrecisionMode  ephemeris.Mode
	Status         Status
	Occupancy      Occupancy
	Anomalies      []string
	FallbackReason string
}

// Slot returns the slot with the given name
func (c *NatalChart) Slot(name string) (Slot, bool) {
	for _, s := range c.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

// Errors counts the failed slots
func (c *NatalChart) Errors() int {
	n := 0
	for _, s := range c.Slots {
		if !s.OK() {
			n++
		}
	}
	return n
}

func statusOf(slots []Slot) Status {
	failed := 0
	for _, s := range slots {
		if !s.OK() {
			failed++
		}
	}
	switch {
	case failed == 0:
		return StatusSuccess
	case failed == len(slots):
		return StatusFailure
	default:
		return StatusPartial
	}
}
