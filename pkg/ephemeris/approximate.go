package ephemeris

import (
	"fmt"

	"github.com/chrissnell/natalchart/pkg/houses"
	"github.com/chrissnell/natalchart/pkg/orbit"
	"github.com/chrissnell/natalchart/pkg/timescale"
)

// ApproximateWindow is where the JPL approximate elements remain usable,
// 3000 BC to 3000 AD
var ApproximateWindow = windowFromCenturies(-50, 10)

var planetsByBody = map[Body]orbit.Planet{
	Mercury: orbit.Mercury,
	Venus:   orbit.Venus,
	Mars:    orbit.Mars,
	Jupiter: orbit.Jupiter,
	Saturn:  orbit.Saturn,
	Uranus:  orbit.Uranus,
	Neptune: orbit.Neptune,
	Pluto:   orbit.Pluto,
}

// ApproximateProvider evaluates the low-order orbital model and equal houses.
// It needs no external data and is always available.
type ApproximateProvider struct {
	window Window
}

// NewApproximateProvider creates the fallback provider
func NewApproximateProvider() *ApproximateProvider {
	return &ApproximateProvider{window: ApproximateWindow}
}

// Mode returns ModeApproximate
func (p *ApproximateProvider) Mode() Mode {
	return ModeApproximate
}

// BodyLongitude returns the model longitude and a one-day centred speed
func (p *ApproximateProvider) BodyLongitude(body Body, jm timescale.JulianMoment) (Longitude, error) {
	if !p.window.Contains(jm) {
		return Longitude{}, p.outOfWindow(body.String(), jm)
	}

	lon, warn, err := p.longitude(body, jm)
	if err != nil {
		return Longitude{}, &ComputationError{Subject: body.String(), Mode: ModeApproximate, JD: jm.JD(), Reason: "model evaluation failed", Err: err}
	}

	speed := dailyMotion(func(at timescale.JulianMoment) float64 {
		l, _, _ := p.longitude(body, at)
		return l
	}, jm)

	return Longitude{Degrees: lon, Speed: speed, Warning: warn}, nil
}

func (p *ApproximateProvider) longitude(body Body, jm timescale.JulianMoment) (float64, *orbit.ConvergenceWarning, error) {
	T := jm.Centuries()

	switch body {
	case Sun:
		return orbit.SunLongitude(T), nil, nil
	case Moon:
		return orbit.MoonLongitude(T), nil, nil
	}

	planet, ok := planetsByBody[body]
	if !ok {
		return 0, nil, fmt.Errorf("no orbital model for %v", body)
	}
	pos, err := orbit.PlanetLongitude(planet, T)
	if err != nil {
		return 0, nil, err
	}
	return pos.Longitude, pos.Warning, nil
}

// Houses returns equal houses from the tangent-form Ascendant
func (p *ApproximateProvider) Houses(jm timescale.JulianMoment, latitude, longitude float64) (houses.Houses, error) {
	if !p.window.Contains(jm) {
		return houses.Houses{}, p.outOfWindow("houses", jm)
	}
	return houses.Approximate(jm, latitude, longitude), nil
}

func (p *ApproximateProvider) outOfWindow(subject string, jm timescale.JulianMoment) error {
	return &ComputationError{
		Subject: subject,
		Mode:    ModeApproximate,
		JD:      jm.JD(),
		Reason:  fmt.Sprintf("outside the approximate model window [%.1f, %.1f)", p.window.Start, p.window.End),
	}
}
