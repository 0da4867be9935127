package ephemeris

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	pp "github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/pluto"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"

	"github.com/chrissnell/natalchart/pkg/houses"
	"github.com/chrissnell/natalchart/pkg/orbit"
	"github.com/chrissnell/natalchart/pkg/timescale"
)

var (
	// VSOP87Window is the published validity of the VSOP87 series,
	// 4000 BC to 8000 AD
	VSOP87Window = windowFromCenturies(-60, 60)
	// PlutoWindow is the span fitted by the Meeus ch. 37 Pluto series,
	// 1885-01-01 to 2100-01-01
	PlutoWindow = Window{Start: 2409542.5, End: 2488069.5}
)

// aberration constant for the Sun, degrees at 1 AU
const solarAberration = 20.4898 / 3600

var vsopBodies = map[Body]int{
	Mercury: pp.Mercury,
	Venus:   pp.Venus,
	Mars:    pp.Mars,
	Jupiter: pp.Jupiter,
	Saturn:  pp.Saturn,
	Uranus:  pp.Uranus,
	Neptune: pp.Neptune,
}

// HighPrecisionProvider computes apparent positions with the full VSOP87
// planetary theory, the Meeus lunar and Pluto series and IAU 1980 nutation,
// and Porphyry houses from the exact Ascendant and Midheaven. The VSOP87
// files are loaded once from local disk; no lookups happen per call.
// TT - UT is neglected, which shifts the Moon by under an arcminute for
// modern dates.
type HighPrecisionProvider struct {
	earth   *pp.V87Planet
	planets map[Body]*pp.V87Planet
}

// NewHighPrecisionProvider loads the VSOP87 files (VSOP87B.ear, VSOP87B.mer, ...)
// from dataPath. It fails if any file is missing or unreadable.
func NewHighPrecisionProvider(dataPath string) (*HighPrecisionProvider, error) {
	if dataPath == "" {
		return nil, fmt.Errorf("no VSOP87 data path configured")
	}

	earth, err := pp.LoadPlanetPath(pp.Earth, dataPath)
	if err != nil {
		return nil, fmt.Errorf("error loading VSOP87 earth series from %s: %w", dataPath, err)
	}

	p := &HighPrecisionProvider{
		earth:   earth,
		planets: make(map[Body]*pp.V87Planet, len(vsopBodies)),
	}
	for body, ibody := range vsopBodies {
		planet, err := pp.LoadPlanetPath(ibody, dataPath)
		if err != nil {
			return nil, fmt.Errorf("error loading VSOP87 series for %v from %s: %w", body, dataPath, err)
		}
		p.planets[body] = planet
	}

	return p, nil
}

// Mode returns ModeHighPrecision
func (p *HighPrecisionProvider) Mode() Mode {
	return ModeHighPrecision
}

// BodyLongitude returns the apparent geocentric longitude and daily motion
func (p *HighPrecisionProvider) BodyLongitude(body Body, jm timescale.JulianMoment) (Longitude, error) {
	if err := p.checkWindow(body, jm); err != nil {
		return Longitude{}, err
	}
	if body != Moon && p.earth == nil {
		return Longitude{}, &ComputationError{Subject: body.String(), Mode: ModeHighPrecision, JD: jm.JD(), Reason: "no VSOP87 earth series loaded"}
	}
	if body != Sun && body != Moon && body != Pluto {
		if _, ok := p.planets[body]; !ok {
			return Longitude{}, &ComputationError{Subject: body.String(), Mode: ModeHighPrecision, JD: jm.JD(), Reason: "no VSOP87 series loaded"}
		}
	}

	lon := p.apparentLongitude(body, jm)
	if math.IsNaN(lon) {
		return Longitude{}, &ComputationError{Subject: body.String(), Mode: ModeHighPrecision, JD: jm.JD(), Reason: "series evaluated to NaN"}
	}

	speed := dailyMotion(func(at timescale.JulianMoment) float64 {
		return p.apparentLongitude(body, at)
	}, jm)

	return Longitude{Degrees: lon, Speed: speed}, nil
}

func (p *HighPrecisionProvider) checkWindow(body Body, jm timescale.JulianMoment) error {
	window := VSOP87Window
	if body == Pluto {
		window = PlutoWindow
	}
	// The speed difference samples half a day either side
	if !window.Contains(jm.Add(-speedStep)) || !window.Contains(jm.Add(speedStep)) {
		return &ComputationError{
			Subject: body.String(),
			Mode:    ModeHighPrecision,
			JD:      jm.JD(),
			Reason:  fmt.Sprintf("outside the validity window [%.1f, %.1f)", window.Start, window.End),
		}
	}
	return nil
}

func (p *HighPrecisionProvider) apparentLongitude(body Body, jm timescale.JulianMoment) float64 {
	jde := jm.JD()
	dpsi, _ := nutation.Nutation(jde)

	var lon float64
	switch body {
	case Sun:
		L, _, R := p.earth.Position(jde)
		lon = L.Deg() + 180 - solarAberration/R
	case Moon:
		lambda, _, _ := moonposition.Position(jde)
		lon = lambda.Deg()
	case Pluto:
		// The Pluto series is referred to J2000; precess to the equinox of date
		l, b, r := pluto.Heliocentric(jde)
		L0, B0, R0 := p.earth.Position2000(jde)
		lon = geocentricLongitude(l, b, r, L0, B0, R0) + orbit.GeneralPrecession*jm.Centuries()
	default:
		L, B, R := p.planets[body].Position(jde)
		L0, B0, R0 := p.earth.Position(jde)
		lon = geocentricLongitude(L, B, R, L0, B0, R0)
	}

	return orbit.Normalize(lon + dpsi.Deg())
}

// geocentricLongitude differences two heliocentric spherical positions
func geocentricLongitude(L, B unit.Angle, R float64, L0, B0 unit.Angle, R0 float64) float64 {
	sL, cL := L.Sincos()
	_, cB := B.Sincos()
	sL0, cL0 := L0.Sincos()
	_, cB0 := B0.Sincos()

	x := R*cB*cL - R0*cB0*cL0
	y := R*cB*sL - R0*cB0*sL0

	return math.Atan2(y, x) * 180 / math.Pi
}

// Houses returns Porphyry houses from the apparent sidereal time and the
// true obliquity. Inside the polar circles the Ascendant is replaced by its
// opposite point whenever it falls west of the meridian.
func (p *HighPrecisionProvider) Houses(jm timescale.JulianMoment, latitude, longitude float64) (houses.Houses, error) {
	if !VSOP87Window.Contains(jm) {
		return houses.Houses{}, &ComputationError{
			Subject: "houses",
			Mode:    ModeHighPrecision,
			JD:      jm.JD(),
			Reason:  "outside the VSOP87 validity window",
		}
	}

	jd := jm.JD()
	_, deps := nutation.Nutation(jd)
	eps := nutation.MeanObliquity(jd).Deg() + deps.Deg()
	ramc := orbit.Normalize(sidereal.Apparent(jd).Angle().Deg() + longitude)

	asc := houses.ExactAscendant(ramc, eps, latitude)
	mc := houses.ExactMidheaven(ramc, eps)

	// Inside the polar circles the ecliptic point on the eastern horizon can
	// lie west of the meridian. Porphyry needs the Ascendant within 180° ahead
	// of the MC, so take the opposite horizon point.
	if orbit.Normalize(asc-mc) >= 180 {
		asc = orbit.Normalize(asc + 180)
	}

	cusps := houses.PorphyryCusps(asc, mc)
	if err := cusps.Validate(); err != nil {
		return houses.Houses{}, &ComputationError{
			Subject: "houses",
			Mode:    ModeHighPrecision,
			JD:      jd,
			Reason:  "porphyry houses undefined for this horizon",
			Err:     err,
		}
	}

	return houses.Houses{
		Cusps:     cusps,
		Ascendant: asc,
		Midheaven: mc,
		System:    houses.Porphyry,
	}, nil
}
