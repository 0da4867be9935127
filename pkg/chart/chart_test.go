package chart

import (
	"errors"
	"math"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/chrissnell/natalchart/pkg/ephemeris"
	"github.com/chrissnell/natalchart/pkg/houses"
	"github.com/chrissnell/natalchart/pkg/timescale"
)

// stubProvider wraps the approximate provider and injects failures
type stubProvider struct {
	base       ephemeris.Provider
	mode       ephemeris.Mode
	failBodies map[ephemeris.Body]bool
	failAll    bool
	failHouses bool
	cusps      *houses.Cusps
}

func newStub(mode ephemeris.Mode) *stubProvider {
	return &stubProvider{base: ephemeris.NewApproximateProvider(), mode: mode, failBodies: map[ephemeris.Body]bool{}}
}

func (s *stubProvider) Mode() ephemeris.Mode { return s.mode }

func (s *stubProvider) BodyLongitude(body ephemeris.Body, jm timescale.JulianMoment) (ephemeris.Longitude, error) {
	if s.failAll || s.failBodies[body] {
		return ephemeris.Longitude{}, &ephemeris.ComputationError{Subject: body.String(), Mode: s.mode, JD: jm.JD(), Reason: "injected fault"}
	}
	return s.base.BodyLongitude(body, jm)
}

func (s *stubProvider) Houses(jm timescale.JulianMoment, lat, lon float64) (houses.Houses, error) {
	if s.failAll || s.failHouses {
		return houses.Houses{}, &ephemeris.ComputationError{Subject: "houses", Mode: s.mode, JD: jm.JD(), Reason: "injected fault"}
	}
	h, err := s.base.Houses(jm, lat, lon)
	if err == nil && s.cusps != nil {
		h.Cusps = *s.cusps
	}
	return h, err
}

var j2000Noon = timescale.BirthMoment{Year: 2000, Month: 1, Day: 1, Hour: 12, Minute: 0, Latitude: 0, Longitude: 0}

func newAssembler(t *testing.T, primary, fallback ephemeris.Provider) *Assembler {
	t.Helper()
	a, err := NewAssembler(ephemeris.Selection{Primary: primary, Fallback: fallback}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func TestComputeRegressionVector(t *testing.T) {
	a := newAssembler(t, ephemeris.NewApproximateProvider(), nil)

	chart, err := a.Compute(j2000Noon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if chart.Status != StatusSuccess {
		t.Errorf("Status = %v, expected success", chart.Status)
	}
	if chart.PrecisionMode != ephemeris.ModeApproximate {
		t.Errorf("PrecisionMode = %v, expected approximate", chart.PrecisionMode)
	}
	if len(chart.Slots) != 12 {
		t.Fatalf("expected 12 slots, got %d", len(chart.Slots))
	}
	if chart.ID == "" {
		t.Errorf("expected a chart ID")
	}

	sun, ok := chart.Slot("Sun")
	if !ok || !sun.OK() {
		t.Fatalf("missing Sun slot: %+v", sun)
	}
	if math.Abs(sun.Position.Longitude-280.3) > 0.2 {
		t.Errorf("Sun longitude = %.4f, expected ≈280.3", sun.Position.Longitude)
	}
	if sun.Position.Sign != 9 {
		t.Errorf("Sun sign = %d, expected 9 (Capricorn)", sun.Position.Sign)
	}
	if math.Abs(sun.Position.DegreeInSign-10.3) > 0.2 {
		t.Errorf("Sun degree in sign = %.4f, expected ≈10.3", sun.Position.DegreeInSign)
	}

	for _, s := range chart.Slots {
		if s.Position.House < 1 || s.Position.House > 12 {
			t.Errorf("%s house = %d, expected [1, 12]", s.Name, s.Position.House)
		}
		if s.Kind == KindAngle && s.Position.Speed != 0 {
			t.Errorf("%s speed = %v, expected 0", s.Name, s.Position.Speed)
		}
	}

	asc, _ := chart.Slot(Ascendant)
	if asc.Position.House != 1 {
		t.Errorf("Ascendant house = %d, expected 1", asc.Position.House)
	}
	if len(chart.Anomalies) != 0 {
		t.Errorf("unexpected anomalies: %v", chart.Anomalies)
	}
}

func TestComputePartialFailure(t *testing.T) {
	stub := newStub(ephemeris.ModeApproximate)
	stub.failBodies[ephemeris.Saturn] = true
	a := newAssembler(t, stub, nil)

	chart, err := a.Compute(j2000Noon)
	if err != nil {
		t.Fatalf("partial chart should not return an error: %v", err)
	}
	if chart.Status != StatusPartial {
		t.Errorf("Status = %v, expected partial", chart.Status)
	}

	valid, failed := 0, 0
	for _, s := range chart.Slots {
		if s.Kind != KindBody {
			continue
		}
		if s.OK() {
			valid++
		} else {
			failed++
			if s.Name != "Saturn" {
				t.Errorf("unexpected failed slot %s", s.Name)
			}
			var compErr *ephemeris.ComputationError
			if !errors.As(s.Err, &compErr) {
				t.Errorf("expected ComputationError in slot, got %v", s.Err)
			}
		}
	}
	if valid != 9 || failed != 1 {
		t.Errorf("valid = %d, failed = %d; expected 9 and 1", valid, failed)
	}
	if chart.Occupancy.Total() != 9 {
		t.Errorf("occupancy total = %d, expected 9", chart.Occupancy.Total())
	}
}

func TestComputeFallsBackWholeChart(t *testing.T) {
	primary := newStub(ephemeris.ModeHighPrecision)
	primary.failBodies[ephemeris.Pluto] = true
	a := newAssembler(t, primary, ephemeris.NewApproximateProvider())

	chart, err := a.Compute(j2000Noon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chart.PrecisionMode != ephemeris.ModeApproximate {
		t.Errorf("PrecisionMode = %v, expected approximate after fallback", chart.PrecisionMode)
	}
	if chart.Status != StatusSuccess {
		t.Errorf("Status = %v, expected success", chart.Status)
	}
	if chart.FallbackReason == "" {
		t.Errorf("expected a fallback reason")
	}
	if chart.HouseSystem != houses.Equal {
		t.Errorf("HouseSystem = %v, expected the fallback provider's equal houses", chart.HouseSystem)
	}
}

func TestComputeKeepsPrimaryWhenFallbackIsWorse(t *testing.T) {
	primary := newStub(ephemeris.ModeHighPrecision)
	primary.failBodies[ephemeris.Pluto] = true
	fallback := newStub(ephemeris.ModeApproximate)
	fallback.failAll = true
	a := newAssembler(t, primary, fallback)

	chart, err := a.Compute(j2000Noon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chart.PrecisionMode != ephemeris.ModeHighPrecision {
		t.Errorf("PrecisionMode = %v, expected high-precision", chart.PrecisionMode)
	}
	if chart.Status != StatusPartial || chart.Errors() != 1 {
		t.Errorf("Status = %v with %d errors, expected partial with 1", chart.Status, chart.Errors())
	}
	if chart.FallbackReason != "" {
		t.Errorf("unexpected fallback reason %q", chart.FallbackReason)
	}
}

func TestComputeTotalFailure(t *testing.T) {
	stub := newStub(ephemeris.ModeApproximate)
	stub.failAll = true
	a := newAssembler(t, stub, nil)

	chart, err := a.Compute(j2000Noon)
	if !errors.Is(err, ErrNoValidPositions) {
		t.Fatalf("expected ErrNoValidPositions, got %v", err)
	}
	if chart == nil || chart.Status != StatusFailure {
		t.Fatalf("expected a failure chart, got %+v", chart)
	}
	if chart.Errors() != 12 {
		t.Errorf("Errors() = %d, expected 12", chart.Errors())
	}
}

func TestComputeHouseFailureKeepsBodies(t *testing.T) {
	stub := newStub(ephemeris.ModeApproximate)
	stub.failHouses = true
	a := newAssembler(t, stub, nil)

	chart, err := a.Compute(j2000Noon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chart.HasHouses {
		t.Errorf("expected no houses")
	}
	if chart.Status != StatusPartial {
		t.Errorf("Status = %v, expected partial", chart.Status)
	}
	for _, s := range chart.Slots {
		switch s.Kind {
		case KindAngle:
			if s.OK() {
				t.Errorf("%s should have failed with the house frame", s.Name)
			}
		case KindBody:
			if !s.OK() || s.Position.House != 0 {
				t.Errorf("%s should be valid without a house: %+v", s.Name, s)
			}
		}
	}
	if chart.Occupancy.Total() != 0 {
		t.Errorf("occupancy total = %d, expected 0", chart.Occupancy.Total())
	}
}

func TestComputeRejectsMalformedCusps(t *testing.T) {
	stub := newStub(ephemeris.ModeApproximate)
	stub.cusps = &houses.Cusps{}
	a := newAssembler(t, stub, nil)

	chart, err := a.Compute(j2000Noon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	asc, _ := chart.Slot(Ascendant)
	var compErr *ephemeris.ComputationError
	if !errors.As(asc.Err, &compErr) || compErr.Subject != "houses" {
		t.Errorf("expected houses ComputationError, got %v", asc.Err)
	}
}

func TestComputeInputError(t *testing.T) {
	a := newAssembler(t, ephemeris.NewApproximateProvider(), nil)

	bad := j2000Noon
	bad.Latitude = 91
	chart, err := a.Compute(bad)
	if chart != nil {
		t.Errorf("expected no chart for invalid input")
	}
	var rangeErr *timescale.InputRangeError
	if !errors.As(err, &rangeErr) || rangeErr.Field != "latitude" {
		t.Errorf("expected latitude InputRangeError, got %v", err)
	}
}

func TestComputeIsPure(t *testing.T) {
	a := newAssembler(t, ephemeris.NewApproximateProvider(), nil)
	b := timescale.BirthMoment{Year: 1987, Month: 4, Day: 10, Hour: 19, Minute: 21, Latitude: 38.92, Longitude: -77.04}

	first, err := a.Compute(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]*NatalChart, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = a.Compute(b)
		}(i)
	}
	wg.Wait()

	for i, c := range results {
		if c.Cusps != first.Cusps {
			t.Errorf("run %d: cusps differ", i)
		}
		for j, s := range c.Slots {
			if *s.Position != *first.Slots[j].Position {
				t.Errorf("run %d: %s differs: %+v vs %+v", i, s.Name, *s.Position, *first.Slots[j].Position)
			}
		}
	}
}

func TestNewAssemblerRequiresPrimary(t *testing.T) {
	if _, err := NewAssembler(ephemeris.Selection{}, nil); err == nil {
		t.Errorf("expected error without a primary provider")
	}
}

func TestOccupancy(t *testing.T) {
	slot := func(kind SlotKind, house int) Slot {
		return Slot{Name: "x", Kind: kind, Position: &Position{House: house}}
	}
	slots := []Slot{
		slot(KindBody, 12),
		slot(KindBody, 1),
		slot(KindBody, 12),
		slot(KindBody, 5),
		slot(KindBody, 0),
		slot(KindAngle, 1),
		{Name: "failed", Kind: KindBody, Err: errors.New("boom")},
	}

	occ := occupancy(slots)
	expected := Occupancy{1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 2}
	if occ != expected {
		t.Errorf("occupancy = %v, expected %v", occ, expected)
	}
	if occ.Total() != 4 {
		t.Errorf("Total() = %d, expected 4", occ.Total())
	}
	if occ.Busiest() != 12 {
		t.Errorf("Busiest() = %d, expected 12", occ.Busiest())
	}
	if (Occupancy{}).Busiest() != 0 {
		t.Errorf("empty occupancy should have no busiest house")
	}
}

func TestView(t *testing.T) {
	stub := newStub(ephemeris.ModeApproximate)
	stub.failBodies[ephemeris.Neptune] = true
	a := newAssembler(t, stub, nil)

	chart, err := a.Compute(j2000Noon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := chart.View()

	if v.PrecisionMode != "approximate" || v.HouseSystem != "equal" || v.Status != "partial" {
		t.Errorf("unexpected header: mode %q, system %q, status %q", v.PrecisionMode, v.HouseSystem, v.Status)
	}
	if len(v.Bodies) != 10 || len(v.Angles) != 2 {
		t.Fatalf("expected 10 bodies and 2 angles, got %d and %d", len(v.Bodies), len(v.Angles))
	}
	if len(v.Cusps) != 12 || len(v.Occupancy) != 12 {
		t.Errorf("expected 12 cusps and occupancy bins")
	}

	for _, b := range v.Bodies {
		if b.Name == "Neptune" {
			if b.Error == "" || b.Longitude != nil {
				t.Errorf("Neptune should be an error slot: %+v", b)
			}
			continue
		}
		if b.Longitude == nil || b.Sign == "" || b.Position == "" {
			t.Errorf("%s incomplete: %+v", b.Name, b)
			continue
		}
		if r := math.Round(*b.Longitude*100) / 100; r != *b.Longitude {
			t.Errorf("%s longitude %v not rounded to 2 decimals", b.Name, *b.Longitude)
		}
	}

	sun := v.Bodies[0]
	if sun.Name != "Sun" || sun.Sign != "Capricorn" || sun.Position != "10°22'" && sun.Position != "10°23'" {
		t.Errorf("unexpected Sun view: %+v", sun)
	}
	for _, an := range v.Angles {
		if an.Speed != 0 || an.Retrograde {
			t.Errorf("%s should have zero speed: %+v", an.Name, an)
		}
	}

	// Moon near 223°, Sun near 280°: a waning crescent
	if v.LunarPhase == nil || v.LunarPhase.PhaseName != "Waning Crescent" {
		t.Errorf("unexpected lunar phase: %+v", v.LunarPhase)
	}
}

func TestLunarPhaseNeedsSunAndMoon(t *testing.T) {
	stub := newStub(ephemeris.ModeApproximate)
	stub.failBodies[ephemeris.Moon] = true
	a := newAssembler(t, stub, nil)

	chart, err := a.Compute(j2000Noon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := chart.LunarPhase(); ok {
		t.Errorf("lunar phase should be unavailable without the Moon")
	}
	if chart.View().LunarPhase != nil {
		t.Errorf("view should omit the lunar phase")
	}
}
