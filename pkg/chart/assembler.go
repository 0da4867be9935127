package chart

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/natalchart/pkg/ephemeris"
	"github.com/chrissnell/natalchart/pkg/houses"
	"github.com/chrissnell/natalchart/pkg/timescale"
	"github.com/chrissnell/natalchart/pkg/zodiac"
)

// Assembler computes charts with the providers selected at startup. It holds
// no mutable state and is safe for concurrent use.
type Assembler struct {
	selection ephemeris.Selection
	logger    *zap.SugaredLogger
}

// NewAssembler creates an assembler around a provider selection
func NewAssembler(selection ephemeris.Selection, logger *zap.SugaredLogger) (*Assembler, error) {
	if selection.Primary == nil {
		return nil, fmt.Errorf("no primary ephemeris provider")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Assembler{selection: selection, logger: logger}, nil
}

// Mode returns the precision mode of the primary provider
func (a *Assembler) Mode() ephemeris.Mode {
	return a.selection.Mode()
}

// Compute builds the chart for a birth moment. An invalid birth moment is
// returned as an error wrapping *timescale.InputRangeError. A chart with no
// valid slot is returned together with ErrNoValidPositions.
func (a *Assembler) Compute(b timescale.BirthMoment) (*NatalChart, error) {
	jm, err := timescale.ToJulianMoment(b)
	if err != nil {
		return nil, fmt.Errorf("invalid birth moment: %w", err)
	}

	chart, compErr := a.computeWith(a.selection.Primary, b, jm)

	if compErr != nil && a.selection.Fallback != nil {
		a.logger.Warnw("primary ephemeris failed; recomputing chart with fallback",
			"primary", a.selection.Primary.Mode().String(),
			"fallback", a.selection.Fallback.Mode().String(),
			"jd", jm.JD(),
			"error", compErr)

		alt, _ := a.computeWith(a.selection.Fallback, b, jm)
		// Keep the primary chart when the fallback cannot do better, e.g. a
		// date beyond the approximate window where only Pluto failed
		if alt.Errors() <= chart.Errors() {
			alt.FallbackReason = compErr.Error()
			chart = alt
		} else {
			a.logger.Infow("fallback chart has more failed slots; keeping primary",
				"primary_errors", chart.Errors(), "fallback_errors", alt.Errors())
		}
	}

	chart.ID = uuid.NewString()

	for _, anomaly := range chart.Anomalies {
		a.logger.Warnw("chart anomaly", "chart_id", chart.ID, "anomaly", anomaly)
	}
	for _, s := range chart.Slots {
		switch {
		case s.Err != nil:
			a.logger.Warnw("slot failed", "chart_id", chart.ID, "slot", s.Name, "error", s.Err)
		case s.Position.Warning != nil:
			a.logger.Warnw("kepler iteration did not converge", "chart_id", chart.ID, "slot", s.Name,
				"iterations", s.Position.Warning.Iterations, "last_step", s.Position.Warning.LastStep)
		}
	}

	a.logger.Debugw("chart computed",
		"chart_id", chart.ID,
		"jd", jm.JD(),
		"mode", chart.PrecisionMode.String(),
		"status", string(chart.Status))

	if chart.Status == StatusFailure {
		return chart, fmt.Errorf("chart for JD %.5f: %w", jm.JD(), ErrNoValidPositions)
	}
	return chart, nil
}

// computeWith evaluates every slot with one provider. It returns the first
// ComputationError seen so the caller can decide on a fallback.
func (a *Assembler) computeWith(p ephemeris.Provider, b timescale.BirthMoment, jm timescale.JulianMoment) (*NatalChart, error) {
	chart := &NatalChart{
		BirthMoment:   b,
		JulianMoment:  jm,
		PrecisionMode: p.Mode(),
		Slots:         make([]Slot, 0, len(ephemeris.Bodies)+2),
	}

	var firstErr error
	note := func(err error) {
		var compErr *ephemeris.ComputationError
		if firstErr == nil && errors.As(err, &compErr) {
			firstErr = err
		}
	}

	frame, houseErr := p.Houses(jm, b.Latitude, b.Longitude)
	if houseErr == nil {
		if err := frame.Cusps.Validate(); err != nil {
			houseErr = &ephemeris.ComputationError{
				Subject: "houses",
				Mode:    p.Mode(),
				JD:      jm.JD(),
				Reason:  "provider returned malformed cusps",
				Err:     err,
			}
		}
	}
	if houseErr != nil {
		note(houseErr)
	} else {
		chart.HasHouses = true
		chart.Cusps = frame.Cusps
		chart.HouseSystem = frame.System
	}

	for _, body := range ephemeris.Bodies {
		lon, err := p.BodyLongitude(body, jm)
		if err != nil {
			note(err)
			chart.Slots = append(chart.Slots, Slot{Name: body.String(), Kind: KindBody, Err: err})
			continue
		}
		pos := chart.place(body.String(), lon.Degrees)
		pos.Speed = lon.Speed
		pos.Warning = lon.Warning
		chart.Slots = append(chart.Slots, Slot{Name: body.String(), Kind: KindBody, Position: pos})
	}

	for _, angle := range []struct {
		name string
		lon  float64
	}{
		{Ascendant, frame.Ascendant},
		{Midheaven, frame.Midheaven},
	} {
		if houseErr != nil {
			chart.Slots = append(chart.Slots, Slot{Name: angle.name, Kind: KindAngle, Err: houseErr})
			continue
		}
		chart.Slots = append(chart.Slots, Slot{Name: angle.name, Kind: KindAngle, Position: chart.place(angle.name, angle.lon)})
	}

	chart.Status = statusOf(chart.Slots)
	chart.Occupancy = occupancy(chart.Slots)

	return chart, firstErr
}

// place classifies a longitude and assigns its house
func (c *NatalChart) place(name string, longitude float64) *Position {
	p := zodiac.Classify(longitude)
	pos := &Position{
		Longitude:    p.Longitude,
		Sign:         p.Sign,
		DegreeInSign: p.DegreeInSign,
	}
	if !c.HasHouses {
		return pos
	}

	house, ok := zodiac.HouseOf(p.Longitude, c.Cusps)
	if !ok {
		c.Anomalies = append(c.Anomalies,
			fmt.Sprintf("%s at %.6f° matched no house; defaulted to house 1", name, p.Longitude))
	}
	pos.House = house
	return pos
}

// HouseSystemNote explains the house division for callers comparing charts
// across precision modes
func HouseSystemNote(system houses.System) string {
	switch system {
	case houses.Equal:
		return "equal houses from the Ascendant; approximate mode"
	case houses.Porphyry:
		return "porphyry quadrant houses; high-precision mode"
	default:
		return ""
	}
}
