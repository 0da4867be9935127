package chart

import (
	"math"

	"github.com/chrissnell/natalchart/pkg/ephemeris"
	"github.com/chrissnell/natalchart/pkg/lunar"
	"github.com/chrissnell/natalchart/pkg/timescale"
	"github.com/chrissnell/natalchart/pkg/zodiac"
)

// SlotView is the output record for one body or angle
type SlotView struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Sign       string   `json:"sign,omitempty"`
	House      int      `json:"house,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Position   string   `json:"position,omitempty"`
	Speed      float64  `json:"speed"`
	Retrograde bool     `json:"retrograde,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// View is the external representation of a chart
type View struct {
	ID             string                `json:"id"`
	BirthMoment    timescale.BirthMoment `json:"birth_moment"`
	JulianDay      float64               `json:"julian_day"`
	PrecisionMode  string                `json:"precision_mode"`
	HouseSystem    string                `json:"house_system,omitempty"`
	HouseNote      string                `json:"house_note,omitempty"`
	Status         string                `json:"status"`
	Bodies         []SlotView            `json:"bodies"`
	Angles         []SlotView            `json:"angles"`
	Cusps          []float64             `json:"cusps,omitempty"`
	Occupancy      []int                 `json:"occupancy,omitempty"`
	LunarPhase     *lunar.MoonPhase      `json:"lunar_phase,omitempty"`
	Warnings       []string              `json:"warnings,omitempty"`
	FallbackReason string                `json:"fallback_reason,omitempty"`
}

// View renders the chart for output. Longitudes are rounded to two decimals
// and speeds to four.
func (c *NatalChart) View() View {
	v := View{
		ID:             c.ID,
		BirthMoment:    c.BirthMoment,
		JulianDay:      c.JulianMoment.JD(),
		PrecisionMode:  c.PrecisionMode.String(),
		Status:         string(c.Status),
		Bodies:         []SlotView{},
		Angles:         []SlotView{},
		FallbackReason: c.FallbackReason,
	}

	if c.HasHouses {
		v.HouseSystem = string(c.HouseSystem)
		v.HouseNote = HouseSystemNote(c.HouseSystem)
		v.Cusps = make([]float64, len(c.Cusps))
		for i, cusp := range c.Cusps {
			v.Cusps[i] = zodiac.RoundLongitude(cusp)
		}
		v.Occupancy = append([]int(nil), c.Occupancy[:]...)
	}

	for _, s := range c.Slots {
		sv := SlotView{Name: s.Name, Kind: string(s.Kind)}
		if !s.OK() {
			sv.Error = "no position"
			if s.Err != nil {
				sv.Error = s.Err.Error()
			}
		} else {
			lon := zodiac.RoundLongitude(s.Position.Longitude)
			sv.Longitude = &lon
			sv.Sign = zodiac.Signs[s.Position.Sign]
			sv.House = s.Position.House
			sv.Position = zodiac.FormatDegrees(s.Position.DegreeInSign)
			sv.Speed = math.Round(s.Position.Speed*1e4) / 1e4
			sv.Retrograde = s.Kind == KindBody && s.Position.Speed < 0
			if s.Position.Warning != nil {
				v.Warnings = append(v.Warnings, s.Name+": "+s.Position.Warning.Error())
			}
		}

		if s.Kind == KindAngle {
			v.Angles = append(v.Angles, sv)
		} else {
			v.Bodies = append(v.Bodies, sv)
		}
	}

	if phase, ok := c.LunarPhase(); ok {
		v.LunarPhase = &phase
	}

	v.Warnings = append(v.Warnings, c.Anomalies...)

	return v
}

// LunarPhase is the phase of the Moon at birth, from the chart's own Sun and
// Moon. ok is false when either body has no position.
func (c *NatalChart) LunarPhase() (lunar.MoonPhase, bool) {
	sun, sunOK := c.Slot(ephemeris.Sun.String())
	moon, moonOK := c.Slot(ephemeris.Moon.String())
	if !sunOK || !moonOK || !sun.OK() || !moon.OK() {
		return lunar.MoonPhase{}, false
	}
	return lunar.FromLongitudes(sun.Position.Longitude, moon.Position.Longitude), true
}
