package timescale

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

func TestToJulianMoment(t *testing.T) {
	tests := []struct {
		name     string
		moment   BirthMoment
		expected float64
	}{
		{
			name:     "J2000 epoch",
			moment:   BirthMoment{Year: 2000, Month: 1, Day: 1, Hour: 12},
			expected: 2451545.0,
		},
		{
			// Meeus example 7.a
			name:     "Sputnik launch day",
			moment:   BirthMoment{Year: 1957, Month: 10, Day: 4, Hour: 19, Minute: 26},
			expected: 2436116.3097222,
		},
		{
			name:     "January shifts into previous year",
			moment:   BirthMoment{Year: 1987, Month: 1, Day: 27},
			expected: 2446822.5,
		},
		{
			name:     "leap day",
			moment:   BirthMoment{Year: 1988, Month: 2, Day: 29},
			expected: 2447220.5,
		},
		{
			name:     "end of 1999",
			moment:   BirthMoment{Year: 1999, Month: 12, Day: 31, Hour: 23, Minute: 59},
			expected: 2451544.4993056,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jm, err := ToJulianMoment(tt.moment)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(jm.JD()-tt.expected) > 1e-6 {
				t.Errorf("JD = %.7f, expected %.7f", jm.JD(), tt.expected)
			}
		})
	}
}

func TestToJulianMomentMatchesMeeus(t *testing.T) {
	for year := 1; year <= 9999; year += 137 {
		for _, month := range []int{1, 2, 3, 7, 12} {
			m := BirthMoment{Year: year, Month: month, Day: 15, Hour: 6, Minute: 30}
			jm, err := ToJulianMoment(m)
			if err != nil {
				t.Fatalf("%d-%02d: unexpected error: %v", year, month, err)
			}
			expected := julian.CalendarGregorianToJD(year, month, 15+6.5/24)
			if math.Abs(jm.JD()-expected) > 1e-6 {
				t.Errorf("%d-%02d: JD = %.6f, meeus gives %.6f", year, month, jm.JD(), expected)
			}
		}
	}
}

func TestToJulianMomentRejectsOutOfRange(t *testing.T) {
	valid := BirthMoment{Year: 1990, Month: 6, Day: 15, Hour: 8, Minute: 30, Latitude: 40, Longitude: -74}

	tests := []struct {
		name   string
		modify func(*BirthMoment)
		field  string
	}{
		{"year zero", func(b *BirthMoment) { b.Year = 0 }, "year"},
		{"year too large", func(b *BirthMoment) { b.Year = 10000 }, "year"},
		{"month 13", func(b *BirthMoment) { b.Month = 13 }, "month"},
		{"february 29 in common year", func(b *BirthMoment) { b.Month = 2; b.Day = 29 }, "day"},
		{"april 31", func(b *BirthMoment) { b.Month = 4; b.Day = 31 }, "day"},
		{"hour 24", func(b *BirthMoment) { b.Hour = 24 }, "hour"},
		{"negative minute", func(b *BirthMoment) { b.Minute = -1 }, "minute"},
		{"latitude past pole", func(b *BirthMoment) { b.Latitude = 90.5 }, "latitude"},
		{"longitude past antimeridian", func(b *BirthMoment) { b.Longitude = -180.01 }, "longitude"},
		{"NaN latitude", func(b *BirthMoment) { b.Latitude = math.NaN() }, "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.modify(&m)

			_, err := ToJulianMoment(m)
			var rangeErr *InputRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("expected InputRangeError, got %v", err)
			}
			if rangeErr.Field != tt.field {
				t.Errorf("Field = %q, expected %q", rangeErr.Field, tt.field)
			}
		})
	}
}

func TestJulianMomentHelpers(t *testing.T) {
	jm := JulianMoment(2451545.25) // 2000-01-01 18:00 UT

	if got := jm.Midnight(); got != 2451544.5 {
		t.Errorf("Midnight = %.2f, expected 2451544.5", float64(got))
	}
	if got := jm.UTHours(); math.Abs(got-18) > 1e-9 {
		t.Errorf("UTHours = %.6f, expected 18", got)
	}
	if got := JulianMoment(J2000).Centuries(); got != 0 {
		t.Errorf("Centuries at J2000 = %v, expected 0", got)
	}
	if got := jm.Add(0.75); got != 2451546.0 {
		t.Errorf("Add = %.2f, expected 2451546.0", float64(got))
	}
}

func TestFromTime(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	local := time.Date(1990, 6, 15, 4, 30, 45, 0, loc)

	m := FromTime(local, 22.3, 114.2)
	expected := BirthMoment{Year: 1990, Month: 6, Day: 14, Hour: 20, Minute: 30, Latitude: 22.3, Longitude: 114.2}
	if m != expected {
		t.Errorf("FromTime = %+v, expected %+v", m, expected)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, days int
	}{
		{2000, 2, 29},
		{1900, 2, 28},
		{2024, 2, 29},
		{2023, 2, 28},
		{2023, 9, 30},
		{2023, 12, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.days {
			t.Errorf("DaysInMonth(%d, %d) = %d, expected %d", tt.year, tt.month, got, tt.days)
		}
	}
}
