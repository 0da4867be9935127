// Package timescale converts calendar birth moments into Julian Day numbers,
// the continuous time scale used by every downstream position calculation.
// Inputs must already be expressed in UT; no timezone offset is applied here.
package timescale

import (
	"fmt"
	"math"
	"time"
)

// J2000 is the Julian Day of the J2000.0 epoch (2000-01-01 12:00 TT)
const J2000 = 2451545.0

// DaysPerCentury is the length of a Julian century in days
const DaysPerCentury = 36525.0

// Supported calendar span. Years outside it are rejected rather than clamped.
const (
	MinYear = 1
	MaxYear = 9999
)

// BirthMoment is a UT calendar moment at a geographic location.
// Longitude is east positive.
type BirthMoment struct {
	Year      int     `json:"year" yaml:"year"`
	Month     int     `json:"month" yaml:"month"`
	Day       int     `json:"day" yaml:"day"`
	Hour      int     `json:"hour" yaml:"hour"`
	Minute    int     `json:"minute" yaml:"minute"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// JulianMoment is a Julian Day number including the fraction of the day
type JulianMoment float64

// InputRangeError reports a BirthMoment field outside its supported domain
type InputRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *InputRangeError) Error() string {
	return fmt.Sprintf("%s %v out of range [%v, %v]", e.Field, e.Value, e.Min, e.Max)
}

// FromTime builds a BirthMoment from a time.Time, converting it to UTC first.
// Seconds are truncated.
func FromTime(t time.Time, latitude, longitude float64) BirthMoment {
	t = t.UTC()
	return BirthMoment{
		Year:      t.Year(),
		Month:     int(t.Month()),
		Day:       t.Day(),
		Hour:      t.Hour(),
		Minute:    t.Minute(),
		Latitude:  latitude,
		Longitude: longitude,
	}
}

// Validate checks every field of the moment and returns the first violation
func (b BirthMoment) Validate() error {
	if b.Year < MinYear || b.Year > MaxYear {
		return rangeErr("year", float64(b.Year), MinYear, MaxYear)
	}
	if b.Month < 1 || b.Month > 12 {
		return rangeErr("month", float64(b.Month), 1, 12)
	}
	if dim := DaysInMonth(b.Year, b.Month); b.Day < 1 || b.Day > dim {
		return rangeErr("day", float64(b.Day), 1, float64(dim))
	}
	if b.Hour < 0 || b.Hour > 23 {
		return rangeErr("hour", float64(b.Hour), 0, 23)
	}
	if b.Minute < 0 || b.Minute > 59 {
		return rangeErr("minute", float64(b.Minute), 0, 59)
	}
	if math.IsNaN(b.Latitude) || b.Latitude < -90 || b.Latitude > 90 {
		return rangeErr("latitude", b.Latitude, -90, 90)
	}
	if math.IsNaN(b.Longitude) || b.Longitude < -180 || b.Longitude > 180 {
		return rangeErr("longitude", b.Longitude, -180, 180)
	}
	return nil
}

func rangeErr(field string, value, min, max float64) *InputRangeError {
	return &InputRangeError{Field: field, Value: value, Min: min, Max: max}
}

// ToJulianMoment converts a validated BirthMoment to a Julian Day using the
// proleptic Gregorian calendar (Meeus, Astronomical Algorithms, ch. 7).
func ToJulianMoment(b BirthMoment) (JulianMoment, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}

	y, m := b.Year, b.Month
	// January and February count as months 13 and 14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	a := math.Floor(float64(y) / 100)
	century := 2 - a + math.Floor(a/4)

	dayFraction := (float64(b.Hour) + float64(b.Minute)/60.0) / 24.0

	jd := math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(b.Day) + century - 1524.5 + dayFraction

	return JulianMoment(jd), nil
}

// DaysInMonth returns the length of a Gregorian month
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// IsLeapYear reports whether year is a Gregorian leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// JD returns the moment as a plain Julian Day number
func (j JulianMoment) JD() float64 {
	return float64(j)
}

// Centuries returns Julian centuries since J2000.0
func (j JulianMoment) Centuries() float64 {
	return (float64(j) - J2000) / DaysPerCentury
}

// Midnight returns the Julian Day of the preceding 0h UT
func (j JulianMoment) Midnight() JulianMoment {
	return JulianMoment(math.Floor(float64(j)-0.5) + 0.5)
}

// UTHours returns the hours elapsed since the preceding 0h UT
func (j JulianMoment) UTHours() float64 {
	return (float64(j) - float64(j.Midnight())) * 24.0
}

// Add returns the moment shifted by the given number of days
func (j JulianMoment) Add(days float64) JulianMoment {
	return JulianMoment(float64(j) + days)
}
