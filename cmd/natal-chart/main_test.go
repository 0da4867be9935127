package main

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/natalchart/pkg/chart"
	"github.com/chrissnell/natalchart/pkg/ephemeris"
	"github.com/chrissnell/natalchart/pkg/timescale"
)

func TestParseMoment(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 30, 0, 0, time.FixedZone("X", 3600))

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC), false},
		{"2000-01-01 12:00", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), false},
		{"2000-01-01T12:00", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), false},
		{"1985-07-13T16:45:00+02:00", time.Date(1985, 7, 13, 14, 45, 0, 0, time.UTC), false},
		{"1999-12-31", time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMoment(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMoment(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseMoment(%q) = %v, expected %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderChart(t *testing.T) {
	sel := ephemeris.Selection{Primary: ephemeris.NewApproximateProvider()}
	asm, err := chart.NewAssembler(sel, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nc, err := asm.Compute(timescale.BirthMoment{Year: 2000, Month: 1, Day: 1, Hour: 12, Latitude: 51.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := renderChart(nc.View())
	for _, want := range []string{"Bodies", "Sun", "Capricorn", "Pluto", "Ascendant", "House cusps", "Lunar phase", "approximate", "equal"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRender(t *testing.T) {
	tbl := newTable("Empty", "A", "B")
	if tbl.render() != "" {
		t.Errorf("empty table should render nothing")
	}

	tbl.addRow("short", "x")
	tbl.addRow("a much longer cell")
	lines := strings.Split(strings.TrimRight(tbl.render(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected title, header, divider and 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[4], "a much longer cell") {
		t.Errorf("row not rendered: %q", lines[4])
	}
}
