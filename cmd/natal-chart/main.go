package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chrissnell/natalchart/internal/log"
	"github.com/chrissnell/natalchart/pkg/chart"
	"github.com/chrissnell/natalchart/pkg/ephemeris"
	"github.com/chrissnell/natalchart/pkg/timescale"
)

var (
	at        string
	latitude  float64
	longitude float64
	mode      string
	dataPath  string
	jsonOut   bool
	debug     bool
)

var rootCmd = &cobra.Command{
	Use:   "natal-chart",
	Short: "Compute a natal chart for a UT birth moment",
	Long: `natal-chart prints the ten bodies, the Ascendant and Midheaven, the house
cusps and the lunar phase for a birth moment given in UT.

Examples:
  natal-chart --at "2000-01-01 12:00" --lat 51.5 --lon -0.13
  natal-chart --at 1985-07-13T16:45:00Z --lat 40.7 --lon -74.0 --mode approximate --json`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runChart,
}

func init() {
	rootCmd.Flags().StringVar(&at, "at", "", "UT birth moment, RFC3339 or \"2006-01-02 15:04\" (default: now)")
	rootCmd.Flags().Float64Var(&latitude, "lat", 0, "Latitude in degrees, north positive")
	rootCmd.Flags().Float64Var(&longitude, "lon", 0, "Longitude in degrees, east positive")
	rootCmd.Flags().StringVar(&mode, "mode", "auto", "Ephemeris: auto, high-precision or approximate")
	rootCmd.Flags().StringVar(&dataPath, "data-path", "", "Directory containing the VSOP87B.* files")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "Print the chart as JSON")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Turn on debugging output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runChart(cmd *cobra.Command, args []string) error {
	if err := log.Init(debug); err != nil {
		return err
	}
	defer log.Sync()

	t, err := parseMoment(at, time.Now())
	if err != nil {
		return err
	}

	pref, err := ephemeris.ParsePreference(mode)
	if err != nil {
		return err
	}
	sel, err := ephemeris.Select(ephemeris.Options{Preference: pref, DataPath: dataPath}, log.Component("ephemeris"))
	if err != nil {
		return err
	}
	asm, err := chart.NewAssembler(sel, log.Component("chart"))
	if err != nil {
		return err
	}

	nc, chartErr := asm.Compute(timescale.FromTime(t, latitude, longitude))
	if chartErr != nil && !errors.Is(chartErr, chart.ErrNoValidPositions) {
		return chartErr
	}

	view := nc.View()
	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, renderChart(view))
	}

	return chartErr
}

var momentLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseMoment reads a UT moment; layouts without a zone are taken as UTC
func parseMoment(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now.UTC(), nil
	}
	for _, layout := range momentLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse birth moment %q: use RFC3339 or \"2006-01-02 15:04\"", s)
}
