package ephemeris

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chrissnell/natalchart/pkg/houses"
)

// Preference is the configured precision choice
type Preference int

const (
	PreferAuto          Preference = iota // high precision when its data loads, approximate otherwise
	PreferHighPrecision                   // high precision or fail startup
	PreferApproximate                     // never load external data
)

// String returns the preference name
func (p Preference) String() string {
	switch p {
	case PreferAuto:
		return "auto"
	case PreferHighPrecision:
		return "high-precision"
	case PreferApproximate:
		return "approximate"
	default:
		return "unknown"
	}
}

// ParsePreference parses a preference string. An empty string means auto.
func ParsePreference(s string) (Preference, error) {
	switch s {
	case "", "auto":
		return PreferAuto, nil
	case "high-precision", "high_precision", "highprecision":
		return PreferHighPrecision, nil
	case "approximate", "approx":
		return PreferApproximate, nil
	default:
		return PreferAuto, fmt.Errorf("unknown ephemeris mode %q: use auto, high-precision or approximate", s)
	}
}

// Options configure provider selection
type Options struct {
	Preference Preference
	DataPath   string // directory holding the VSOP87B.* files
}

// Selection is the provider capability chosen once at startup. Fallback is
// nil when Primary is already the approximate provider.
type Selection struct {
	Primary  Provider
	Fallback Provider
}

// Mode returns the primary provider's mode
func (s Selection) Mode() Mode {
	return s.Primary.Mode()
}

// HouseSystem returns the house division of the primary provider
func (s Selection) HouseSystem() houses.System {
	if s.Primary.Mode() == ModeHighPrecision {
		return houses.Porphyry
	}
	return houses.Equal
}

// Windows lists the validity windows of the selected providers
func (s Selection) Windows() map[string]Window {
	w := map[string]Window{ModeApproximate.String(): ApproximateWindow}
	if s.Primary.Mode() == ModeHighPrecision {
		w[ModeHighPrecision.String()] = VSOP87Window
		w["pluto"] = PlutoWindow
	}
	return w
}

// Select chooses the provider for the life of the process
func Select(opts Options, logger *zap.SugaredLogger) (Selection, error) {
	if opts.Preference == PreferApproximate {
		logger.Infow("using approximate ephemeris", "preference", opts.Preference.String())
		return Selection{Primary: NewApproximateProvider()}, nil
	}

	hp, err := NewHighPrecisionProvider(opts.DataPath)
	if err != nil {
		if opts.Preference == PreferHighPrecision {
			return Selection{}, fmt.Errorf("high-precision ephemeris unavailable: %w", err)
		}
		logger.Warnw("high-precision ephemeris unavailable; falling back to approximate model",
			"data_path", opts.DataPath, "error", err)
		return Selection{Primary: NewApproximateProvider()}, nil
	}

	logger.Infow("using high-precision ephemeris", "data_path", opts.DataPath)
	return Selection{Primary: hp, Fallback: NewApproximateProvider()}, nil
}
