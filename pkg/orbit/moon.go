package orbit

// MoonArguments are the fundamental lunar arguments of Meeus ch. 47
type MoonArguments struct {
	MeanLongitude float64 // L'
	MeanAnomaly   float64 // M'
	Latitude      float64 // F, argument of latitude
	Elongation    float64 // D, mean elongation from the Sun
}

// NewMoonArguments evaluates the lunar argument polynomials at T
func NewMoonArguments(T float64) MoonArguments {
	T2 := T * T
	T3 := T2 * T
	T4 := T3 * T

	return MoonArguments{
		MeanLongitude: Normalize(218.3164477 + 481267.88123421*T - 0.0015786*T2 + T3/538841 - T4/65194000),
		MeanAnomaly:   Normalize(134.9633964 + 477198.8675055*T + 0.0087414*T2 + T3/69699 - T4/14712000),
		Latitude:      Normalize(93.2720950 + 483202.0175233*T - 0.0036539*T2 - T3/3526000 + T4/863310000),
		Elongation:    Normalize(297.8501921 + 445267.1114034*T - 0.0018819*T2 + T3/545868 - T4/113065000),
	}
}

// moonTerm is one periodic longitude term: amplitude·sin(d·D + m·M + mp·M' + f·F)
type moonTerm struct {
	d, m, mp, f float64
	amplitude   float64
}

// The six largest longitude terms of Meeus Table 47.A
var moonLongitudeTerms = []moonTerm{
	{d: 0, m: 0, mp: 1, f: 0, amplitude: 6.288774},
	{d: 2, m: 0, mp: -1, f: 0, amplitude: 1.274027},
	{d: 2, m: 0, mp: 0, f: 0, amplitude: 0.658314},
	{d: 0, m: 0, mp: 2, f: 0, amplitude: 0.213618},
	{d: 0, m: 1, mp: 0, f: 0, amplitude: -0.185116},
	{d: 0, m: 0, mp: 0, f: 2, amplitude: -0.114332},
}

// MoonLongitude returns the geocentric ecliptic longitude of the Moon
func MoonLongitude(T float64) float64 {
	args := NewMoonArguments(T)
	M := SunMeanAnomaly(T)

	// Terms involving the Sun's anomaly shrink with the decreasing
	// eccentricity of the Earth's orbit
	E := 1 - 0.002516*T - 0.0000074*T*T

	lon := args.MeanLongitude
	for _, term := range moonLongitudeTerms {
		arg := term.d*args.Elongation + term.m*M + term.mp*args.MeanAnomaly + term.f*args.Latitude
		amp := term.amplitude
		if term.m != 0 {
			amp *= E
		}
		lon += amp * sinDeg(arg)
	}

	return Normalize(lon)
}
