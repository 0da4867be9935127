package orbit

import "fmt"

// Planet identifies a body with Keplerian elements
type Planet int

const (
	Mercury Planet = iota
	Venus
	Earth // Earth-Moon barycentre
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

var planetNames = [...]string{"Mercury", "Venus", "Earth", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune", "Pluto"}

func (p Planet) String() string {
	if p < 0 || int(p) >= len(planetNames) {
		return fmt.Sprintf("Planet(%d)", int(p))
	}
	return planetNames[p]
}

// PeriodicTerm is a heliocentric longitude correction of the form
// Amplitude·sin(J·Mj + S·Ms + U·Mu + Phase), or cos when Cosine is set,
// where Mj, Ms and Mu are the mean anomalies of Jupiter, Saturn and Uranus.
type PeriodicTerm struct {
	Amplitude float64
	J, S, U   float64
	Phase     float64
	Cosine    bool
}

// OrbitalElements are J2000 mean elements with their rates per Julian
// century. Angles are degrees, A is in AU.
type OrbitalElements struct {
	A, ADot       float64 // semi-major axis
	E, EDot       float64 // eccentricity
	I, IDot       float64 // inclination
	L, LDot       float64 // mean longitude
	Peri, PeriDot float64 // longitude of perihelion
	Node, NodeDot float64 // longitude of the ascending node
	Terms         []PeriodicTerm
}

// MeanElements are OrbitalElements evaluated at a moment
type MeanElements struct {
	A, E, I, L, Peri, Node float64
}

// At propagates the elements to T
func (o OrbitalElements) At(T float64) MeanElements {
	return MeanElements{
		A:    o.A + o.ADot*T,
		E:    o.E + o.EDot*T,
		I:    o.I + o.IDot*T,
		L:    Normalize(o.L + o.LDot*T),
		Peri: Normalize(o.Peri + o.PeriDot*T),
		Node: Normalize(o.Node + o.NodeDot*T),
	}
}

// MeanAnomaly returns L - perihelion
func (m MeanElements) MeanAnomaly() float64 {
	return Normalize(m.L - m.Peri)
}

// Elements holds the JPL "Keplerian Elements for Approximate Positions of
// the Major Planets" (Standish), fitted for 1800-2050 AD and usable with
// degrading accuracy from 3000 BC to 3000 AD. The periodic terms are the
// classical Jupiter/Saturn great inequality and the largest Uranus terms.
// The table is read-only.
var Elements = map[Planet]OrbitalElements{
	Mercury: {
		A: 0.38709927, ADot: 0.00000037,
		E: 0.20563593, EDot: 0.00001906,
		I: 7.00497902, IDot: -0.00594749,
		L: 252.25032350, LDot: 149472.67411175,
		Peri: 77.45779628, PeriDot: 0.16047689,
		Node: 48.33076593, NodeDot: -0.12534081,
	},
	Venus: {
		A: 0.72333566, ADot: 0.00000390,
		E: 0.00677672, EDot: -0.00004107,
		I: 3.39467605, IDot: -0.00078890,
		L: 181.97909950, LDot: 58517.81538729,
		Peri: 131.60246718, PeriDot: 0.00268329,
		Node: 76.67984255, NodeDot: -0.27769418,
	},
	Earth: {
		A: 1.00000261, ADot: 0.00000562,
		E: 0.01671123, EDot: -0.00004392,
		I: -0.00001531, IDot: -0.01294668,
		L: 100.46457166, LDot: 35999.37244981,
		Peri: 102.93768193, PeriDot: 0.32327364,
		Node: 0, NodeDot: 0,
	},
	Mars: {
		A: 1.52371034, ADot: 0.00001847,
		E: 0.09339410, EDot: 0.00007882,
		I: 1.84969142, IDot: -0.00813131,
		L: -4.55343205, LDot: 19140.30268499,
		Peri: -23.94362959, PeriDot: 0.44441088,
		Node: 49.55953891, NodeDot: -0.29257343,
	},
	Jupiter: {
		A: 5.20288700, ADot: -0.00011607,
		E: 0.04838624, EDot: -0.00013253,
		I: 1.30439695, IDot: -0.00183714,
		L: 34.39644051, LDot: 3034.74612775,
		Peri: 14.72847983, PeriDot: 0.21252668,
		Node: 100.47390909, NodeDot: 0.20469106,
		Terms: []PeriodicTerm{
			{Amplitude: -0.332, J: 2, S: -5, Phase: -67.6},
			{Amplitude: -0.056, J: 2, S: -2, Phase: 21},
			{Amplitude: 0.042, J: 3, S: -5, Phase: 21},
			{Amplitude: -0.036, J: 1, S: -2},
			{Amplitude: 0.022, J: 1, S: -1, Cosine: true},
			{Amplitude: 0.023, J: 2, S: -3, Phase: 52},
			{Amplitude: -0.016, J: 1, S: -5, Phase: -69},
		},
	},
	Saturn: {
		A: 9.53667594, ADot: -0.00125060,
		E: 0.05386179, EDot: -0.00050991,
		I: 2.48599187, IDot: 0.00193609,
		L: 49.95424423, LDot: 1222.49362201,
		Peri: 92.59887831, PeriDot: -0.41897216,
		Node: 113.66242448, NodeDot: -0.28867794,
		Terms: []PeriodicTerm{
			{Amplitude: 0.812, J: 2, S: -5, Phase: -67.6},
			{Amplitude: -0.229, J: 2, S: -4, Phase: -2, Cosine: true},
			{Amplitude: 0.119, J: 1, S: -2, Phase: -3},
			{Amplitude: 0.046, J: 2, S: -6, Phase: -69},
			{Amplitude: 0.014, J: 1, S: -3, Phase: 32},
		},
	},
	Uranus: {
		A: 19.18916464, ADot: -0.00196176,
		E: 0.04725744, EDot: -0.00004397,
		I: 0.77263783, IDot: -0.00242939,
		L: 313.23810451, LDot: 428.48202785,
		Peri: 170.95427630, PeriDot: 0.40805281,
		Node: 74.01692503, NodeDot: 0.04240589,
		Terms: []PeriodicTerm{
			{Amplitude: 0.040, S: 1, U: -2, Phase: 6},
			{Amplitude: 0.035, S: 1, U: -3, Phase: 33},
			{Amplitude: -0.015, J: 1, U: -1, Phase: 20},
		},
	},
	Neptune: {
		A: 30.06992276, ADot: 0.00026291,
		E: 0.00859048, EDot: 0.00005105,
		I: 1.77004347, IDot: 0.00035372,
		L: -55.12002969, LDot: 218.45945325,
		Peri: 44.96476227, PeriDot: -0.32241464,
		Node: 131.78422574, NodeDot: -0.00508664,
	},
	Pluto: {
		A: 39.48211675, ADot: -0.00031596,
		E: 0.24882730, EDot: 0.00005170,
		I: 17.14001206, IDot: 0.00004818,
		L: 238.92903833, LDot: 145.20780515,
		Peri: 224.06891629, PeriDot: -0.04062942,
		Node: 110.30393684, NodeDot: -0.01183482,
	},
}
