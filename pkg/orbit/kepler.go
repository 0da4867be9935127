package orbit

import (
	"fmt"
	"math"
)

const (
	// KeplerTolerance is the Newton step, in degrees, below which the
	// eccentric anomaly is considered converged
	KeplerTolerance = 1e-6
	// KeplerMaxIterations bounds the Newton iteration
	KeplerMaxIterations = 30
)

// ConvergenceWarning is attached to a result when Kepler's equation did not
// converge. The result still carries the last iterate.
type ConvergenceWarning struct {
	Eccentricity float64
	MeanAnomaly  float64 // degrees
	LastStep     float64 // degrees
	Iterations   int
}

func (w *ConvergenceWarning) Error() string {
	return fmt.Sprintf("kepler equation did not converge after %d iterations (e=%.6f, M=%.6f°, last step %.3g°)",
		w.Iterations, w.Eccentricity, w.MeanAnomaly, w.LastStep)
}

// KeplerSolution is the eccentric anomaly for a mean anomaly
type KeplerSolution struct {
	E          float64 // eccentric anomaly, degrees
	Iterations int
	Warning    *ConvergenceWarning
}

// Converged reports whether the solution met the tolerance
func (k KeplerSolution) Converged() bool {
	return k.Warning == nil
}

// SolveKepler solves M = E - e·sin(E) for the eccentric anomaly E by Newton
// iteration. M and E are in degrees. A circular orbit returns E = M without
// iterating.
func SolveKepler(e, M float64) KeplerSolution {
	return solveKepler(e, M, KeplerTolerance, KeplerMaxIterations)
}

func solveKepler(e, M, tolerance float64, maxIterations int) KeplerSolution {
	if e == 0 {
		return KeplerSolution{E: M}
	}

	if e < 0 || e >= 1 || math.IsNaN(e) {
		return KeplerSolution{
			E: M,
			Warning: &ConvergenceWarning{
				Eccentricity: e,
				MeanAnomaly:  M,
				LastStep:     math.NaN(),
			},
		}
	}

	m := degToRad(M)
	tol := degToRad(tolerance)

	// Starting guess from the first-order series
	E := m + e*math.Sin(m)
	step := math.Inf(1)

	for i := 1; i <= maxIterations; i++ {
		step = (E - e*math.Sin(E) - m) / (1 - e*math.Cos(E))
		E -= step
		if math.Abs(step) < tol {
			return KeplerSolution{E: radToDeg(E), Iterations: i}
		}
	}

	return KeplerSolution{
		E:          radToDeg(E),
		Iterations: maxIterations,
		Warning: &ConvergenceWarning{
			Eccentricity: e,
			MeanAnomaly:  M,
			LastStep:     radToDeg(step),
			Iterations:   maxIterations,
		},
	}
}

// TrueAnomaly converts an eccentric anomaly (degrees) to the true anomaly (degrees)
func TrueAnomaly(e, E float64) float64 {
	half := degToRad(E) / 2
	nu := 2 * math.Atan2(math.Sqrt(1+e)*math.Sin(half), math.Sqrt(1-e)*math.Cos(half))
	return radToDeg(nu)
}
