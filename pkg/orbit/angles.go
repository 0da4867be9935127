package orbit

import "math"

// Normalize wraps an angle in degrees to the range [0, 360)
func Normalize(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	// -1e-15 + 360 rounds to 360
	if angle >= 360 {
		angle = 0
	}
	return angle
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

func sinDeg(deg float64) float64 { return math.Sin(degToRad(deg)) }
func cosDeg(deg float64) float64 { return math.Cos(degToRad(deg)) }
