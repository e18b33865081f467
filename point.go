package ink

import "math"

// Point is a single ink sample in world coordinates.
//
// X, Y, Pressure, Tilt, and Time come from the input device (or from ISF
// decode). Length and Velocity are derived when the Engine emits the point:
// Length is the cumulative arc length from the stroke start, Velocity is an
// exponentially smoothed speed in world units per millisecond. Points are
// immutable once appended to a stroke.
type Point struct {
	X, Y     float64
	Pressure float64 // [0, 1]
	TiltX    float64 // device units, zero when the device reports none
	TiltY    float64
	Time     float64 // monotonic milliseconds

	Length   float64
	Velocity float64
}

// Dist returns the Euclidean distance to q.
func (p Point) Dist(q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// lerp performs linear interpolation between two scalars.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// smoothstep is the Hermite ramp 3t²-2t³ over [edge0, edge1], clamped.
func smoothstep(edge0, edge1, x float64) float64 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// finiteOr replaces NaN and ±Inf with a fallback so malformed device input
// never propagates through the pipeline.
func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
