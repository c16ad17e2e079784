package sim

import "math"

// Angle is a heading in radians, kept within [-π, π].
type Angle float64

// AngleFromDegrees creates Angle from degrees.
func AngleFromDegrees(d float64) Angle {
	return Angle(0).AddRadians(d * math.Pi / 180)
}

// AddRadians turns a by r.
func (a Angle) AddRadians(r float64) Angle {
	r = math.Remainder(float64(a)+r, 2*math.Pi)
	if r == -math.Pi {
		r = math.Pi
	}
	return Angle(r)
}

// Degrees gets angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// Cos wraps math.Cos.
func (a Angle) Cos() float64 {
	return math.Cos(float64(a))
}

// Sin wraps math.Sin.
func (a Angle) Sin() float64 {
	return math.Sin(float64(a))
}

// Project is the displacement of moving dist along a.
func (a Angle) Project(dist float64) Pos2D {
	return Pos2D{X: dist * a.Cos(), Y: dist * a.Sin()}
}
