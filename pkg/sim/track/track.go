// Package track simulates the line tracer on a white floor with a
// black line laid out as a polyline.
package track

import (
	"math"

	"github.com/robotalks/linetracer/pkg/sim"
)

// Track is the line on the floor.
type Track struct {
	Points []sim.Pos2D
	// Closed connects the last point back to the first.
	Closed bool
	// Width of the line in mm.
	Width float64
	// Edge is the blur band (mm) at each side of the line where
	// reflectance blends from black to white.
	Edge float64
}

// DefaultLineWidth is common electrical tape.
const DefaultLineWidth = 19

// Oval creates a closed elliptic track centered at origin.
func Oval(rx, ry float64, segments int) *Track {
	if segments < 3 {
		segments = 3
	}
	t := &Track{Closed: true, Width: DefaultLineWidth, Edge: 2}
	for n := 0; n < segments; n++ {
		a := 2 * math.Pi * float64(n) / float64(segments)
		t.Points = append(t.Points, sim.Pos2D{X: rx * math.Cos(a), Y: ry * math.Sin(a)})
	}
	return t
}

// Distance returns the shortest distance from p to the line center.
func (t *Track) Distance(p sim.Pos2D) float64 {
	dist := math.Inf(1)
	n := len(t.Points)
	if n == 1 {
		return hypot(p, t.Points[0])
	}
	segments := n - 1
	if t.Closed && n > 2 {
		segments = n
	}
	for i := 0; i < segments; i++ {
		if d := segmentDistance(p, t.Points[i], t.Points[(i+1)%n]); d < dist {
			dist = d
		}
	}
	return dist
}

// Coverage returns how much of a sensor spot at p sees the line,
// 1 fully on the line, 0 fully on the floor.
func (t *Track) Coverage(p sim.Pos2D) float64 {
	d := t.Distance(p) - t.Width/2
	switch {
	case d <= 0:
		return 1
	case d >= t.Edge:
		return 0
	}
	return 1 - d/t.Edge
}

func segmentDistance(p, a, b sim.Pos2D) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return hypot(p, a)
	}
	u := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	u = math.Max(0, math.Min(1, u))
	return hypot(p, sim.Pos2D{X: a.X + u*dx, Y: a.Y + u*dy})
}

func hypot(p, q sim.Pos2D) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}
