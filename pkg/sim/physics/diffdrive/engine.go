// Package diffdrive simulates a two-wheel differential drive.
package diffdrive

import (
	"time"

	"github.com/robotalks/linetracer/pkg/sim"
	"github.com/robotalks/linetracer/pkg/sim/physics"
)

// DefaultTrack is the distance between the wheels in mm.
const DefaultTrack = 120

// Engine implements physics.WheelDrive.
type Engine struct {
	Object sim.Placeable2D
	// Track is the distance between the wheels in mm.
	Track float64

	left, right float64
	state       *driveState
}

// New creates the engine.
func New(obj sim.Placeable2D) *Engine {
	return &Engine{Object: obj, Track: DefaultTrack}
}

// SetWheels implements physics.WheelDrive.
func (e *Engine) SetWheels(at time.Time, left, right float64) {
	pose := e.Update(at)
	e.left, e.right = left, right
	e.state = newDriveState(pose, at, left, right, e.Track)
}

// Wheels returns the current wheel speeds.
func (e *Engine) Wheels() (left, right float64) {
	return e.left, e.right
}

// Update moves the object to its pose at now and returns the pose.
func (e *Engine) Update(now time.Time) sim.Pose2D {
	s := e.state
	if s == nil || !now.After(s.startTime) {
		return e.Object.Position2D()
	}
	pose := e.Object.SetPose2D(s.estimate(now))
	s.startPose, s.startTime = pose, now
	return pose
}

var _ physics.WheelDrive = (*Engine)(nil)
