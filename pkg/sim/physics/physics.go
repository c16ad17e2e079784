// Package physics holds the motion models of simulated objects.
package physics

import (
	"time"

	"github.com/robotalks/linetracer/pkg/sim"
)

// WheelDrive moves an object on two wheels. Speeds are in mm/s.
// Simulated time is passed in, so the model never reads a clock.
type WheelDrive interface {
	// SetWheels changes wheel speeds effective at.
	SetWheels(at time.Time, left, right float64)
	// Update moves the object to now and returns its pose.
	Update(now time.Time) sim.Pose2D
}
