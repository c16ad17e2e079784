package diffdrive

import (
	"math"
	"time"

	"github.com/robotalks/linetracer/pkg/sim"
)

// minTurnRate is the turn rate (rad/s) below which motion is a line.
const minTurnRate = 1e-9

type driveState struct {
	startPose sim.Pose2D
	startTime time.Time
	left      float64
	right     float64
	track     float64
}

func newDriveState(pose sim.Pose2D, now time.Time, left, right, track float64) *driveState {
	if left == 0 && right == 0 {
		return nil
	}
	return &driveState{
		startPose: pose,
		startTime: now,
		left:      left,
		right:     right,
		track:     track,
	}
}

// estimate integrates the motion as an arc of constant curvature.
func (s *driveState) estimate(now time.Time) sim.Pose2D {
	secs := now.Sub(s.startTime).Seconds()
	pose := s.startPose
	if secs <= 0 {
		return pose
	}
	speed := (s.left + s.right) / 2
	rate := (s.right - s.left) / s.track
	if math.Abs(rate) < minTurnRate {
		pose.Pos2D.OffsetBy(pose.Orientation.Project(speed * secs))
		return pose
	}
	radius := speed / rate
	from := pose.Orientation
	to := from.AddRadians(rate * secs)
	pose.X += radius * (to.Sin() - from.Sin())
	pose.Y -= radius * (to.Cos() - from.Cos())
	pose.Orientation = to
	return pose
}
