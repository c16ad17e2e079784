package diffdrive

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linetracer/pkg/sim"
)

func TestDriveEstimate(t *testing.T) {
	testCases := []struct {
		name        string
		left, right float64
		after       time.Duration
		x, y, deg   float64
	}{
		{
			name:  "straight",
			left:  100,
			right: 100,
			after: time.Second,
			x:     100,
		},
		{
			name:  "spin in place",
			left:  -60 * math.Pi,
			right: 60 * math.Pi,
			after: 500 * time.Millisecond,
			deg:   90,
		},
		{
			name:  "quarter arc to the left",
			right: 60 * math.Pi,
			after: time.Second,
			x:     60,
			y:     60,
			deg:   90,
		},
		{
			name:  "quarter arc to the right",
			left:  60 * math.Pi,
			after: time.Second,
			x:     60,
			y:     -60,
			deg:   -90,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var baseTime time.Time
			pose := newDriveState(sim.Pose2D{}, baseTime, tc.left, tc.right, 120).
				estimate(baseTime.Add(tc.after))
			require.InDelta(t, tc.x, pose.X, 1e-6)
			require.InDelta(t, tc.y, pose.Y, 1e-6)
			require.InDelta(t, tc.deg, pose.Orientation.Degrees(), 1e-6)
		})
	}
}

func TestDriveStopped(t *testing.T) {
	require.Nil(t, newDriveState(sim.Pose2D{}, time.Time{}, 0, 0, 120))
}

type body struct {
	pose sim.Pose2D
	sets int
}

func (b *body) Position2D() sim.Pose2D {
	return b.pose
}

func (b *body) SetPose2D(pose sim.Pose2D) sim.Pose2D {
	b.pose = pose
	b.sets++
	return pose
}

func TestEngine(t *testing.T) {
	obj := &body{}
	e := New(obj)
	start := time.Unix(1000, 0)

	require.Equal(t, sim.Pose2D{}, e.Update(start.Add(time.Second)))
	require.Zero(t, obj.sets)

	e.SetWheels(start, 50, 50)
	pose := e.Update(start.Add(2 * time.Second))
	require.InDelta(t, 100, pose.X, 1e-9)
	require.Equal(t, pose, obj.pose)

	// rebased at the last update, a later change continues from there.
	e.SetWheels(start.Add(3*time.Second), 0, 0)
	require.InDelta(t, 150, obj.pose.X, 1e-9)
	left, right := e.Wheels()
	require.Zero(t, left)
	require.Zero(t, right)
	require.InDelta(t, 150, e.Update(start.Add(10*time.Second)).X, 1e-9)
}
