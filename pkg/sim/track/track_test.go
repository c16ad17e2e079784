package track

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linetracer/pkg/drive"
	"github.com/robotalks/linetracer/pkg/hw"
	"github.com/robotalks/linetracer/pkg/sim"
	"github.com/robotalks/linetracer/pkg/tracer"
)

func TestTrackDistance(t *testing.T) {
	tr := &Track{
		Points: []sim.Pos2D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}},
		Width:  20,
		Edge:   4,
	}
	require.InDelta(t, 5, tr.Distance(sim.Pos2D{X: 50, Y: 5}), 1e-9)
	require.InDelta(t, 10, tr.Distance(sim.Pos2D{X: -10, Y: 0}), 1e-9)
	require.InDelta(t, 100, tr.Distance(sim.Pos2D{X: 0, Y: 100}), 1e-9)
	tr.Closed = true
	require.InDelta(t, 70.710678, tr.Distance(sim.Pos2D{X: 0, Y: 100}), 1e-6)
	require.InDelta(t, 0, tr.Distance(sim.Pos2D{X: 50, Y: 50}), 1e-9)

	require.Equal(t, 1.0, tr.Coverage(sim.Pos2D{X: 50, Y: 10}))
	require.InDelta(t, 0.5, tr.Coverage(sim.Pos2D{X: 50, Y: -12}), 1e-9)
	require.Equal(t, 0.0, tr.Coverage(sim.Pos2D{X: 50, Y: -14}))
}

func TestOval(t *testing.T) {
	tr := Oval(300, 200, 36)
	require.Len(t, tr.Points, 36)
	require.True(t, tr.Closed)
	require.InDelta(t, 0, tr.Distance(sim.Pos2D{X: 300}), 1e-9)
	require.InDelta(t, 0, tr.Distance(sim.Pos2D{Y: -200}), 1e-9)
	require.True(t, tr.Distance(sim.Pos2D{}) > 190)
}

type simClock struct {
	now time.Time
}

func (c *simClock) Now() time.Time {
	return c.now
}

func (c *simClock) Sleep(ctx context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	return ctx.Err()
}

func straightLine(y float64) *Track {
	return &Track{
		Points: []sim.Pos2D{{X: -100, Y: y}, {X: 10000, Y: y}},
		Width:  DefaultLineWidth,
		Edge:   2,
	}
}

func newTestRobot(tr *Track) (*Robot, *simClock) {
	clock := &simClock{now: time.Unix(1000, 0)}
	r := NewRobot("tracer", tr)
	r.Clock = clock.Now
	r.Speed = 120
	r.Place(sim.Pose2D{})
	return r, clock
}

func TestRobotReadings(t *testing.T) {
	r, _ := newTestRobot(straightLine(0))
	ctx := context.Background()

	v, err := r.ReadChannel(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, DefaultAmbient, v)

	require.NoError(t, r.SetEmitter(true))
	expects := [hw.Channels]uint8{220, 220, 50, 220, 220}
	for ch, expect := range expects {
		v, err := r.ReadChannel(ctx, ch)
		require.NoError(t, err)
		require.Equal(t, expect, v, "ch %d", ch)
	}

	_, err = r.ReadChannel(ctx, hw.Channels)
	require.Error(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.ReadChannel(canceled, 0)
	require.Equal(t, context.Canceled, err)
}

func TestRobotSpeedSource(t *testing.T) {
	r, _ := newTestRobot(straightLine(0))
	r.Speed = 90
	r.Feed(10, 20)
	for _, expect := range []byte{10, 20, 90, 90} {
		v, err := r.ReceiveByte(context.Background())
		require.NoError(t, err)
		require.Equal(t, expect, v)
	}
}

func TestRobotMoves(t *testing.T) {
	r, clock := newTestRobot(straightLine(0))
	r.MaxSpeed = 255
	require.NoError(t, r.SetLeftSpeed(100))
	require.NoError(t, r.SetRightSpeed(100))
	clock.now = clock.now.Add(2 * time.Second)
	pose := r.Pose()
	require.InDelta(t, 200, pose.X, 1e-6)
	require.InDelta(t, 0, pose.Y, 1e-9)

	require.NoError(t, r.WriteLine(1, "Forward      BL"))
	require.Equal(t, "Forward      BL ", r.Lines()[1])
	require.Error(t, r.WriteLine(2, ""))
}

func newTestController(r *Robot, clock *simClock) *tracer.Controller {
	ctl := tracer.NewController(r)
	ctl.Sleep = clock.Sleep
	ctl.Unit.Sleep = clock.Sleep
	return ctl
}

func TestTracerFollowsStraightLine(t *testing.T) {
	r, clock := newTestRobot(straightLine(0))
	ctl := newTestController(r, clock)
	for n := 0; n < 10; n++ {
		state, err := ctl.Cycle(context.Background())
		require.NoError(t, err)
		require.Equal(t, drive.Forward, state.Output.Category)
		require.Equal(t, uint8(DefaultAmbient), state.Frame.Off[2])
	}
	pose := r.Pose()
	require.True(t, pose.X > 100, "x=%v", pose.X)
	require.InDelta(t, 0, pose.Y, 1e-9)
	left, right := r.Motors()
	require.Equal(t, r.Speed, left)
	require.Equal(t, r.Speed, right)
}

func TestTracerTurnsTowardsLine(t *testing.T) {
	r, clock := newTestRobot(straightLine(24))
	ctl := newTestController(r, clock)
	state, err := ctl.Cycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, drive.TurnLeft, state.Output.Category)
	require.Equal(t, "Turn Left    BL ", r.Lines()[1])
	require.True(t, r.Pose().Orientation.Degrees() > 0)
}
