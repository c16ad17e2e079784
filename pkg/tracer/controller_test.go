package tracer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linetracer/pkg/drive"
	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/hw"
	"github.com/robotalks/linetracer/pkg/l1"
	l1msgs "github.com/robotalks/linetracer/pkg/l1/msgs"
	"github.com/robotalks/linetracer/pkg/sensing"
	"github.com/robotalks/linetracer/pkg/sim/bench"
	"github.com/robotalks/linetracer/pkg/tracer/msgs"
)

var (
	onForward   = [5]uint8{200, 200, 50, 200, 200}
	onTurnLeft  = [5]uint8{50, 200, 200, 200, 200}
	onFullBlack = [5]uint8{50, 50, 50, 50, 50}
)

func newTestController(b *bench.Bench) (*Controller, *[]time.Duration) {
	var sleeps []time.Duration
	sleep := func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	c := NewController(b)
	c.Unit.Sleep = sleep
	c.Sleep = sleep
	return c, &sleeps
}

func adcCalls() []string {
	return []string{"adc:0", "adc:1", "adc:2", "adc:3", "adc:4"}
}

func TestCycleOrder(t *testing.T) {
	b := bench.New().SetReadings(onForward, [5]uint8{}).FeedSpeed(100)
	c, sleeps := newTestController(b)
	st, err := c.Cycle(context.Background())
	require.NoError(t, err)

	expect := []string{"recv", "emitter:on"}
	expect = append(expect, adcCalls()...)
	expect = append(expect, "emitter:off")
	expect = append(expect, adcCalls()...)
	expect = append(expect,
		"left:100", "right:100",
		"lcd:1:Forward      BL",
		"lcd:0:200200 50200200",
	)
	require.Equal(t, expect, b.Calls())
	require.Equal(t, []time.Duration{
		sensing.DefaultSettle, sensing.DefaultSettle,
		DefaultDisplayHold, DefaultDisplayHold,
	}, *sleeps)

	require.Equal(t, byte(100), st.Speed)
	require.True(t, st.Matched)
	require.Equal(t, drive.Forward, st.Output.Category)
	require.Equal(t, uint64(1), st.Cycles)
	require.Equal(t, st, c.State())
}

func TestCycleRetention(t *testing.T) {
	b := bench.New().SetReadings(onTurnLeft, [5]uint8{}).FeedSpeed(120, 200)
	c, _ := newTestController(b)
	_, err := c.Cycle(context.Background())
	require.NoError(t, err)
	left, right := b.Speeds()
	require.Equal(t, uint8(20), left)
	require.Equal(t, uint8(120), right)

	b.SetReadings(onFullBlack, [5]uint8{})
	st, err := c.Cycle(context.Background())
	require.NoError(t, err)
	require.False(t, st.Matched)
	require.Equal(t, "Turn Left    BL", b.Line(LabelRow))
	require.Equal(t, " 50 50 50 5050", b.Line(ValuesRow))
	left, right = b.Speeds()
	require.Equal(t, uint8(20), left)
	require.Equal(t, uint8(120), right)
}

func TestCycleFirstUnclassified(t *testing.T) {
	b := bench.New().SetReadings(onFullBlack, [5]uint8{}).FeedSpeed(255)
	c, _ := newTestController(b)
	st, err := c.Cycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, drive.Output{}, st.Output)
	calls := b.Calls()
	require.Equal(t, []string{"left:0", "right:0", "lcd:1:", "lcd:0: 50 50 50 5050"}, calls[len(calls)-4:])
}

func TestCycleAcquireFailure(t *testing.T) {
	errStuck := errors.New("stuck")
	b := bench.New().SetReadings(onForward, [5]uint8{}).FeedSpeed(100, 100)
	c, _ := newTestController(b)
	_, err := c.Cycle(context.Background())
	require.NoError(t, err)
	prev := c.State()
	b.Calls()

	b.Fail = func(input int, emitter bool) error {
		if input == 3 {
			return errStuck
		}
		return nil
	}
	st, err := c.Cycle(context.Background())
	require.True(t, errors.Is(err, errStuck))
	require.Equal(t, prev, st)
	for _, call := range b.Calls() {
		require.NotContains(t, call, "left:")
		require.NotContains(t, call, "lcd:")
	}
	require.False(t, b.Emitter())
}

func TestCycleTimeout(t *testing.T) {
	b := bench.New()
	conf := NewConfig()
	conf.HWTimeout = 20 * time.Millisecond
	c, err := conf.NewController(b, nil)
	require.NoError(t, err)
	_, err = c.Cycle(context.Background())
	require.True(t, errors.Is(err, hw.ErrTimeout))
	var te *hw.TimeoutError
	require.True(t, errors.As(err, &te))
	require.Equal(t, "receive", te.Op)
	require.Equal(t, []string{"recv"}, b.Calls())
	require.Zero(t, c.State().Cycles)
}

func TestCycleCanceled(t *testing.T) {
	b := bench.New()
	c, _ := newTestController(b)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Cycle(ctx)
	require.True(t, errors.Is(err, context.Canceled))
}

type testCommand struct {
	msg   fx.Message
	reply fx.Message
}

func (c *testCommand) Msg() fx.Message { return c.msg }

func (c *testCommand) Done(msg fx.Message) error {
	c.reply = msg
	return nil
}

type testRegistrar struct {
	events []fx.Message
}

func (r *testRegistrar) SendEvent(ctx context.Context, msg fx.Message) error {
	r.events = append(r.events, msg)
	return nil
}

func TestLoopLatchedSpeed(t *testing.T) {
	b := bench.New().SetReadings(onForward, [5]uint8{})
	c, _ := newTestController(b)
	c.SpeedMode = SpeedLatched
	reg := &testRegistrar{}
	c.Registrar = reg
	loop := fx.NewLoop().Add(c)

	cmd := &testCommand{msg: &msgs.SpeedCommand{Speed: 90}}
	loop.PostMessage(&l1.CommandMsg{Command: cmd})
	require.NoError(t, loop.RunOnce(context.Background()))
	require.IsType(t, &l1msgs.CommandOK{}, cmd.reply)

	left, right := b.Speeds()
	require.Equal(t, uint8(90), left)
	require.Equal(t, uint8(90), right)
	require.NotContains(t, b.Calls(), "recv")

	require.Len(t, reg.events, 1)
	status := reg.events[0].(*msgs.Status)
	require.Equal(t, []uint32{200, 200, 50, 200, 200}, status.Values)
	require.Equal(t, "Forward      BL", status.Label)
	require.Equal(t, uint32(90), status.Speed)
	require.True(t, status.Matched)

	cmd = &testCommand{msg: &msgs.SpeedCommand{Speed: 1000}}
	loop.PostMessage(&l1.CommandMsg{Command: cmd})
	require.NoError(t, loop.RunOnce(context.Background()))
	left, _ = b.Speeds()
	require.Equal(t, uint8(255), left)
}

func TestLoopPacedRejectsSpeedCommand(t *testing.T) {
	b := bench.New().SetReadings(onForward, [5]uint8{}).FeedSpeed(42)
	c, _ := newTestController(b)
	loop := fx.NewLoop().Add(c)
	cmd := &testCommand{msg: &msgs.SpeedCommand{Speed: 90}}
	loop.PostMessage(&l1.CommandMsg{Command: cmd})
	require.NoError(t, loop.RunOnce(context.Background()))
	require.Equal(t, ErrSpeedPaced.Error(), cmd.reply.(*l1msgs.CommandErr).Message)
	left, _ := b.Speeds()
	require.Equal(t, uint8(42), left)
}

func TestLoopStatusQuery(t *testing.T) {
	b := bench.New().SetReadings(onTurnLeft, [5]uint8{}).FeedSpeed(60, 60)
	c, _ := newTestController(b)
	loop := fx.NewLoop().Add(c)
	require.NoError(t, loop.RunOnce(context.Background()))

	cmd := &testCommand{msg: &msgs.StatusQuery{}}
	loop.PostMessage(&l1.CommandMsg{Command: cmd})
	require.NoError(t, loop.RunOnce(context.Background()))
	reply := cmd.reply.(*msgs.StatusReply)
	require.Equal(t, "Turn Left", reply.Status.Category)
	require.Equal(t, uint32(10), reply.Status.Left)
	require.Equal(t, uint32(60), reply.Status.Right)
}

func TestLoopFailedSenseSkipsActuation(t *testing.T) {
	b := bench.New()
	b.Fail = func(int, bool) error { return errors.New("dead") }
	b.FeedSpeed(10)
	c, _ := newTestController(b)
	err := fx.NewLoop().Add(c).RunOnce(context.Background())
	require.Error(t, err)
	for _, call := range b.Calls() {
		require.NotContains(t, call, "lcd:")
	}
}

func TestValuesLine(t *testing.T) {
	require.Equal(t, "180160  0190250", ValuesLine(sensing.Values{180, 160, 0, 190, 250}))
	require.Equal(t, "  0  0  0  0 0", ValuesLine(sensing.Values{}))
}
