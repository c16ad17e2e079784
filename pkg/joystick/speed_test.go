package joystick

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/joystick/msgs"
	"github.com/robotalks/linetracer/pkg/l1"
	tracermsgs "github.com/robotalks/linetracer/pkg/tracer/msgs"
)

func TestSpeedMapper(t *testing.T) {
	m := SpeedMapper{Axis: 1, Max: 255, Invert: true}
	testCases := []struct {
		value  int
		expect uint8
	}{
		{0, 0},
		{1000, 0},
		{-AxisMax, 255},
		{-AxisMax - 1, 255},
		{-16384, 127},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expect, m.Speed(tc.value), "value %d", tc.value)
	}
	m.Invert, m.Max = false, 100
	require.Equal(t, uint8(100), m.Speed(AxisMax))
	require.Equal(t, uint8(0), m.Speed(-AxisMax))
}

type result chan l1.Result

func (r result) ResultChan() <-chan l1.Result { return r }

type fakeConn struct {
	lock   sync.Mutex
	speeds []uint32
}

func (c *fakeConn) DoCommand(msg fx.Message) l1.CommandFuture {
	c.lock.Lock()
	defer c.lock.Unlock()
	res := make(result, 1)
	if cmd, ok := msg.(*tracermsgs.SpeedCommand); ok {
		c.speeds = append(c.speeds, cmd.Speed)
		res <- l1.Result{}
	} else {
		res <- l1.Result{Err: errors.New("unexpected")}
	}
	return res
}

type axis struct {
	index, value int
}

func (a axis) IsInit() bool { return false }
func (a axis) Index() int   { return a.index }
func (a axis) Value() int   { return a.value }

type loopRecorder struct {
	lock sync.Mutex
	msgs []fx.Message
}

func (r *loopRecorder) PostMessage(msg fx.Message) {
	r.lock.Lock()
	r.msgs = append(r.msgs, msg)
	r.lock.Unlock()
}

func (r *loopRecorder) TriggerNext() {}

func TestConnectionSendsSpeed(t *testing.T) {
	conn := &fakeConn{}
	parent := &loopRecorder{}
	c := &connection{
		parent:    parent,
		conn:      conn,
		mapper:    SpeedMapper{Axis: 1, Max: 255, Invert: true},
		lastSpeed: -1,
	}
	c.handleEvent(axis{index: 0, value: -AxisMax})
	c.handleEvent(axis{index: 1, value: -AxisMax})
	c.handleEvent(axis{index: 1, value: -AxisMax})
	c.handleEvent(axis{index: 1, value: 0})
	c.setSpeed(0)
	require.Equal(t, []uint32{255, 0}, conn.speeds)
	require.Equal(t, []fx.Message{
		&speedMsg{conn: c, speed: 255},
		&speedMsg{conn: c, speed: 0},
	}, parent.msgs)
}

func TestSpeedMapperFrom(t *testing.T) {
	m, err := SpeedMapperFrom(&msgs.JoystickMapSpeed{Axis: 3, Max: 120, Invert: true})
	require.NoError(t, err)
	require.Equal(t, SpeedMapper{Axis: 3, Max: 120, Invert: true}, m)
	require.Equal(t, &msgs.JoystickSpeed{Axis: 3, Max: 120, Invert: true, LastSpeed: 60}, m.Status(60))

	_, err = SpeedMapperFrom(&msgs.JoystickMapSpeed{Max: 256})
	require.Error(t, err)
	_, err = SpeedMapperFrom(&msgs.JoystickMapSpeed{Axis: 256})
	require.Error(t, err)
}
