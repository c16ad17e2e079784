package joystick

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/joystick/msgs"
	"github.com/robotalks/linetracer/pkg/l1"
	"github.com/robotalks/linetracer/pkg/l1/comm"
	env "github.com/robotalks/linetracer/pkg/l1/env/controller"
	l1msgs "github.com/robotalks/linetracer/pkg/l1/msgs"
)

type command struct {
	msg   fx.Message
	reply fx.Message
}

func (c *command) Msg() fx.Message { return c.msg }

func (c *command) Done(reply fx.Message) error {
	c.reply = reply
	return nil
}

type eventLog struct {
	sent []*msgs.JoystickStatus
}

func (e *eventLog) SendEvent(_ context.Context, msg fx.Message) error {
	e.sent = append(e.sent, msg.(*msgs.JoystickStatus))
	return nil
}

func (e *eventLog) last() *msgs.JoystickStatus {
	return e.sent[len(e.sent)-1]
}

func runCommand(t *testing.T, loop *fx.Loop, msg fx.Message, extra ...fx.Message) fx.Message {
	cmd := &command{msg: msg}
	for _, m := range extra {
		loop.PostMessage(m)
	}
	loop.PostMessage(&l1.CommandMsg{Command: cmd})
	require.NoError(t, loop.RunOnce(context.Background()))
	require.NotNil(t, cmd.reply, "%T not answered", msg)
	return cmd.reply
}

func TestControllerSpeedStatus(t *testing.T) {
	var events eventLog
	e := &env.Env{Registrar: &comm.RegistrarMux{}}
	e.Registrar.Add(&events)
	c := NewController(e)
	c.Mapper = SpeedMapper{Axis: 1, Max: 255, Invert: true}
	loop := fx.NewLoop().Add(c)

	reply := runCommand(t, loop, &msgs.JoystickMapSpeed{Axis: 3, Max: 100})
	assert.IsType(t, &l1msgs.CommandOK{}, reply)
	require.Len(t, events.sent, 1)
	assert.Equal(t, &msgs.JoystickSpeed{Axis: 3, Max: 100, LastSpeed: -1}, events.last().Speed)

	reply = runCommand(t, loop, &msgs.JoystickMapSpeed{Max: 300})
	assert.IsType(t, &l1msgs.CommandErr{}, reply)
	assert.Len(t, events.sent, 1)

	current := &connection{loop: fx.NewLoop(), cancel: func() {}}
	c.conn = current
	reply = runCommand(t, loop, &msgs.JoystickStatusQuery{},
		&speedMsg{conn: current, speed: 42},
		&speedMsg{conn: &connection{}, speed: 7},
		&deviceMsg{device: &msgs.JoystickDevice{Index: 0, Name: "Gamepad"}},
	)
	status := reply.(*msgs.JoystickStatusReply).Status
	assert.Equal(t, int32(42), status.Speed.LastSpeed)
	assert.Equal(t, uint32(3), status.Speed.Axis)
	assert.Equal(t, "Gamepad", status.Device.Name)
	require.Len(t, events.sent, 2)
	assert.Equal(t, status, events.last())

	reply = runCommand(t, loop, &msgs.JoystickConnect{})
	assert.IsType(t, &l1msgs.CommandOK{}, reply)
	assert.Nil(t, c.conn)
	assert.Equal(t, int32(-1), events.last().Speed.LastSpeed)
	assert.Nil(t, events.last().Connection)
}

func TestControllerConnectNeedsRef(t *testing.T) {
	c := NewController(&env.Env{Registrar: &comm.RegistrarMux{}})
	loop := fx.NewLoop().Add(c)
	reply := runCommand(t, loop, &msgs.JoystickConnect{Type: "linetracer"})
	assert.IsType(t, &l1msgs.CommandErr{}, reply)

	reply = runCommand(t, loop, &msgs.JoystickConnect{RegistryURL: "mqtt://broker/lt/", Type: "linetracer"})
	require.IsType(t, &l1msgs.CommandErr{}, reply)
	assert.Equal(t, "controller type and id must be specified", reply.(*l1msgs.CommandErr).Message)
}
