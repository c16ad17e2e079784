package joystick

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/linetracer/pkg/joystick/msgs"
	"github.com/robotalks/linetracer/pkg/l1/comm"
	env "github.com/robotalks/linetracer/pkg/l1/env/controller"
)

func TestConfigNewController(t *testing.T) {
	conf := &Config{DeviceIndex: 2, Speed: msgs.JoystickMapSpeed{Axis: 3, Max: 120}}
	ctl, err := conf.NewController(&env.Env{Registrar: &comm.RegistrarMux{}})
	require.NoError(t, err)
	assert.Equal(t, 2, ctl.DeviceIndex)
	assert.Equal(t, SpeedMapper{Axis: 3, Max: 120}, ctl.Mapper)

	conf.Speed.Max = 300
	_, err = conf.NewController(&env.Env{Registrar: &comm.RegistrarMux{}})
	assert.EqualError(t, err, "max speed 300 out of range")
}

func TestUint32Flag(t *testing.T) {
	var val uint32
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(uint32Flag{&val}, "speed-max", "")
	require.NoError(t, fs.Parse([]string{"-speed-max", "0x80"}))
	assert.Equal(t, uint32(128), val)
	assert.Equal(t, "128", uint32Flag{&val}.String())
}
