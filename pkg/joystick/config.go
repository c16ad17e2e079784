package joystick

import (
	"flag"
	"strconv"

	"github.com/robotalks/linetracer/pkg/joystick/msgs"
	env "github.com/robotalks/linetracer/pkg/l1/env/controller"
)

// Config is the startup state of a Controller. Speed is validated the
// same way as a js.speed command.
type Config struct {
	DeviceIndex int
	Verbose     bool
	Speed       msgs.JoystickMapSpeed
}

var defaultConfig = Config{
	DeviceIndex: -1,
	Speed:       msgs.JoystickMapSpeed{Axis: 1, Max: 255, Invert: true},
}

// SetupFlags sets command line flags.
func SetupFlags() {
	c := &defaultConfig
	flag.IntVar(&c.DeviceIndex, "device", c.DeviceIndex, "Joystick index, -1 to use the first found.")
	flag.BoolVar(&c.Verbose, "verbose", c.Verbose, "Log joystick events.")
	flag.Var(uint32Flag{&c.Speed.Axis}, "speed-axis", "Axis controlling the speed.")
	flag.Var(uint32Flag{&c.Speed.Max}, "speed-max", "Speed at full deflection, up to 255.")
	flag.BoolVar(&c.Speed.Invert, "speed-invert", c.Speed.Invert, "Accelerate on the negative half of the axis.")
}

// NewConfig copies the configuration from flags.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewController creates a Controller publishing through e.
func (c *Config) NewController(e *env.Env) (*Controller, error) {
	mapper, err := SpeedMapperFrom(&c.Speed)
	if err != nil {
		return nil, err
	}
	ctl := NewController(e)
	ctl.DeviceIndex, ctl.Verbose, ctl.Mapper = c.DeviceIndex, c.Verbose, mapper
	return ctl, nil
}

type uint32Flag struct{ val *uint32 }

func (f uint32Flag) String() string {
	if f.val == nil {
		return "0"
	}
	return strconv.FormatUint(uint64(*f.val), 10)
}

func (f uint32Flag) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 32)
	if err == nil {
		*f.val = uint32(v)
	}
	return err
}
