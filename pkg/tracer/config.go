package tracer

import (
	"flag"
	"fmt"
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/robotalks/linetracer/pkg/drive"
	"github.com/robotalks/linetracer/pkg/hw"
	"github.com/robotalks/linetracer/pkg/l1"
	"github.com/robotalks/linetracer/pkg/sensing"
)

// SpeedMode selects where the base speed of a cycle comes from.
type SpeedMode string

// Speed modes
const (
	// SpeedPaced blocks every cycle on the speed receiver.
	SpeedPaced SpeedMode = "paced"
	// SpeedLatched uses the last SpeedCommand received over L1.
	SpeedLatched SpeedMode = "latched"
)

// String implements flag.Value.
func (m *SpeedMode) String() string {
	return string(*m)
}

// Set implements flag.Value.
func (m *SpeedMode) Set(s string) error {
	switch SpeedMode(s) {
	case SpeedPaced, SpeedLatched:
		*m = SpeedMode(s)
		return nil
	}
	return fmt.Errorf("invalid speed mode %q", s)
}

// Config defines the tuning of the tracer.
type Config struct {
	Threshold   uint          `yaml:"threshold"`
	Settle      time.Duration `yaml:"settle"`
	DisplayHold time.Duration `yaml:"display_hold"`
	// HWTimeout bounds ADC and speed waits, zero waits forever.
	HWTimeout time.Duration `yaml:"hw_timeout"`
	SpeedMode SpeedMode     `yaml:"speed_mode"`
	// Inputs maps sensor positions to ADC inputs, left to right.
	Inputs []int `yaml:"inputs"`
}

var defaultConfig = Config{
	Threshold:   uint(drive.DefaultThreshold),
	Settle:      sensing.DefaultSettle,
	DisplayHold: DefaultDisplayHold,
	SpeedMode:   SpeedPaced,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.UintVar(&defaultConfig.Threshold, "threshold", defaultConfig.Threshold, "Line threshold, values below are line.")
	flag.DurationVar(&defaultConfig.Settle, "settle", defaultConfig.Settle, "Emitter settle delay.")
	flag.DurationVar(&defaultConfig.DisplayHold, "display-hold", defaultConfig.DisplayHold, "Hold after each display row.")
	flag.DurationVar(&defaultConfig.HWTimeout, "hw-timeout", defaultConfig.HWTimeout, "Bound on hardware waits, 0 waits forever.")
	flag.Var(&defaultConfig.SpeedMode, "speed-mode", "Speed source: paced or latched.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// LoadFile overlays the YAML file on the config.
func (c *Config) LoadFile(fn string) error {
	data, err := ioutil.ReadFile(fn)
	if err != nil {
		return err
	}
	if err = yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("%s: %v", fn, err)
	}
	return c.Validate()
}

// Validate checks the values are in range.
func (c *Config) Validate() error {
	if c.Threshold > 255 {
		return fmt.Errorf("threshold %d out of range", c.Threshold)
	}
	if c.Settle < 0 || c.DisplayHold < 0 || c.HWTimeout < 0 {
		return fmt.Errorf("negative delay")
	}
	if err := c.SpeedMode.Set(string(c.SpeedMode)); err != nil {
		return err
	}
	if c.Inputs != nil {
		if len(c.Inputs) != hw.Channels {
			return fmt.Errorf("inputs: want %d entries, got %d", hw.Channels, len(c.Inputs))
		}
		for _, in := range c.Inputs {
			if in < 0 {
				return fmt.Errorf("inputs: negative input %d", in)
			}
		}
	}
	return nil
}

// NewController creates a controller on the platform. reg may be nil
// when no remote is attached.
func (c *Config) NewController(p hw.Platform, reg l1.Registrar) (*Controller, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ctl := NewController(hw.WithTimeout(p, c.HWTimeout))
	ctl.Registrar = reg
	ctl.Unit.Settle = c.Settle
	if c.Inputs != nil {
		copy(ctl.Unit.Inputs[:], c.Inputs)
	}
	ctl.Mapper.Threshold = uint8(c.Threshold)
	ctl.DisplayHold = c.DisplayHold
	ctl.SpeedMode = c.SpeedMode
	return ctl, nil
}
