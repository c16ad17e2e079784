package track

import (
	"flag"

	"github.com/robotalks/linetracer/pkg/sim"
)

// Config defines the simulated track and robot.
type Config struct {
	RadiusX   float64
	RadiusY   float64
	Segments  int
	LineWidth float64
	MaxSpeed  float64
	Speed     uint
}

var defaultConfig = Config{
	RadiusX:   600,
	RadiusY:   400,
	Segments:  72,
	LineWidth: DefaultLineWidth,
	MaxSpeed:  300,
	Speed:     120,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.RadiusX, "track-rx", defaultConfig.RadiusX, "Horizontal radius (mm) of the oval track.")
	flag.Float64Var(&defaultConfig.RadiusY, "track-ry", defaultConfig.RadiusY, "Vertical radius (mm) of the oval track.")
	flag.Float64Var(&defaultConfig.LineWidth, "line-width", defaultConfig.LineWidth, "Width (mm) of the line.")
	flag.Float64Var(&defaultConfig.MaxSpeed, "wheel-speed-max", defaultConfig.MaxSpeed, "Wheel speed (mm/s) at full PWM.")
	flag.UintVar(&defaultConfig.Speed, "sim-speed", defaultConfig.Speed, "Speed byte received when the remote is silent.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewTrack creates the oval track.
func (c *Config) NewTrack() *Track {
	t := Oval(c.RadiusX, c.RadiusY, c.Segments)
	t.Width = c.LineWidth
	return t
}

// NewRobot creates a robot placed on the track heading counter-clockwise.
func (c *Config) NewRobot(name string) *Robot {
	r := NewRobot(name, c.NewTrack())
	r.MaxSpeed = c.MaxSpeed
	if c.Speed > 255 {
		r.Speed = 255
	} else {
		r.Speed = byte(c.Speed)
	}
	r.Place(sim.Pose2D{
		Pos2D:       sim.Pos2D{X: c.RadiusX},
		Orientation: sim.AngleFromDegrees(90),
	})
	return r
}
