// Package pi assembles the line tracer platform on a Raspberry Pi: an
// MCP3008 ADC reading the sensor bar, a GPIO pin switching the
// emitters, a PCA9685 driving the H-bridge, an SPI TFT framebuffer as
// the display and the UART receiving the remote's speed bytes.
package pi

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
	"gopkg.in/yaml.v2"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/host"

	"github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/hw"
	"github.com/robotalks/linetracer/pkg/mcp3008"
	"github.com/robotalks/linetracer/pkg/pca9685"
	"github.com/robotalks/linetracer/pkg/screen"
)

// readTimeout lets the receiver notice cancellation.
const readTimeout = 100 * time.Millisecond

// Config defines the wiring.
type Config struct {
	SPIDev     string     `yaml:"spi_dev"`
	SPISpeedHz int64      `yaml:"spi_speed_hz"`
	EmitterPin string     `yaml:"emitter_pin"`
	I2CDev     string     `yaml:"i2c_dev"`
	PWMAddr    int        `yaml:"pwm_addr"`
	PWMFreq    int        `yaml:"pwm_freq"`
	Left       MotorPorts `yaml:"left"`
	Right      MotorPorts `yaml:"right"`
	// FBDev is the framebuffer, empty logs display rows instead.
	FBDev    string `yaml:"fb_dev"`
	UARTDev  string `yaml:"uart_dev"`
	BaudRate int    `yaml:"baud_rate"`
}

var defaultConfig = Config{
	SPIDev:     "/dev/spidev0.0",
	SPISpeedHz: int64(mcp3008.DefaultSpeed / physic.Hertz),
	EmitterPin: "GPIO17",
	I2CDev:     "/dev/i2c-1",
	PWMAddr:    pca9685.DefaultAddr,
	PWMFreq:    pca9685.DefaultFrequency,
	Left:       MotorPorts{Speed: 0, Dir: 1},
	Right:      MotorPorts{Speed: 2, Dir: 3, Reverse: true},
	FBDev:      "/dev/fb1",
	UARTDev:    "/dev/serial0",
	BaudRate:   9600,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.SPIDev, "pi-spi", defaultConfig.SPIDev, "SPI device of the ADC.")
	flag.StringVar(&defaultConfig.EmitterPin, "pi-emitter", defaultConfig.EmitterPin, "GPIO pin switching the emitters.")
	flag.StringVar(&defaultConfig.I2CDev, "pi-i2c", defaultConfig.I2CDev, "I2C bus of the PWM controller.")
	flag.StringVar(&defaultConfig.FBDev, "pi-fb", defaultConfig.FBDev, "Framebuffer of the display, empty to log.")
	flag.StringVar(&defaultConfig.UARTDev, "pi-uart", defaultConfig.UARTDev, "UART of the remote receiver.")
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
	if c.Left.Speed == c.Right.Speed || c.Left.Dir == c.Right.Dir {
		return fmt.Errorf("%s: left and right motors share a port", fn)
	}
	return nil
}

// Platform implements hw.Platform.
type Platform struct {
	hw.Parts
	Wheels   *Motors
	Receiver *Receiver

	closers []io.Closer
}

// Open initializes the host drivers and opens every device. The
// returned Platform must be Run to receive speed bytes.
func (c *Config) Open() (p *Platform, err error) {
	if _, err = host.Init(); err != nil {
		return nil, fmt.Errorf("periph init: %w", err)
	}
	p = &Platform{}
	defer func() {
		if err != nil {
			p.Close()
			p = nil
		}
	}()

	adc, closer, err := mcp3008.Open(c.SPIDev, physic.Frequency(c.SPISpeedHz)*physic.Hertz)
	if err != nil {
		return p, fmt.Errorf("adc %s: %w", c.SPIDev, err)
	}
	p.closers = append(p.closers, closer)
	p.ADC = adc

	pin := gpioreg.ByName(c.EmitterPin)
	if pin == nil {
		return p, fmt.Errorf("unknown GPIO pin %q", c.EmitterPin)
	}
	p.Emitter = &Emitter{Pin: pin}

	pwm, err := pca9685.Open(c.I2CDev, c.PWMAddr)
	if err != nil {
		return p, fmt.Errorf("pwm %s: %w", c.I2CDev, err)
	}
	p.closers = append(p.closers, pwm)
	if err = pwm.Configure(c.PWMFreq); err != nil {
		return p, fmt.Errorf("pwm configure: %w", err)
	}
	p.Wheels = &Motors{PWM: pwm, Left: c.Left, Right: c.Right}
	if err = p.Wheels.Init(); err != nil {
		return p, fmt.Errorf("motors: %w", err)
	}
	p.Motors = p.Wheels

	if c.FBDev != "" {
		scr, closer, err := screen.Open(c.FBDev)
		if err != nil {
			return p, fmt.Errorf("display %s: %w", c.FBDev, err)
		}
		p.closers = append(p.closers, closer)
		p.Display = scr
	} else {
		p.Display = hw.NewDummy()
	}

	port, err := serial.Open(c.UARTDev, &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return p, fmt.Errorf("uart %s: %w", c.UARTDev, err)
	}
	p.closers = append(p.closers, port)
	if err = port.SetReadTimeout(readTimeout); err != nil {
		return p, fmt.Errorf("uart %s: %w", c.UARTDev, err)
	}
	p.Receiver = NewReceiver(port)
	p.SpeedReceiver = p.Receiver
	return p, nil
}

// Run implements Runnable.
func (p *Platform) Run(ctx context.Context) error {
	err := p.Receiver.Run(ctx)
	if err != nil && err != ctx.Err() {
		glog.Errorf("receiver: %v", err)
	}
	return err
}

// Close stops the motors, turns off the emitters and closes devices.
func (p *Platform) Close() error {
	var errs framework.AggregatedError
	if p.Wheels != nil {
		errs.Add(p.Wheels.Stop())
	}
	if p.Emitter != nil {
		errs.Add(p.Emitter.SetEmitter(false))
	}
	for n := len(p.closers) - 1; n >= 0; n-- {
		errs.Add(p.closers[n].Close())
	}
	p.closers = nil
	return errs.Aggregate()
}
