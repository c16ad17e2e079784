package pi

import (
	"context"
	"io"

	"github.com/golang/glog"
	"periph.io/x/periph/conn/gpio"

	"github.com/robotalks/linetracer/pkg/hw"
)

// OutPin is the output side of a GPIO pin, implemented by gpio.PinIO.
type OutPin interface {
	Out(l gpio.Level) error
}

// Emitter switches the IR emitters through a GPIO pin.
type Emitter struct {
	Pin OutPin
}

// SetEmitter implements hw.Emitter.
func (e *Emitter) SetEmitter(on bool) error {
	return e.Pin.Out(gpio.Level(on))
}

// PWM is the motor driver, implemented by *pca9685.PCA9685.
type PWM interface {
	SetPWM8(port int, value uint8) error
	SetFull(port int, on bool) error
}

// MotorPorts wires one H-bridge channel to the PWM controller.
type MotorPorts struct {
	Speed int `yaml:"speed"`
	Dir   int `yaml:"dir"`
	// Reverse inverts the direction pin for a mirrored motor.
	Reverse bool `yaml:"reverse"`
}

// Motors implements hw.Motors. Wheels only turn forward.
type Motors struct {
	PWM   PWM
	Left  MotorPorts
	Right MotorPorts
}

// Init sets direction pins forward and stops both wheels.
func (m *Motors) Init() error {
	for _, ports := range []MotorPorts{m.Left, m.Right} {
		if err := m.PWM.SetFull(ports.Dir, ports.Reverse); err != nil {
			return err
		}
		if err := m.PWM.SetPWM8(ports.Speed, 0); err != nil {
			return err
		}
	}
	return nil
}

// SetLeftSpeed implements hw.Motors.
func (m *Motors) SetLeftSpeed(value uint8) error {
	return m.PWM.SetPWM8(m.Left.Speed, value)
}

// SetRightSpeed implements hw.Motors.
func (m *Motors) SetRightSpeed(value uint8) error {
	return m.PWM.SetPWM8(m.Right.Speed, value)
}

// Stop stops both wheels.
func (m *Motors) Stop() error {
	errL := m.SetLeftSpeed(0)
	if err := m.SetRightSpeed(0); err != nil {
		return err
	}
	return errL
}

// Receiver queues speed bytes from the remote's UART.
type Receiver struct {
	*hw.ByteQueue
	Port io.Reader
}

// NewReceiver creates a Receiver reading the port.
func NewReceiver(port io.Reader) *Receiver {
	return &Receiver{ByteQueue: hw.NewByteQueue(0), Port: port}
}

// Run implements Runnable. The port should have a read timeout so
// cancellation is noticed between bytes.
func (r *Receiver) Run(ctx context.Context) error {
	var buf [16]byte
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Port.Read(buf[:])
		for _, b := range buf[:n] {
			if r.Push(b) {
				glog.V(1).Info("speed queue full, oldest dropped")
			}
		}
		if err != nil {
			return err
		}
	}
}
