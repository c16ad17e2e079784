// Package pca9685 drives the PCA9685 16-channel PWM controller over I2C.
package pca9685

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/io/i2c"
)

// Registers and limits
const (
	DefaultAddr = 0x40

	RegMode1 = 0x00
	RegMode2 = 0x01

	// Each PWM output has two 16-bit (low byte first) registers.
	// First register is the on time, second is the off time.
	RegLEDBase = 0x06

	RegPreScale = 0xfe

	Ports  = 16
	PWMMax = 4095

	// OscillatorHz is the internal clock.
	OscillatorHz = 25000000

	// DefaultFrequency suits small DC motor drivers.
	DefaultFrequency = 1000
)

// Device writes registers, implemented by *i2c.Device.
type Device interface {
	WriteReg(reg byte, buf []byte) error
	Close() error
}

// PCA9685 is the PWM controller.
type PCA9685 struct {
	Dev Device
	// Sleep is used for the oscillator restart delay.
	Sleep func(time.Duration)
}

// New creates a PCA9685 on a device.
func New(dev Device) *PCA9685 {
	return &PCA9685{Dev: dev, Sleep: time.Sleep}
}

// Open opens the I2C bus device file, e.g. /dev/i2c-1.
func Open(deviceFile string, addr int) (*PCA9685, error) {
	if addr == 0 {
		addr = DefaultAddr
	}
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, addr)
	if err != nil {
		return nil, err
	}
	return New(dev), nil
}

// PreScale computes the prescaler for a PWM frequency.
func PreScale(freq int) byte {
	v := math.Round(float64(OscillatorHz)/(4096*float64(freq))) - 1
	switch {
	case v < 3:
		return 3
	case v > 0xff:
		return 0xff
	}
	return byte(v)
}

// Configure sets the PWM frequency and enables outputs.
func (p *PCA9685) Configure(freq int) (err error) {
	// Put device to sleep.
	if err = p.Dev.WriteReg(RegMode1, []byte{0x11}); err != nil {
		return
	}
	if err = p.Dev.WriteReg(RegPreScale, []byte{PreScale(freq)}); err != nil {
		return
	}
	// Wake up, then wait for the oscillator.
	if err = p.Dev.WriteReg(RegMode1, []byte{0x01}); err != nil {
		return
	}
	p.Sleep(time.Millisecond)
	// Restart with auto-increment.
	return p.Dev.WriteReg(RegMode1, []byte{0xa1})
}

// SetDuty sets the off time of a port in [0, PWMMax].
func (p *PCA9685) SetDuty(port int, duty uint16) error {
	if port < 0 || port >= Ports {
		return fmt.Errorf("pca9685: invalid port %d", port)
	}
	if duty > PWMMax {
		duty = PWMMax
	}
	addr := RegLEDBase + port*4
	return p.Dev.WriteReg(byte(addr), []byte{0, 0, byte(duty & 0xff), byte(duty >> 8)})
}

// SetFull drives a port fully on or off, e.g. a direction pin.
func (p *PCA9685) SetFull(port int, on bool) error {
	if port < 0 || port >= Ports {
		return fmt.Errorf("pca9685: invalid port %d", port)
	}
	addr := RegLEDBase + port*4
	if on {
		return p.Dev.WriteReg(byte(addr), []byte{0, 0x10, 0, 0})
	}
	return p.Dev.WriteReg(byte(addr), []byte{0, 0, 0, 0x10})
}

// SetPWM8 maps an 8-bit duty to the 12-bit range.
func (p *PCA9685) SetPWM8(port int, value uint8) error {
	return p.SetDuty(port, uint16(uint32(value)*PWMMax/255))
}

// Close closes the device.
func (p *PCA9685) Close() error {
	return p.Dev.Close()
}
