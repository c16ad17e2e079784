// Package device reads Linux joystick devices (/dev/input/jsN).
package device

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrUnsupported is returned where joystick devices are not available.
var ErrUnsupported = errors.New("joystick devices not supported on this platform")

// Event is one report from the device.
type Event interface {
	// IsInit is set for the reports describing the initial state.
	IsInit() bool
	// Index of the axis or button.
	Index() int
}

// AxisEvent reports an axis position, -32767..32767.
type AxisEvent interface {
	Event
	Value() int
}

// ButtonEvent reports a button state.
type ButtonEvent interface {
	Event
	Pressed() bool
}

// Device is an opened joystick.
type Device interface {
	io.Closer
	// Index is N of /dev/input/jsN.
	Index() int
	Name() string
	// ReadEvent blocks for the next event. It returns nil for
	// reports other than axes and buttons.
	ReadEvent() (Event, error)
}

// eventSize is the size of struct js_event.
const eventSize = 8

const (
	typeButton uint8 = 0x01
	typeAxis   uint8 = 0x02
	typeInit   uint8 = 0x80
)

type report struct {
	typ   uint8
	index int
	value int16
}

func (r report) IsInit() bool { return r.typ&typeInit != 0 }
func (r report) Index() int   { return r.index }

type axisEvent struct{ report }

func (e axisEvent) Value() int { return int(e.value) }

type buttonEvent struct{ report }

func (e buttonEvent) Pressed() bool { return e.value != 0 }

// decodeEvent decodes a js_event: u32 time, s16 value, u8 type,
// u8 number, little endian.
func decodeEvent(buf []byte) Event {
	r := report{
		value: int16(binary.LittleEndian.Uint16(buf[4:])),
		typ:   buf[6],
		index: int(buf[7]),
	}
	switch r.typ &^ typeInit {
	case typeAxis:
		return axisEvent{r}
	case typeButton:
		return buttonEvent{r}
	}
	return nil
}
