package joystick

import (
	"fmt"

	"github.com/robotalks/linetracer/pkg/joystick/msgs"
)

// AxisMax is the magnitude of a full axis deflection.
const AxisMax = 32767

// SpeedMapper maps one joystick axis to the tracer base speed. Only
// one half of the axis accelerates, the other half reads as zero.
type SpeedMapper struct {
	Axis int
	// Max is the speed at full deflection.
	Max uint8
	// Invert uses the negative half, e.g. pushing a stick up.
	Invert bool
}

// SpeedMapperFrom validates a JoystickMapSpeed command.
func SpeedMapperFrom(m *msgs.JoystickMapSpeed) (SpeedMapper, error) {
	if m.Axis > 0xff {
		return SpeedMapper{}, fmt.Errorf("invalid axis %d", m.Axis)
	}
	if m.Max > 0xff {
		return SpeedMapper{}, fmt.Errorf("max speed %d out of range", m.Max)
	}
	return SpeedMapper{Axis: int(m.Axis), Max: uint8(m.Max), Invert: m.Invert}, nil
}

// Speed maps an axis value.
func (m SpeedMapper) Speed(value int) uint8 {
	if m.Invert {
		value = -value
	}
	if value <= 0 {
		return 0
	}
	if value > AxisMax {
		value = AxisMax
	}
	return uint8(value * int(m.Max) / AxisMax)
}

// Status reports the mapping with the speed last sent, -1 for none.
func (m SpeedMapper) Status(lastSpeed int) *msgs.JoystickSpeed {
	return &msgs.JoystickSpeed{
		Axis:      uint32(m.Axis),
		Max:       uint32(m.Max),
		Invert:    m.Invert,
		LastSpeed: int32(lastSpeed),
	}
}
