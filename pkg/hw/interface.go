// Package hw defines the hardware capabilities consumed by the line tracer.
//
// The tracer core never touches registers or device files; platform
// adapters (simulation, serial board, Raspberry Pi) implement these
// interfaces and the core depends only on them.
package hw

import (
	"context"
	"strings"
)

// Channels is the number of reflectance sensors on the bar.
const Channels = 5

// MaxLineLen is the width of one display row in characters.
const MaxLineLen = 16

// ADC samples one analog input and returns an 8-bit reading.
type ADC interface {
	// ReadChannel selects the input, waits for the conversion and
	// returns the reading. It blocks until the conversion completes
	// or ctx is done.
	ReadChannel(ctx context.Context, ch int) (uint8, error)
}

// Emitter switches the IR emitters of the sensor bar.
type Emitter interface {
	SetEmitter(on bool) error
}

// Motors drives the two wheels. Values are PWM duty in [0, 255].
type Motors interface {
	SetLeftSpeed(value uint8) error
	SetRightSpeed(value uint8) error
}

// SpeedReceiver receives the base speed command from the remote.
type SpeedReceiver interface {
	// ReceiveByte blocks until a byte arrives or ctx is done.
	ReceiveByte(ctx context.Context) (byte, error)
}

// Display is a character display with fixed-width rows.
type Display interface {
	WriteLine(row int, text string) error
}

// Platform bundles every capability the tracer needs.
type Platform interface {
	ADC
	Emitter
	Motors
	SpeedReceiver
	Display
}

// Parts assembles a Platform from separate implementations.
type Parts struct {
	ADC
	Emitter
	Motors
	SpeedReceiver
	Display
}

var _ Platform = &Parts{}

// FitLine truncates or pads text to exactly MaxLineLen characters so
// a shorter line fully overwrites the previous content of the row.
func FitLine(text string) string {
	if len(text) > MaxLineLen {
		return text[:MaxLineLen]
	}
	return text + strings.Repeat(" ", MaxLineLen-len(text))
}
