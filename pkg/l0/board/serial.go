package board

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/robotalks/linetracer/pkg/l0/comm"
)

// DefaultBaudRate matches the firmware's UART setup.
const DefaultBaudRate = 9600

// readTimeout lets the link notice cancellation while the line is idle.
const readTimeout = 50 * time.Millisecond

// Open opens the serial port and creates a Board on it. The returned
// Board must be Run for commands to complete.
func Open(device string, baudRate int) (*Board, serial.Port, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open serial port %s: %w", device, err)
	}
	if err = port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, nil, fmt.Errorf("serial port %s: %w", device, err)
	}
	return New(comm.NewClient(comm.NewLink(port))), port, nil
}
