// Package mcp3008 reads the MCP3008 8-channel 10-bit ADC over SPI.
package mcp3008

import (
	"context"
	"fmt"
	"io"
	"time"

	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
)

// Inputs is the number of single-ended inputs.
const Inputs = 8

// DefaultSpeed is safe for the chip at 3.3V.
const DefaultSpeed = physic.MegaHertz

// Conn is a full-duplex SPI connection, implemented by spi.Conn.
type Conn interface {
	Tx(w, r []byte) error
}

// MCP3008 implements hw.ADC with readings scaled to 8 bits.
type MCP3008 struct {
	Conn Conn
	// Settle is waited after selecting an input, before converting.
	Settle time.Duration
}

// New creates an MCP3008 on an SPI connection.
func New(conn Conn) *MCP3008 {
	return &MCP3008{Conn: conn}
}

// Open opens the SPI device, e.g. /dev/spidev0.0. periph host drivers
// must be initialized.
func Open(dev string, speed physic.Frequency) (*MCP3008, io.Closer, error) {
	port, err := spireg.Open(dev)
	if err != nil {
		return nil, nil, err
	}
	conn, err := port.Connect(speed, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, nil, err
	}
	return New(conn), port, nil
}

// Read10 returns the raw 10-bit conversion of a single-ended input.
func (m *MCP3008) Read10(input int) (uint16, error) {
	if input < 0 || input >= Inputs {
		return 0, fmt.Errorf("mcp3008: invalid input %d", input)
	}
	w := []byte{0x01, 0x80 | byte(input)<<4, 0x00}
	r := make([]byte, len(w))
	if err := m.Conn.Tx(w, r); err != nil {
		return 0, fmt.Errorf("mcp3008: input %d: %w", input, err)
	}
	return uint16(r[1]&0x03)<<8 | uint16(r[2]), nil
}

// ReadChannel implements hw.ADC. The 10-bit result keeps its upper
// 8 bits, like a left-adjusted AVR conversion read from ADCH.
func (m *MCP3008) ReadChannel(ctx context.Context, ch int) (uint8, error) {
	if m.Settle > 0 {
		t := time.NewTimer(m.Settle)
		select {
		case <-ctx.Done():
			t.Stop()
			return 0, ctx.Err()
		case <-t.C:
		}
	}
	v, err := m.Read10(ch)
	if err != nil {
		return 0, err
	}
	return uint8(v >> 2), nil
}
