// Package stream carries L1 packets over byte streams such as TCP.
package stream

import (
	"encoding/binary"
	"errors"
	"io"
)

// MaxPacketSize bounds the length prefix so a corrupted stream does
// not allocate without limit.
const MaxPacketSize = 1 << 20

// ErrPacketTooLarge reports a packet over MaxPacketSize.
var ErrPacketTooLarge = errors.New("packet too large")

// Conn frames each packet with a 4-byte little-endian length.
type Conn struct {
	rw io.ReadWriter
}

// New creates a Conn on a stream.
func New(rw io.ReadWriter) *Conn {
	return &Conn{rw: rw}
}

// ReadPacket implements comm.PacketConn.
func (c *Conn) ReadPacket() ([]byte, error) {
	var head [4]byte
	if _, err := io.ReadFull(c.rw, head[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(head[:])
	if size > MaxPacketSize {
		return nil, ErrPacketTooLarge
	}
	pkt := make([]byte, size)
	if _, err := io.ReadFull(c.rw, pkt); err != nil {
		return nil, err
	}
	return pkt, nil
}

// WritePacket implements comm.PacketConn. The prefix and the packet go
// out in a single Write.
func (c *Conn) WritePacket(pkt []byte) error {
	if len(pkt) > MaxPacketSize {
		return ErrPacketTooLarge
	}
	buf := make([]byte, 4+len(pkt))
	binary.LittleEndian.PutUint32(buf, uint32(len(pkt)))
	copy(buf[4:], pkt)
	_, err := c.rw.Write(buf)
	return err
}

// Close closes the stream when it can be closed.
func (c *Conn) Close() error {
	if closer, ok := c.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
