package comm

import "time"

// Seq numbers packets in one direction. Valid values are 1 to 0xef,
// higher values are link control bytes.
type Seq byte

const maxSeq Seq = 0xef

// Link control bytes.
const (
	ctlSync byte = 0xff
	ctlAck  byte = 0xfe
)

// Code flags.
const (
	FlagEvent byte = 0x80
	FlagError byte = 0x01

	codeMask byte = 0x8f
)

// MaxDataLen is the largest payload a packet carries.
const MaxDataLen = 0x7f

// longLen in the length bits means a length byte follows the code.
const longLen = 7

func randomSeq() Seq {
	return Seq(byte(time.Now().UnixNano())).Next()
}

// Next returns the following Seq, wrapping to 1.
func (s Seq) Next() Seq {
	if s >= maxSeq {
		return 1
	}
	return s + 1
}

// Valid reports whether s can number a packet.
func (s Seq) Valid() bool {
	return s > 0 && s <= maxSeq
}

// Packet is a command, reply or event.
type Packet struct {
	Seq  Seq
	Code byte
	Data []byte
}

// IsEvent reports whether the board sent the packet unsolicited.
func (p *Packet) IsEvent() bool {
	return p.Code&FlagEvent != 0
}

// Encode appends the framed packet to buf.
func (p *Packet) Encode(buf []byte) []byte {
	code := p.Code & codeMask
	if n := len(p.Data); n < longLen {
		buf = append(buf, byte(p.Seq), code|byte(n)<<4)
	} else {
		buf = append(buf, byte(p.Seq), code|longLen<<4, byte(n))
	}
	return append(buf, p.Data...)
}
