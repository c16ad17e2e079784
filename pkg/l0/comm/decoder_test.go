package comm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// Codes the tracer board firmware answers.
const (
	readADC   byte = 0x02
	setMotor  byte = 0x06
	writeLine byte = 0x08
	evtSpeed  byte = 0x82
)

func TestSeq(t *testing.T) {
	testCases := []struct {
		seq, next Seq
		valid     bool
	}{
		{0, 1, false},
		{1, 2, true},
		{0x7f, 0x80, true},
		{0xee, 0xef, true},
		{0xef, 1, true},
		{0xf0, 1, false},
		{0xff, 1, false},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.next, tc.seq.Next(), "next of %#x", tc.seq)
		require.Equal(t, tc.valid, tc.seq.Valid(), "valid %#x", tc.seq)
	}
	for n := 0; n < 8; n++ {
		require.True(t, randomSeq().Valid())
	}
}

func TestEncode(t *testing.T) {
	label := []byte("Turn Left    BL ")
	testCases := []struct {
		name   string
		pkt    Packet
		expect []byte
	}{
		{"no data", Packet{Seq: 3, Code: readADC}, []byte{3, 0x02}},
		{"set motor", Packet{Seq: 5, Code: setMotor, Data: []byte{0, 100}}, []byte{5, 0x26, 0, 100}},
		{"speed event", Packet{Seq: 9, Code: evtSpeed, Data: []byte{120}}, []byte{9, 0x92, 120}},
		{"six bytes", Packet{Seq: 1, Code: 0x0a, Data: []byte{1, 2, 3, 4, 5, 6}}, []byte{1, 0x6a, 1, 2, 3, 4, 5, 6}},
		{"display row", Packet{Seq: 7, Code: writeLine, Data: append([]byte{1}, label...)},
			append([]byte{7, 0x78, 17, 1}, label...)},
		{"reply flag stays", Packet{Seq: 2, Code: setMotor | FlagError, Data: []byte{4}}, []byte{2, 0x17, 4}},
		{"high bits masked", Packet{Seq: 2, Code: 0x72}, []byte{2, 0x02}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.pkt.Encode(nil))
		})
	}
	require.Equal(t, []byte{0xaa, 3, 0x02}, (&Packet{Seq: 3, Code: readADC}).Encode([]byte{0xaa}))
}

func feed(d *Decoder, bs ...byte) (steps []Step) {
	for _, b := range bs {
		steps = append(steps, d.Feed(b))
	}
	return
}

func lastPacket(steps []Step) *Packet {
	for n := 0; n < len(steps)-1; n++ {
		if steps[n].Packet != nil || steps[n].Send != 0 {
			return nil
		}
	}
	return steps[len(steps)-1].Packet
}

func synced(t *testing.T, peer Seq) *Decoder {
	d := &Decoder{}
	require.Equal(t, Step{Send: ctlSync}, d.Reset())
	require.False(t, d.InSync())
	feed(d, ctlAck, byte(peer))
	require.True(t, d.InSync())
	require.False(t, d.Pending())
	return d
}

func TestDecoderHandshake(t *testing.T) {
	d := &Decoder{}
	require.True(t, d.Pending())
	steps := feed(d, 0x10, ctlSync, 0x30)
	require.Equal(t, []Step{{}, {}, {Send: ctlAck}}, steps)
	require.True(t, d.InSync())

	d = synced(t, 0x40)
	// the peer restarting the handshake while in sync
	steps = feed(d, ctlSync, 0x20)
	require.Equal(t, Step{Send: ctlAck}, steps[1])
	pkt := lastPacket(feed(d, (&Packet{Seq: 0x20, Code: evtSpeed, Data: []byte{9}}).Encode(nil)...))
	require.NotNil(t, pkt)

	// a late acknowledgement is tolerated when it carries the expected Seq
	require.Equal(t, []Step{{}, {}}, feed(d, ctlAck, 0x21))
	require.True(t, d.InSync())
}

func TestDecoderBoardTraffic(t *testing.T) {
	d := synced(t, 0x50)
	frames := []Packet{
		{Seq: 0x50, Code: readADC, Data: []byte{0x11, 220}},
		{Seq: 0x51, Code: evtSpeed, Data: []byte{120}},
		{Seq: 0x52, Code: writeLine | FlagError, Data: []byte{0x12}},
		{Seq: 0x53, Code: setMotor, Data: []byte{0x13}},
		{Seq: 0x54, Code: writeLine, Data: append([]byte{0x14}, bytes.Repeat([]byte{' '}, 16)...)},
	}
	for _, frame := range frames {
		pkt := lastPacket(feed(d, frame.Encode(nil)...))
		require.NotNil(t, pkt, "frame %v", frame)
		require.Equal(t, frame, *pkt)
	}
	require.True(t, frames[1].IsEvent())
	require.False(t, frames[0].IsEvent())

	// long form with zero length
	pkt := lastPacket(feed(d, 0x55, 0x70|readADC, 0))
	require.Equal(t, &Packet{Seq: 0x55, Code: readADC}, pkt)
}

func TestDecoderResync(t *testing.T) {
	t.Run("unexpected seq", func(t *testing.T) {
		d := synced(t, 0x10)
		require.Equal(t, Step{Send: ctlSync}, d.Feed(0x12))
		require.False(t, d.InSync())
	})
	t.Run("invalid handshake seq", func(t *testing.T) {
		d := &Decoder{}
		require.Equal(t, []Step{{}, {Send: ctlSync}}, feed(d, ctlAck, 0xf5))
		require.False(t, d.InSync())
	})
	t.Run("oversized length", func(t *testing.T) {
		d := synced(t, 0x10)
		steps := feed(d, 0x10, 0x70|writeLine, 0x80)
		require.Equal(t, Step{Send: ctlSync}, steps[2])
	})
	t.Run("stalled frame", func(t *testing.T) {
		d := synced(t, 0x10)
		require.Equal(t, Step{}, d.Expire())
		feed(d, 0x10, 0x20|setMotor, 1)
		require.True(t, d.Pending())
		require.Equal(t, Step{Send: ctlSync}, d.Expire())
		require.False(t, d.InSync())
		// the partial frame is gone after the next handshake
		feed(d, ctlAck, 0x11)
		pkt := lastPacket(feed(d, 0x11, 0x10|readADC, 7))
		require.Equal(t, &Packet{Seq: 0x11, Code: readADC, Data: []byte{7}}, pkt)
	})
}
