package comm

type decodeState int

const (
	awaitSync    decodeState = iota // handshake requested, waiting for the peer
	awaitSyncSeq                    // peer requested a handshake, its Seq follows
	awaitAckSeq                     // peer acknowledged, its Seq follows
	idle                            // in sync, between packets
	awaitIdleAck                    // late acknowledgement while in sync
	awaitCode
	awaitLen
	awaitData
)

// Step is what the decoder asks for after consuming input.
type Step struct {
	// Send, if not zero, is a control byte to be written followed by
	// the local Seq.
	Send byte
	// Packet is a completely received packet.
	Packet *Packet
}

// Decoder reassembles packets from received bytes and follows the
// handshake. The zero value waits for the peer to synchronize.
type Decoder struct {
	peer  Seq
	state decodeState
	pkt   *Packet
	got   int
}

// InSync reports whether packets can be exchanged.
func (d *Decoder) InSync() bool {
	return d.state >= idle
}

// Pending reports whether a handshake or a frame is incomplete, in
// which case a stall should be reported with Expire.
func (d *Decoder) Pending() bool {
	return d.state != idle
}

// Reset drops any partial frame and requests a handshake.
func (d *Decoder) Reset() Step {
	d.state, d.pkt = awaitSync, nil
	return Step{Send: ctlSync}
}

// Expire reports that the peer stalled.
func (d *Decoder) Expire() Step {
	if d.state == idle {
		return Step{}
	}
	return d.Reset()
}

// Feed consumes one received byte.
func (d *Decoder) Feed(b byte) Step {
	switch d.state {
	case awaitSync:
		switch b {
		case ctlSync:
			d.state = awaitSyncSeq
		case ctlAck:
			d.state = awaitAckSeq
		}
	case awaitSyncSeq, awaitAckSeq:
		seq := Seq(b)
		if !seq.Valid() {
			return d.Reset()
		}
		requested := d.state == awaitSyncSeq
		d.peer, d.state = seq, idle
		if requested {
			return Step{Send: ctlAck}
		}
	case idle:
		switch {
		case b == ctlSync:
			d.state = awaitSyncSeq
		case b == ctlAck:
			d.state = awaitIdleAck
		case Seq(b) != d.peer:
			return d.Reset()
		default:
			d.pkt = &Packet{Seq: d.peer}
			d.peer = d.peer.Next()
			d.state = awaitCode
		}
	case awaitIdleAck:
		if Seq(b) != d.peer {
			return d.Reset()
		}
		d.state = idle
	case awaitCode:
		d.pkt.Code = b & codeMask
		switch n := int(b>>4) & longLen; n {
		case 0:
			return d.complete()
		case longLen:
			d.state = awaitLen
		default:
			d.expect(n)
		}
	case awaitLen:
		switch {
		case b > MaxDataLen:
			return d.Reset()
		case b == 0:
			return d.complete()
		}
		d.expect(int(b))
	case awaitData:
		d.pkt.Data[d.got] = b
		d.got++
		if d.got == len(d.pkt.Data) {
			return d.complete()
		}
	}
	return Step{}
}

func (d *Decoder) expect(n int) {
	d.pkt.Data, d.got = make([]byte, n), 0
	d.state = awaitData
}

func (d *Decoder) complete() Step {
	pkt := d.pkt
	d.pkt, d.state = nil, idle
	return Step{Packet: pkt}
}
