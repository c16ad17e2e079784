// Package commtest emulates the board end of an L0 link in memory.
package commtest

import (
	"io"
	"sync"

	"github.com/robotalks/linetracer/pkg/l0/comm"
)

// HandleFunc answers a command with reply data, or fails it.
type HandleFunc func(code byte, data []byte) (reply []byte, fail bool)

// Firmware is the board side of a link. Use it as the host's port.
type Firmware struct {
	// Handle answers commands, nil replies with no data.
	Handle HandleFunc

	lock     sync.Mutex
	dec      comm.Decoder
	seq      comm.Seq
	toHost   chan byte
	closed   bool
	commands []comm.Packet
	synced   chan struct{}
}

// New creates a Firmware numbering its packets from seq.
func New(seq comm.Seq) *Firmware {
	return &Firmware{
		seq:    seq,
		toHost: make(chan byte, 1024),
		synced: make(chan struct{}, 16),
	}
}

// Read implements io.Reader for the host.
func (f *Firmware) Read(p []byte) (int, error) {
	b, ok := <-f.toHost
	if !ok {
		return 0, io.EOF
	}
	p[0] = b
	n := 1
	for ; n < len(p); n++ {
		select {
		case b, ok = <-f.toHost:
			if !ok {
				return n, nil
			}
			p[n] = b
		default:
			return n, nil
		}
	}
	return n, nil
}

// Write implements io.Writer for the host.
func (f *Firmware) Write(p []byte) (int, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.closed {
		return 0, io.ErrClosedPipe
	}
	for _, b := range p {
		step := f.dec.Feed(b)
		if step.Send != 0 {
			f.push(step.Send, byte(f.seq))
			if f.dec.InSync() {
				f.notifySynced()
			}
		}
		if pkt := step.Packet; pkt != nil {
			f.commands = append(f.commands, *pkt)
			f.answer(pkt)
		}
	}
	return len(p), nil
}

func (f *Firmware) answer(cmd *comm.Packet) {
	var data []byte
	var fail bool
	if f.Handle != nil {
		data, fail = f.Handle(cmd.Code, cmd.Data)
	}
	code := cmd.Code
	if fail {
		code |= comm.FlagError
	}
	f.send(code, append([]byte{byte(cmd.Seq)}, data...))
}

func (f *Firmware) send(code byte, data []byte) {
	pkt := &comm.Packet{Seq: f.seq, Code: code, Data: data}
	f.seq = f.seq.Next()
	f.push(pkt.Encode(nil)...)
}

func (f *Firmware) push(bs ...byte) {
	for _, b := range bs {
		f.toHost <- b
	}
}

func (f *Firmware) notifySynced() {
	select {
	case f.synced <- struct{}{}:
	default:
	}
}

// Emit sends an event packet.
func (f *Firmware) Emit(code byte, data ...byte) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if !f.closed {
		f.send(code|comm.FlagEvent, data)
	}
}

// Inject sends raw bytes, e.g. line noise.
func (f *Firmware) Inject(bs ...byte) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if !f.closed {
		f.push(bs...)
	}
}

// Synced is signaled whenever the host requested a handshake.
func (f *Firmware) Synced() <-chan struct{} {
	return f.synced
}

// Commands returns the commands received so far.
func (f *Firmware) Commands() []comm.Packet {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]comm.Packet(nil), f.commands...)
}

// Close makes the host see io.EOF.
func (f *Firmware) Close() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if !f.closed {
		f.closed = true
		close(f.toHost)
	}
	return nil
}
