package comm

import (
	"context"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultTimeout bounds the silence inside a frame or a handshake.
const DefaultTimeout = 100 * time.Millisecond

// Link exchanges packets over a byte stream.
type Link struct {
	Port io.ReadWriter
	// Timeout restarts the handshake when a frame stalls.
	Timeout time.Duration
	// OnPacket is called on the Run goroutine for every packet received.
	OnPacket func(*Packet)
	// OnSync is called on the Run goroutine when the link gains or
	// loses sync.
	OnSync func(inSync bool)

	lock   sync.Mutex
	seq    Seq
	inSync bool
	dec    Decoder
}

// NewLink creates a Link on a port.
func NewLink(port io.ReadWriter) *Link {
	return &Link{Port: port, Timeout: DefaultTimeout, seq: randomSeq()}
}

// InSync reports whether Send can succeed.
func (l *Link) InSync() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.inSync
}

// Send numbers the packet and writes it.
func (l *Link) Send(pkt *Packet) error {
	if len(pkt.Data) > MaxDataLen {
		return ErrTooLong
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	if !l.inSync {
		return ErrNotReady
	}
	pkt.Seq = l.seq
	if _, err := l.Port.Write(pkt.Encode(nil)); err != nil {
		return err
	}
	l.seq = l.seq.Next()
	return nil
}

// Run requests a handshake and decodes received bytes until ctx is
// done or the port fails. A read timeout on the port is not a failure.
func (l *Link) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	recvCh, errCh := make(chan byte), make(chan error, 1)
	go l.receive(ctx, recvCh, errCh)

	timer := time.NewTimer(l.Timeout)
	defer timer.Stop()
	if err := l.apply(l.dec.Reset()); err != nil {
		return err
	}
	for {
		var step Step
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case b := <-recvCh:
			step = l.dec.Feed(b)
		case <-timer.C:
			step = l.dec.Expire()
		}
		if err := l.apply(step); err != nil {
			return err
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		if l.dec.Pending() {
			timer.Reset(l.Timeout)
		}
	}
}

func (l *Link) receive(ctx context.Context, recvCh chan<- byte, errCh chan<- error) {
	buf := make([]byte, 64)
	for ctx.Err() == nil {
		n, err := l.Port.Read(buf)
		for _, b := range buf[:n] {
			select {
			case recvCh <- b:
			case <-ctx.Done():
				return
			}
		}
		if err != nil && !os.IsTimeout(err) {
			errCh <- err
			return
		}
	}
}

func (l *Link) apply(step Step) (err error) {
	l.lock.Lock()
	if step.Send != 0 {
		_, err = l.Port.Write([]byte{step.Send, byte(l.seq)})
	}
	inSync := l.dec.InSync()
	changed := inSync != l.inSync
	l.inSync = inSync
	l.lock.Unlock()
	if err != nil {
		return err
	}
	if changed && l.OnSync != nil {
		l.OnSync(inSync)
	}
	if step.Packet != nil && l.OnPacket != nil {
		l.OnPacket(step.Packet)
	}
	return nil
}
