package comm

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/l1/msgs"
)

// PacketConn carries one encoded msgs.Typed per packet.
type PacketConn interface {
	ReadPacket() ([]byte, error)
	WritePacket([]byte) error
}

// Pipe exchanges typed messages over a PacketConn. Messages received
// are given to Handler on the Run goroutine; sending is safe from any
// goroutine.
type Pipe struct {
	Conn    PacketConn
	Handler msgs.TypedMsgHandler

	writeLock sync.Mutex
}

// SendCommand sends a command, or a reply to the command numbered seq.
func (p *Pipe) SendCommand(msg fx.Message, seq uint32) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	if !typed.IsCommand() {
		return fmt.Errorf("%T is not a command", msg)
	}
	typed.Sequence = seq
	return p.write(typed)
}

// SendEvent sends an event.
func (p *Pipe) SendEvent(msg fx.Message) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	if !typed.IsEvent() {
		return fmt.Errorf("%T is not an event", msg)
	}
	return p.write(typed)
}

func (p *Pipe) write(typed *msgs.Typed) error {
	data, err := typed.Encode()
	if err != nil {
		return err
	}
	p.writeLock.Lock()
	defer p.writeLock.Unlock()
	return p.Conn.WritePacket(data)
}

// Run dispatches received messages until the connection fails, then
// closes it. io.EOF ends it without error.
func (p *Pipe) Run(ctx context.Context) error {
	defer p.Close()
	for {
		data, err := p.Conn.ReadPacket()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err = p.dispatch(ctx, data); err != nil {
			return err
		}
	}
}

// dispatch answers undecodable requests with CommandErr and drops
// undecodable replies and events.
func (p *Pipe) dispatch(ctx context.Context, data []byte) error {
	typed, err := msgs.DecodeTyped(data)
	if err != nil {
		return err
	}
	msg, err := typed.Decode()
	if err != nil {
		if typed.IsCommand() && !typed.IsReply() {
			return p.SendCommand(msgs.NewCommandErr(err), typed.Sequence)
		}
		glog.V(2).Infof("message %x dropped: %v", typed.TypeId, err)
		return nil
	}
	if p.Handler == nil {
		return nil
	}
	return p.Handler.HandleTypedMsg(ctx, msg, typed)
}

// Close closes the connection if it can be closed.
func (p *Pipe) Close() error {
	if c, ok := p.Conn.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// AddToLoop implements LoopAdder. A connection that needs running,
// e.g. an MQTT subscription, is added along with the pipe.
func (p *Pipe) AddToLoop(loop *fx.Loop) {
	switch conn := p.Conn.(type) {
	case fx.LoopAdder:
		loop.Add(conn)
	case fx.Runnable:
		loop.AddRunnable(conn)
	}
	loop.AddRunnable(p)
}
