package comm

import (
	"context"
	"sync"
	"time"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/l1"
	"github.com/robotalks/linetracer/pkg/l1/msgs"
)

// DefaultCommandExpiration bounds the wait for a reply.
const DefaultCommandExpiration = time.Second

// ControllerConn implements l1.ControllerConn over a Pipe. Replies
// resolve the command with the same sequence number, events are posted
// to the loop.
type ControllerConn struct {
	Expiration time.Duration

	pipe    Pipe
	lock    sync.Mutex
	lastSeq uint32
	waiting map[uint32]*future
}

// NewControllerConn creates a ControllerConn on conn.
func NewControllerConn(conn PacketConn) *ControllerConn {
	c := &ControllerConn{
		Expiration: DefaultCommandExpiration,
		waiting:    make(map[uint32]*future),
	}
	c.pipe.Conn = conn
	c.pipe.Handler = msgs.HandleTypedMsgFunc(c.receive)
	return c
}

// DoCommand implements l1.ControllerConn.
func (c *ControllerConn) DoCommand(msg fx.Message) l1.CommandFuture {
	f := &future{result: make(chan l1.Result, 1)}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.lastSeq++
	if c.lastSeq == 0 {
		c.lastSeq = 1
	}
	f.seq, f.deadline = c.lastSeq, time.Now().Add(c.Expiration)
	if err := c.pipe.SendCommand(msg, f.seq); err != nil {
		f.resolve(l1.Result{Err: err})
		return f
	}
	c.waiting[f.seq] = f
	return f
}

// Pending returns the number of commands waiting for replies.
func (c *ControllerConn) Pending() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.waiting)
}

// AddToLoop implements LoopAdder.
func (c *ControllerConn) AddToLoop(l *fx.Loop) {
	l.Add(&c.pipe)
	l.AddController(fx.PrLvIdle, fx.ControlFunc(func(fx.ControlContext) error {
		c.expire(time.Now())
		return nil
	}))
}

func (c *ControllerConn) receive(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if typed.IsEvent() {
		loop := fx.LoopCtlFrom(ctx)
		loop.PostMessage(msg)
		loop.TriggerNext()
		return nil
	}
	c.lock.Lock()
	f := c.waiting[typed.Sequence]
	delete(c.waiting, typed.Sequence)
	c.lock.Unlock()
	if f != nil {
		f.resolve(l1.Result{Msg: msg, Err: msgs.ReplyErr(msg)})
	}
	return nil
}

func (c *ControllerConn) expire(now time.Time) {
	c.lock.Lock()
	var expired []*future
	for seq, f := range c.waiting {
		if !now.Before(f.deadline) {
			expired = append(expired, f)
			delete(c.waiting, seq)
		}
	}
	c.lock.Unlock()
	for _, f := range expired {
		f.resolve(l1.Result{Err: context.DeadlineExceeded})
	}
}

type future struct {
	seq      uint32
	deadline time.Time
	result   chan l1.Result
}

func (f *future) resolve(res l1.Result) {
	f.result <- res
	close(f.result)
}

// ResultChan implements l1.CommandFuture.
func (f *future) ResultChan() <-chan l1.Result {
	return f.result
}
