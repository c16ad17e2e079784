package comm

import (
	"context"
	"sync"

	"github.com/golang/glog"
)

// EventQueueLen is the number of events buffered for the consumer.
const EventQueueLen = 16

// Client issues commands over a Link. The board answers commands in
// order, so a reply also fails every older command still waiting.
type Client struct {
	link    *Link
	events  chan *Packet
	syncs   chan bool
	lock    sync.Mutex
	pending []*call
}

type call struct {
	seq  Seq
	done chan reply
}

type reply struct {
	data []byte
	err  error
}

// NewClient creates a Client and takes over the link callbacks.
func NewClient(link *Link) *Client {
	c := &Client{
		link:   link,
		events: make(chan *Packet, EventQueueLen),
		syncs:  make(chan bool, 1),
	}
	link.OnPacket = c.dispatch
	link.OnSync = c.syncChanged
	return c
}

// Link returns the wrapped Link.
func (c *Client) Link() *Link {
	return c.link
}

// Events delivers event packets. The link stalls while it is full.
func (c *Client) Events() <-chan *Packet {
	return c.events
}

// Sync delivers the latest sync state, older states are dropped.
func (c *Client) Sync() <-chan bool {
	return c.syncs
}

// Run implements Runnable.
func (c *Client) Run(ctx context.Context) error {
	return c.link.Run(ctx)
}

// Call sends a command and waits for its reply data.
func (c *Client) Call(ctx context.Context, code byte, data ...byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pending := &call{done: make(chan reply, 1)}
	pkt := &Packet{Code: code, Data: data}
	c.lock.Lock()
	err := c.link.Send(pkt)
	if err == nil {
		pending.seq = pkt.Seq
		c.pending = append(c.pending, pending)
	}
	c.lock.Unlock()
	if err != nil {
		return nil, err
	}
	select {
	case r := <-pending.done:
		return r.data, r.err
	case <-ctx.Done():
		c.forget(pending)
		return nil, ctx.Err()
	}
}

func (c *Client) forget(pending *call) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for n, p := range c.pending {
		if p == pending {
			c.pending = append(c.pending[:n:n], c.pending[n+1:]...)
			return
		}
	}
}

func (c *Client) dispatch(pkt *Packet) {
	if pkt.IsEvent() {
		c.events <- pkt
		return
	}
	if len(pkt.Data) == 0 || !Seq(pkt.Data[0]).Valid() {
		glog.V(2).Infof("malformed reply %#02x dropped", pkt.Code)
		return
	}
	seq := Seq(pkt.Data[0])
	c.lock.Lock()
	n := 0
	for n < len(c.pending) && c.pending[n].seq != seq {
		n++
	}
	if n == len(c.pending) {
		c.lock.Unlock()
		glog.V(2).Infof("reply to %d matches no command", seq)
		return
	}
	skipped, answered := c.pending[:n], c.pending[n]
	c.pending = append([]*call(nil), c.pending[n+1:]...)
	c.lock.Unlock()

	for _, p := range skipped {
		p.done <- reply{err: ErrNoReply}
	}
	if pkt.Code&FlagError != 0 {
		answered.done <- reply{err: &CommandError{Code: pkt.Code &^ (FlagError | FlagEvent)}}
	} else {
		answered.done <- reply{data: pkt.Data[1:]}
	}
}

func (c *Client) syncChanged(inSync bool) {
	if !inSync {
		c.failPending(ErrNoReply)
	}
	select {
	case <-c.syncs:
	default:
	}
	c.syncs <- inSync
}

func (c *Client) failPending(err error) {
	c.lock.Lock()
	pending := c.pending
	c.pending = nil
	c.lock.Unlock()
	for _, p := range pending {
		p.done <- reply{err: err}
	}
}
