package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/robotalks/linetracer/pkg/l1"
)

// Each tracer owns three topics under the broker prefix:
//
//   <type>/<id>/cmd   commands from L2
//   <type>/<id>/msg   replies and events from the tracer
//   <type>/<id>/meta  retained ControllerMeta, empty when offline
const (
	leafCmd  = "cmd"
	leafMsg  = "msg"
	leafMeta = "meta"
)

// RecvQueueLen is the number of packets buffered per Conn.
const RecvQueueLen = 16

func topicOf(ref l1.ControllerRef, leaf string) string {
	return ref.Name() + "/" + leaf
}

// parseMeta extracts the tracer announced on a meta topic. ok is false
// for an empty payload, which means the tracer went offline.
func parseMeta(topic string, payload []byte) (info l1.ControllerInfo, ok bool, err error) {
	name := strings.TrimSuffix(topic, "/"+leafMeta)
	if name == topic {
		return info, false, fmt.Errorf("not a meta topic: %q", topic)
	}
	if info.Ref, err = l1.ParseRef(name); err != nil {
		return info, false, err
	}
	if len(payload) == 0 {
		return info, false, nil
	}
	if err = json.Unmarshal(payload, &info.Meta); err != nil {
		return info, false, fmt.Errorf("meta of %s: %v", info.Ref.Name(), err)
	}
	return info, true, nil
}

// Conn is a comm.PacketConn over two topics: packets arrive on Sub
// and are published to Pub. It must run to receive anything.
type Conn struct {
	Queue *Queue
	Sub   string
	Pub   string

	recv      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newConn(q *Queue, sub, pub string) *Conn {
	return &Conn{
		Queue: q,
		Sub:   sub,
		Pub:   pub,
		recv:  make(chan []byte, RecvQueueLen),
		done:  make(chan struct{}),
	}
}

// controllerConn is the tracer end: commands in, messages out.
func controllerConn(q *Queue, ref l1.ControllerRef) *Conn {
	return newConn(q, topicOf(ref, leafCmd), topicOf(ref, leafMsg))
}

// connectorConn is the L2 end: messages in, commands out.
func connectorConn(q *Queue, ref l1.ControllerRef) *Conn {
	return newConn(q, topicOf(ref, leafMsg), topicOf(ref, leafCmd))
}

// ReadPacket implements comm.PacketConn.
func (c *Conn) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-c.recv:
		return pkt, nil
	case <-c.done:
		return nil, io.EOF
	}
}

// WritePacket implements comm.PacketConn.
func (c *Conn) WritePacket(pkt []byte) error {
	select {
	case <-c.done:
		return io.ErrClosedPipe
	default:
	}
	token := c.Queue.Pub(c.Pub, pkt)
	token.Wait()
	return token.Error()
}

// Run subscribes Sub until ctx is done or the Conn is closed.
func (c *Conn) Run(ctx context.Context) error {
	sub := c.Queue.Sub(c.Sub, c.deliver)
	defer sub.Close()
	select {
	case <-ctx.Done():
		c.Close()
		return ctx.Err()
	case <-c.done:
		return nil
	}
}

// Close stops delivery. Pending ReadPacket calls return io.EOF.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *Conn) deliver(_ string, payload []byte) {
	select {
	case c.recv <- payload:
	case <-c.done:
	}
}
