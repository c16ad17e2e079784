package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linetracer/pkg/hw"
	"github.com/robotalks/linetracer/pkg/l0/comm"
)

type fakeConn struct {
	lock    sync.Mutex
	calls   []string
	replies map[byte][]byte
	err     error
	events  chan *comm.Packet
	syncs   chan bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		replies: make(map[byte][]byte),
		events:  make(chan *comm.Packet),
		syncs:   make(chan bool),
	}
}

func (c *fakeConn) Call(ctx context.Context, code byte, data ...byte) ([]byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.calls = append(c.calls, fmt.Sprintf("%02x % x", code, data))
	return c.replies[code], c.err
}

func (c *fakeConn) Events() <-chan *comm.Packet { return c.events }
func (c *fakeConn) Sync() <-chan bool            { return c.syncs }

func (c *fakeConn) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (c *fakeConn) Calls() []string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.calls
}

func TestBoardCommands(t *testing.T) {
	conn := newFakeConn()
	conn.replies[CmdReadADC] = []byte{0xc8}
	b := New(conn)

	v, err := b.ReadChannel(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, uint8(200), v)
	require.NoError(t, b.SetEmitter(true))
	require.NoError(t, b.SetEmitter(false))
	require.NoError(t, b.SetLeftSpeed(100))
	require.NoError(t, b.SetRightSpeed(16))
	require.NoError(t, b.WriteLine(1, "Stop         WH"))

	require.Equal(t, []string{
		"02 03 01",
		"04 01",
		"04 00",
		"06 00 64",
		"06 01 10",
		"08 01 53 74 6f 70 20 20 20 20 20 20 20 20 20 57 48 20",
	}, conn.Calls())
}

func TestBoardErrors(t *testing.T) {
	conn := newFakeConn()
	b := New(conn)
	_, err := b.ReadChannel(context.Background(), 0)
	require.Error(t, err)

	conn.err = &comm.CommandError{Code: 2}
	_, err = b.ReadChannel(context.Background(), 0)
	var cmdErr *comm.CommandError
	require.True(t, errors.As(err, &cmdErr))

	require.Error(t, b.WriteLine(2, "x"))
	_, err = b.ReadChannel(context.Background(), -1)
	require.Error(t, err)
}

func TestBoardSpeedEvents(t *testing.T) {
	conn := newFakeConn()
	b := New(conn)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	conn.syncs <- true
	conn.events <- &comm.Packet{Code: 0x81, Data: []byte{9}}
	conn.events <- &comm.Packet{Code: EvtSpeed, Data: []byte{120}}
	conn.events <- &comm.Packet{Code: EvtSpeed, Data: []byte{130}}

	for _, expect := range []byte{120, 130} {
		rctx, rcancel := context.WithTimeout(context.Background(), time.Second)
		v, err := b.ReceiveByte(rctx)
		rcancel()
		require.NoError(t, err)
		require.Equal(t, expect, v)
	}

	cancel()
	require.Equal(t, context.Canceled, <-done)
}

func TestBoardSpeedOverflowDropsOldest(t *testing.T) {
	b := New(newFakeConn())
	for n := 0; n < hw.DefaultQueueLen+4; n++ {
		b.handleEvent(&comm.Packet{Code: EvtSpeed, Data: []byte{byte(n)}})
	}
	v, err := b.ReceiveByte(context.Background())
	require.NoError(t, err)
	require.Equal(t, byte(4), v)
}
