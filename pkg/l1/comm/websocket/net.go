package websocket

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"golang.org/x/net/websocket"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/l1/comm"
)

// ErrListenerClosed is returned by Accept after Close.
var ErrListenerClosed = errors.New("listener closed")

// Listener serves websocket connections on an HTTP path.
type Listener struct {
	server *http.Server
	ln     net.Listener
	connCh chan *serverConn
	done   chan struct{}
	once   sync.Once
}

// serverConn keeps the websocket handler alive until the packet
// connection is closed.
type serverConn struct {
	*Conn
	closed chan struct{}
	once   sync.Once
}

func (c *serverConn) Close() error {
	var err error
	c.once.Do(func() {
		err = c.Conn.Close()
		close(c.closed)
	})
	return err
}

// Listen serves websocket connections at path on a TCP address.
func Listen(addr, path string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	l := &Listener{
		ln:     ln,
		connCh: make(chan *serverConn),
		done:   make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.Handle(path, websocket.Handler(l.serve))
	l.server = &http.Server{Handler: mux}
	go l.server.Serve(ln)
	return l, nil
}

func (l *Listener) serve(ws *websocket.Conn) {
	conn := &serverConn{Conn: New(ws), closed: make(chan struct{})}
	select {
	case l.connCh <- conn:
	case <-l.done:
		return
	}
	select {
	case <-conn.closed:
	case <-l.done:
	}
}

// Addr returns the listening address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Accept implements comm.Acceptor.
func (l *Listener) Accept() (comm.PacketConn, error) {
	select {
	case conn := <-l.connCh:
		return conn, nil
	case <-l.done:
		return nil, ErrListenerClosed
	}
}

// Close implements comm.Acceptor.
func (l *Listener) Close() error {
	var err error
	l.once.Do(func() {
		close(l.done)
		err = l.server.Close()
	})
	return err
}

// Dialer returns a comm.DialFunc connecting to a websocket URL,
// e.g. ws://host:port/l1.
func Dialer(url string) comm.DialFunc {
	return func(ctx context.Context) (comm.PacketConn, error) {
		conf, err := websocket.NewConfig(url, "http://localhost/")
		if err != nil {
			return nil, err
		}
		var conn *websocket.Conn
		err = fx.RunWithContext(ctx, func() (err error) {
			conn, err = websocket.DialConfig(conf)
			return
		})
		if err != nil {
			if conn != nil {
				conn.Close()
			}
			return nil, err
		}
		return New(conn), nil
	}
}
