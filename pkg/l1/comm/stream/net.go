package stream

import (
	"context"
	"net"

	"github.com/robotalks/linetracer/pkg/l1/comm"
)

// Listener accepts length-prefixed packet connections.
type Listener struct {
	net.Listener
}

// Listen listens on a TCP address.
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{Listener: ln}, nil
}

// Accept implements comm.Acceptor.
func (l *Listener) Accept() (comm.PacketConn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Dialer returns a comm.DialFunc connecting to a TCP address.
func Dialer(addr string) comm.DialFunc {
	return func(ctx context.Context) (comm.PacketConn, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		return New(conn), nil
	}
}
