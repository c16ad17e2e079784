// Package websocket carries L1 packets in binary websocket frames.
package websocket

import "golang.org/x/net/websocket"

// Conn sends one packet per websocket message.
type Conn struct {
	ws *websocket.Conn
}

// New wraps a websocket connection.
func New(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// ReadPacket implements comm.PacketConn.
func (c *Conn) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive(c.ws, &pkt)
	return
}

// WritePacket implements comm.PacketConn.
func (c *Conn) WritePacket(pkt []byte) error {
	return websocket.Message.Send(c.ws, pkt)
}

// Close implements io.Closer.
func (c *Conn) Close() error {
	return c.ws.Close()
}
