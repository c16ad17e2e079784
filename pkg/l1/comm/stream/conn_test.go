package stream

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConn(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.NoError(t, rw.WritePacket([]byte("hello")))
	require.NoError(t, rw.WritePacket(nil))
	require.Equal(t, []byte{5, 0, 0, 0, 'h', 'e', 'l', 'l', 'o', 0, 0, 0, 0}, buf.Bytes())

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Empty(t, pkt)
	_, err = rw.ReadPacket()
	require.Error(t, err)
	require.NoError(t, rw.Close())

	buf.Write([]byte{0xff, 0xff, 0xff, 0xff})
	_, err = rw.ReadPacket()
	require.Equal(t, ErrPacketTooLarge, err)
	require.Equal(t, ErrPacketTooLarge, rw.WritePacket(make([]byte, MaxPacketSize+1)))
}

func TestListenDial(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := Dialer(ln.Addr().String())(ctx)
	require.NoError(t, err)
	server, err := ln.Accept()
	require.NoError(t, err)

	require.NoError(t, client.WritePacket([]byte{1, 2, 3}))
	pkt, err := server.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, pkt)
}
