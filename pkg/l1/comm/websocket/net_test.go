package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListenDial(t *testing.T) {
	ln, err := Listen("127.0.0.1:0", "/l1")
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := Dialer("ws://" + ln.Addr().String() + "/l1")(ctx)
	require.NoError(t, err)
	server, err := ln.Accept()
	require.NoError(t, err)

	require.NoError(t, client.WritePacket([]byte{0x7f, 0x01}))
	pkt, err := server.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0x7f, 0x01}, pkt)

	require.NoError(t, server.WritePacket([]byte("ok")))
	pkt, err = client.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("ok"), pkt)
}

func TestAcceptAfterClose(t *testing.T) {
	ln, err := Listen("127.0.0.1:0", "/l1")
	require.NoError(t, err)
	require.NoError(t, ln.Close())
	_, err = ln.Accept()
	require.Equal(t, ErrListenerClosed, err)
}
