package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"

	l1msgs "github.com/robotalks/linetracer/pkg/l1/msgs"
)

func TestStatusOverTyped(t *testing.T) {
	status := &Status{
		Values:   []uint32{180, 160, 0, 190, 250},
		Label:    "Forward      BL",
		Category: "Forward",
		Left:     100,
		Right:    100,
		Matched:  true,
		Speed:    100,
	}
	typed, err := l1msgs.TypedFrom(status)
	require.NoError(t, err)
	require.True(t, typed.IsEvent())

	data, err := typed.Encode()
	require.NoError(t, err)
	decoded, err := l1msgs.DecodeTyped(data)
	require.NoError(t, err)
	msg, err := decoded.Decode()
	require.NoError(t, err)
	require.Equal(t, status, msg)
}

func TestCommandKinds(t *testing.T) {
	for _, m := range []l1msgs.SerializableMessage{&SpeedCommand{Speed: 7}, &StatusQuery{}} {
		typed, err := l1msgs.TypedFrom(m)
		require.NoError(t, err)
		require.True(t, typed.IsCommand(), "%T", m)
	}
	require.NotZero(t, StatusReplyTypeID&l1msgs.TypeIDMaskReply)
}
