package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	// full push up on the speed axis, time 0x10
	ev := decodeEvent([]byte{0x10, 0, 0, 0, 0x01, 0x80, typeAxis, 1})
	axis, ok := ev.(AxisEvent)
	require.True(t, ok)
	assert.Equal(t, 1, axis.Index())
	assert.Equal(t, -32767, axis.Value())
	assert.False(t, axis.IsInit())

	ev = decodeEvent([]byte{0, 0, 0, 0, 1, 0, typeButton | typeInit, 3})
	btn, ok := ev.(ButtonEvent)
	require.True(t, ok)
	assert.Equal(t, 3, btn.Index())
	assert.True(t, btn.Pressed())
	assert.True(t, btn.IsInit())

	assert.Nil(t, decodeEvent([]byte{0, 0, 0, 0, 0, 0, 0x04, 0}))
}
