package hw

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteQueue(t *testing.T) {
	q := NewByteQueue(2)
	require.False(t, q.Push(1))
	require.False(t, q.Push(2))
	require.True(t, q.Push(3))
	require.Equal(t, 2, q.Len())

	for _, expect := range []byte{2, 3} {
		v, err := q.ReceiveByte(context.Background())
		require.NoError(t, err)
		require.Equal(t, expect, v)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.ReceiveByte(ctx)
	require.Equal(t, context.Canceled, err)
}
