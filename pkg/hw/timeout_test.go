package hw

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stuckADC struct {
	Dummy
	release chan struct{}
}

// ReadChannel never honors ctx, like a conversion-complete flag that
// never gets set.
func (s *stuckADC) ReadChannel(ctx context.Context, ch int) (uint8, error) {
	<-s.release
	return 0, nil
}

func TestWithTimeout(t *testing.T) {
	t.Run("zero keeps platform", func(t *testing.T) {
		p := NewDummy()
		require.Equal(t, Platform(p), WithTimeout(p, 0))
	})

	t.Run("reading within bound", func(t *testing.T) {
		p := WithTimeout(&Dummy{Reading: 42}, time.Second)
		val, err := p.ReadChannel(context.Background(), 3)
		require.NoError(t, err)
		require.Equal(t, uint8(42), val)
	})

	t.Run("stuck conversion", func(t *testing.T) {
		s := &stuckADC{release: make(chan struct{})}
		defer close(s.release)
		p := WithTimeout(s, 10*time.Millisecond)
		_, err := p.ReadChannel(context.Background(), 2)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrTimeout))
		var te *TimeoutError
		require.True(t, errors.As(err, &te))
		require.Equal(t, "adc[2]", te.Op)
	})

	t.Run("caller cancel is not a timeout", func(t *testing.T) {
		s := &stuckADC{release: make(chan struct{})}
		defer close(s.release)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := WithTimeout(s, time.Second).ReadChannel(ctx, 0)
		require.Equal(t, context.Canceled, err)
	})
}

func TestFitLine(t *testing.T) {
	require.Equal(t, "Stop            ", FitLine("Stop"))
	require.Equal(t, "0123456789abcdef", FitLine("0123456789abcdefXYZ"))
}
