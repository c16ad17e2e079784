package sensing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/linetracer/pkg/sim/bench"
)

func TestCancel(t *testing.T) {
	testCases := []struct {
		name   string
		on     uint8
		off    uint8
		expect uint8
	}{
		{"dark room", 200, 0, 200},
		{"ambient", 210, 60, 150},
		{"equal", 90, 90, 0},
		{"ambient exceeds", 40, 90, 0},
		{"full scale", 255, 0, 255},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Cancel(tc.on, tc.off))
		})
	}
}

func TestCancelFloor(t *testing.T) {
	for on := 0; on < 256; on++ {
		for off := on; off < 256; off++ {
			require.Zero(t, Cancel(uint8(on), uint8(off)), "on=%d off=%d", on, off)
		}
	}
}

func newTestUnit(b *bench.Bench) (*Unit, *[]time.Duration) {
	var sleeps []time.Duration
	u := NewUnit(b, b)
	u.Sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return u, &sleeps
}

func TestAcquire(t *testing.T) {
	b := bench.New().SetReadings(
		[5]uint8{200, 180, 50, 190, 255},
		[5]uint8{20, 20, 60, 0, 5},
	)
	u, sleeps := newTestUnit(b)
	f, err := u.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, Readings{200, 180, 50, 190, 255}, f.On)
	require.Equal(t, Readings{20, 20, 60, 0, 5}, f.Off)
	require.Equal(t, Values{180, 160, 0, 190, 250}, f.Values)
	require.Equal(t, []time.Duration{DefaultSettle, DefaultSettle}, *sleeps)
	require.Equal(t, []string{
		"emitter:on",
		"adc:0", "adc:1", "adc:2", "adc:3", "adc:4",
		"emitter:off",
		"adc:0", "adc:1", "adc:2", "adc:3", "adc:4",
	}, b.Calls())
	require.False(t, b.Emitter())
}

func TestAcquireInputMapping(t *testing.T) {
	b := bench.New().SetReadings([5]uint8{10, 20, 30, 40, 50}, [5]uint8{})
	u, _ := newTestUnit(b)
	u.Inputs = [5]int{4, 3, 2, 1, 0}
	f, err := u.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, Values{50, 40, 30, 20, 10}, f.Values)
}

func TestAcquireReadFailure(t *testing.T) {
	errStuck := errors.New("conversion stuck")
	testCases := []struct {
		name    string
		emitter bool
		calls   []string
	}{
		{
			name:    "while lit",
			emitter: true,
			calls:   []string{"emitter:on", "adc:0", "adc:1", "emitter:off"},
		},
		{
			name:    "while dark",
			emitter: false,
			calls: []string{
				"emitter:on",
				"adc:0", "adc:1", "adc:2", "adc:3", "adc:4",
				"emitter:off",
				"adc:0", "adc:1",
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := bench.New()
			b.Fail = func(input int, emitter bool) error {
				if input == 1 && emitter == tc.emitter {
					return errStuck
				}
				return nil
			}
			u, _ := newTestUnit(b)
			_, err := u.Acquire(context.Background())
			require.True(t, errors.Is(err, errStuck))
			require.Equal(t, tc.calls, b.Calls())
			require.False(t, b.Emitter())
		})
	}
}

func TestSleepCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, context.Canceled, Sleep(ctx, time.Hour))
	require.NoError(t, Sleep(context.Background(), time.Millisecond))
}
