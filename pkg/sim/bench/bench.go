// Package bench provides a scripted Platform: readings are set by the
// caller and every hardware call is recorded in order.
package bench

import (
	"context"
	"fmt"
	"sync"

	"github.com/robotalks/linetracer/pkg/hw"
)

// Bench implements hw.Platform for tests and dry runs.
type Bench struct {
	// Fail, if set, is consulted on every ADC read.
	Fail func(input int, emitter bool) error

	on, off [hw.Channels]uint8
	emitter bool
	left    uint8
	right   uint8
	lines   map[int]string
	calls   []string
	speeds  chan byte
	lock    sync.Mutex
}

// New creates a Bench with room for queued speed bytes.
func New() *Bench {
	return &Bench{
		lines:  make(map[int]string),
		speeds: make(chan byte, 256),
	}
}

// SetReadings sets the readings returned with emitters lit and dark.
func (b *Bench) SetReadings(on, off [hw.Channels]uint8) *Bench {
	b.lock.Lock()
	b.on, b.off = on, off
	b.lock.Unlock()
	return b
}

// FeedSpeed queues speed command bytes.
func (b *Bench) FeedSpeed(bs ...byte) *Bench {
	for _, v := range bs {
		b.speeds <- v
	}
	return b
}

// Calls returns the recorded calls and clears the record.
func (b *Bench) Calls() []string {
	b.lock.Lock()
	defer b.lock.Unlock()
	calls := b.calls
	b.calls = nil
	return calls
}

// Speeds returns the last motor outputs.
func (b *Bench) Speeds() (left, right uint8) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.left, b.right
}

// Line returns the last text written to a display row.
func (b *Bench) Line(row int) string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.lines[row]
}

// Emitter reports whether the emitters are lit.
func (b *Bench) Emitter() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.emitter
}

func (b *Bench) record(format string, args ...interface{}) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

// ReadChannel implements hw.ADC.
func (b *Bench) ReadChannel(ctx context.Context, ch int) (uint8, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.record("adc:%d", ch)
	if ch < 0 || ch >= hw.Channels {
		return 0, fmt.Errorf("invalid ADC input %d", ch)
	}
	if b.Fail != nil {
		if err := b.Fail(ch, b.emitter); err != nil {
			return 0, err
		}
	}
	if b.emitter {
		return b.on[ch], nil
	}
	return b.off[ch], nil
}

// SetEmitter implements hw.Emitter.
func (b *Bench) SetEmitter(on bool) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if on {
		b.record("emitter:on")
	} else {
		b.record("emitter:off")
	}
	b.emitter = on
	return nil
}

// SetLeftSpeed implements hw.Motors.
func (b *Bench) SetLeftSpeed(value uint8) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.record("left:%d", value)
	b.left = value
	return nil
}

// SetRightSpeed implements hw.Motors.
func (b *Bench) SetRightSpeed(value uint8) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.record("right:%d", value)
	b.right = value
	return nil
}

// ReceiveByte implements hw.SpeedReceiver.
func (b *Bench) ReceiveByte(ctx context.Context) (byte, error) {
	b.lock.Lock()
	b.record("recv")
	b.lock.Unlock()
	select {
	case v := <-b.speeds:
		return v, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// WriteLine implements hw.Display.
func (b *Bench) WriteLine(row int, text string) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.record("lcd:%d:%s", row, text)
	b.lines[row] = text
	return nil
}

var _ hw.Platform = (*Bench)(nil)
