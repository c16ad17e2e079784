package hw

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout indicates a hardware wait exceeded its bound.
var ErrTimeout = errors.New("hardware wait timeout")

// TimeoutError reports which wait timed out.
type TimeoutError struct {
	Op    string
	After time.Duration
}

// Error implements error.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timeout after %v", e.Op, e.After)
}

// Is makes errors.Is(err, ErrTimeout) hold for any TimeoutError.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// WithTimeout bounds the blocking waits of p (ADC conversions and speed
// receives) to d. A zero or negative d returns p unchanged, which keeps
// the unbounded blocking behavior.
func WithTimeout(p Platform, d time.Duration) Platform {
	if d <= 0 {
		return p
	}
	return &bounded{Platform: p, timeout: d}
}

type bounded struct {
	Platform
	timeout time.Duration
}

type waitResult struct {
	val byte
	err error
}

// ReadChannel implements ADC.
func (b *bounded) ReadChannel(ctx context.Context, ch int) (uint8, error) {
	return b.wait(ctx, fmt.Sprintf("adc[%d]", ch), func(ctx context.Context) (byte, error) {
		return b.Platform.ReadChannel(ctx, ch)
	})
}

// ReceiveByte implements SpeedReceiver.
func (b *bounded) ReceiveByte(ctx context.Context) (byte, error) {
	return b.wait(ctx, "receive", b.Platform.ReceiveByte)
}

// wait runs fn in its own goroutine so adapters stuck in a call that
// ignores ctx still get abandoned when the bound expires.
func (b *bounded) wait(ctx context.Context, op string, fn func(context.Context) (byte, error)) (byte, error) {
	tctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	resCh := make(chan waitResult, 1)
	go func() {
		val, err := fn(tctx)
		resCh <- waitResult{val: val, err: err}
	}()
	select {
	case res := <-resCh:
		if res.err != nil && ctx.Err() == nil && tctx.Err() == context.DeadlineExceeded {
			return 0, &TimeoutError{Op: op, After: b.timeout}
		}
		return res.val, res.err
	case <-tctx.Done():
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return 0, &TimeoutError{Op: op, After: b.timeout}
	}
}
