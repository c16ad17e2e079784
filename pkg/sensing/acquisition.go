// Package sensing implements the ambient-cancelled reflectance sampling
// of the sensor bar.
//
// Every acquisition takes one reading per channel with the emitters lit
// and one with them dark. Ambient light contributes to both, so the
// difference keeps only the light reflected from the emitters.
package sensing

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/linetracer/pkg/hw"
)

// DefaultSettle is the emitter stabilization delay.
const DefaultSettle = 10 * time.Millisecond

// Readings holds one raw reading per channel, left to right.
type Readings [hw.Channels]uint8

// Values holds the ambient-cancelled value per channel, left to right.
type Values [hw.Channels]uint8

// Frame is the result of one acquisition.
type Frame struct {
	On     Readings
	Off    Readings
	Values Values
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Unit samples the sensor bar.
type Unit struct {
	ADC     hw.ADC
	Emitter hw.Emitter
	// Settle is the delay after each emitter switch.
	Settle time.Duration
	// Inputs maps sensor position to ADC input.
	Inputs [hw.Channels]int
	// Sleep is used for settle delays, defaults to Sleep.
	Sleep SleepFunc
}

// DefaultInputs maps channel i to ADC input i.
var DefaultInputs = [hw.Channels]int{0, 1, 2, 3, 4}

// NewUnit creates a Unit with default settle delay and input mapping.
func NewUnit(adc hw.ADC, emitter hw.Emitter) *Unit {
	return &Unit{
		ADC:     adc,
		Emitter: emitter,
		Settle:  DefaultSettle,
		Inputs:  DefaultInputs,
	}
}

// Cancel subtracts the ambient reading, flooring at zero.
func Cancel(on, off uint8) uint8 {
	if on > off {
		return on - off
	}
	return 0
}

// CancelAll applies Cancel per channel.
func CancelAll(on, off Readings) (v Values) {
	for i := range v {
		v[i] = Cancel(on[i], off[i])
	}
	return
}

// Acquire runs one emitter-on/emitter-off sampling sequence.
func (u *Unit) Acquire(ctx context.Context) (f Frame, err error) {
	if err = u.Emitter.SetEmitter(true); err != nil {
		return f, fmt.Errorf("emitter on: %w", err)
	}
	if err = u.settle(ctx); err == nil {
		f.On, err = u.readAll(ctx)
	}
	if err != nil {
		if offErr := u.Emitter.SetEmitter(false); offErr != nil {
			glog.Warningf("emitter off after failure: %v", offErr)
		}
		return f, err
	}

	if err = u.Emitter.SetEmitter(false); err != nil {
		return f, fmt.Errorf("emitter off: %w", err)
	}
	if err = u.settle(ctx); err != nil {
		return f, err
	}
	if f.Off, err = u.readAll(ctx); err != nil {
		return f, err
	}

	f.Values = CancelAll(f.On, f.Off)
	if glog.V(4) {
		glog.Infof("on=%v off=%v values=%v", f.On, f.Off, f.Values)
	}
	return f, nil
}

func (u *Unit) readAll(ctx context.Context) (r Readings, err error) {
	for i, input := range u.Inputs {
		if r[i], err = u.ADC.ReadChannel(ctx, input); err != nil {
			return r, fmt.Errorf("read channel %d: %w", i, err)
		}
	}
	return
}

func (u *Unit) settle(ctx context.Context) error {
	sleep := u.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	return sleep(ctx, u.Settle)
}

// Sleep waits for d, returning early with ctx.Err() when ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
