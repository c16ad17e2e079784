// Package tracer runs the line tracer control cycle: receive the base
// speed, sample the sensor bar, map the line position to wheel speeds,
// drive the motors and show the result on the display.
package tracer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/linetracer/pkg/drive"
	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/hw"
	"github.com/robotalks/linetracer/pkg/l1"
	l1msgs "github.com/robotalks/linetracer/pkg/l1/msgs"
	"github.com/robotalks/linetracer/pkg/sensing"
	"github.com/robotalks/linetracer/pkg/tracer/msgs"
)

// ErrSpeedPaced rejects a SpeedCommand while the speed comes from the
// receiver.
var ErrSpeedPaced = errors.New("speed is paced by the receiver")

// State is the record of the last completed cycle.
type State struct {
	Speed   byte
	Frame   sensing.Frame
	Pattern drive.Pattern
	Matched bool
	Output  drive.Output
	Cycles  uint64
}

// Controller owns the platform and runs cycles, either directly with
// Cycle or as stages of a framework loop.
type Controller struct {
	Platform    hw.Platform
	Unit        *sensing.Unit
	Mapper      *drive.Mapper
	DisplayHold time.Duration
	SpeedMode   SpeedMode
	// Registrar receives a Status event after each cycle, optional.
	Registrar l1.Registrar
	// Sleep is used for display holds, defaults to sensing.Sleep.
	Sleep sensing.SleepFunc

	lock    sync.RWMutex
	latched byte
	state   State

	// in-flight cycle between loop stages.
	pending State
	sensed  bool
}

// NewController creates a Controller with default tuning.
func NewController(p hw.Platform) *Controller {
	return &Controller{
		Platform:    p,
		Unit:        sensing.NewUnit(p, p),
		Mapper:      drive.NewMapper(drive.DefaultThreshold),
		DisplayHold: DefaultDisplayHold,
		SpeedMode:   SpeedPaced,
	}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvTop, fx.ControlFunc(c.handleCommands))
	loop.AddController(fx.PrLvSense, fx.ControlFunc(func(cc fx.ControlContext) error {
		return c.sense(cc.Context())
	}))
	loop.AddController(fx.PrLvControl, fx.ControlFunc(func(fx.ControlContext) error {
		c.decide()
		return nil
	}))
	loop.AddController(fx.PrLvAcuate, fx.ControlFunc(func(cc fx.ControlContext) error {
		return c.actuate(cc.Context())
	}))
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(func(cc fx.ControlContext) error {
		return c.report(cc.Context())
	}))
}

// Cycle runs one complete cycle. When it fails, motors and display
// are left as they were and the returned state is the previous one.
func (c *Controller) Cycle(ctx context.Context) (State, error) {
	if err := c.sense(ctx); err != nil {
		return c.State(), err
	}
	c.decide()
	if err := c.actuate(ctx); err != nil {
		return c.State(), err
	}
	if err := c.report(ctx); err != nil {
		glog.Warningf("report status: %v", err)
	}
	return c.State(), nil
}

// State returns the record of the last completed cycle.
func (c *Controller) State() State {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.state
}

// SetSpeed sets the latched speed.
func (c *Controller) SetSpeed(speed byte) {
	c.lock.Lock()
	c.latched = speed
	c.lock.Unlock()
}

// Status converts the last cycle to the L1 event.
func (c *Controller) Status() *msgs.Status {
	return StatusOf(c.State())
}

// StatusOf converts a cycle record to the L1 event.
func StatusOf(s State) *msgs.Status {
	st := &msgs.Status{
		Values:   make([]uint32, len(s.Frame.Values)),
		Label:    s.Output.Label,
		Category: s.Output.Category.String(),
		Left:     uint32(s.Output.Left),
		Right:    uint32(s.Output.Right),
		Matched:  s.Matched,
		Speed:    uint32(s.Speed),
	}
	for n, v := range s.Frame.Values {
		st.Values[n] = uint32(v)
	}
	return st
}

func (c *Controller) speed(ctx context.Context) (byte, error) {
	if c.SpeedMode == SpeedLatched {
		c.lock.RLock()
		defer c.lock.RUnlock()
		return c.latched, nil
	}
	return c.Platform.ReceiveByte(ctx)
}

func (c *Controller) sense(ctx context.Context) error {
	c.sensed = false
	speed, err := c.speed(ctx)
	if err != nil {
		return fmt.Errorf("receive speed: %w", err)
	}
	frame, err := c.Unit.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	c.pending = State{Speed: speed, Frame: frame}
	c.sensed = true
	return nil
}

func (c *Controller) decide() {
	if !c.sensed {
		return
	}
	d := c.Mapper.Map(c.pending.Frame.Values, int(c.pending.Speed))
	c.pending.Pattern = d.Pattern
	c.pending.Matched = d.Matched()
	c.pending.Output = d.Output
}

func (c *Controller) actuate(ctx context.Context) error {
	if !c.sensed {
		return nil
	}
	c.sensed = false
	out := c.pending.Output
	if err := c.Platform.SetLeftSpeed(out.Left); err != nil {
		return fmt.Errorf("left motor: %w", err)
	}
	if err := c.Platform.SetRightSpeed(out.Right); err != nil {
		return fmt.Errorf("right motor: %w", err)
	}

	c.lock.Lock()
	c.pending.Cycles = c.state.Cycles + 1
	c.state = c.pending
	c.lock.Unlock()

	if err := c.show(ctx, LabelRow, out.Label); err != nil {
		return err
	}
	return c.show(ctx, ValuesRow, ValuesLine(c.pending.Frame.Values))
}

func (c *Controller) show(ctx context.Context, row int, text string) error {
	if err := c.Platform.WriteLine(row, text); err != nil {
		return fmt.Errorf("display row %d: %w", row, err)
	}
	sleep := c.Sleep
	if sleep == nil {
		sleep = sensing.Sleep
	}
	return sleep(ctx, c.DisplayHold)
}

func (c *Controller) report(ctx context.Context) error {
	if c.Registrar == nil {
		return nil
	}
	c.lock.RLock()
	cycles := c.state.Cycles
	c.lock.RUnlock()
	if cycles == 0 {
		return nil
	}
	return c.Registrar.SendEvent(ctx, c.Status())
}

func (c *Controller) handleCommands(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		var reply fx.Message
		switch m := cmdMsg.Command.Msg().(type) {
		case *msgs.SpeedCommand:
			if c.SpeedMode != SpeedLatched {
				reply = l1msgs.NewCommandErr(ErrSpeedPaced)
				break
			}
			speed := byte(drive.MaxSpeed)
			if m.Speed < drive.MaxSpeed {
				speed = byte(m.Speed)
			}
			c.SetSpeed(speed)
			glog.V(1).Infof("speed latched at %d", speed)
			reply = l1msgs.NewCommandOK()
		case *msgs.StatusQuery:
			reply = &msgs.StatusReply{Status: c.Status()}
		default:
			return
		}
		mctx.MessageTaken()
		if err := cmdMsg.Command.Done(reply); err != nil {
			glog.Errorf("reply %T: %v", cmdMsg.Command.Msg(), err)
		}
	}))
	return nil
}
