package joystick

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/joystick/device"
	"github.com/robotalks/linetracer/pkg/joystick/msgs"
	"github.com/robotalks/linetracer/pkg/l1"
	connenv "github.com/robotalks/linetracer/pkg/l1/env/connector"
	env "github.com/robotalks/linetracer/pkg/l1/env/controller"
	l1msgs "github.com/robotalks/linetracer/pkg/l1/msgs"
	tracermsgs "github.com/robotalks/linetracer/pkg/tracer/msgs"
)

// reopenDelay is the wait before looking for a joystick again.
const reopenDelay = time.Second

// Controller is an L2 controller which drives the speed of a line
// tracer from a joystick axis.
type Controller struct {
	Env         *env.Env
	DeviceIndex int
	Verbose     bool
	Mapper      SpeedMapper

	conn          *connection
	device        *msgs.JoystickDevice
	connected     *msgs.JoystickConnect
	lastSpeed     int
	statusChanged bool
}

// NewController creates a Controller.
func NewController(e *env.Env) *Controller {
	return &Controller{
		Env:           e,
		DeviceIndex:   -1,
		Mapper:        SpeedMapper{Axis: 1, Max: 255, Invert: true},
		lastSpeed:     -1,
		statusChanged: true,
	}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(c)
	loop.AddController(fx.PrLvControl, c)
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(c.notifyStatusChange))
}

// Status is the current JoystickStatus.
func (c *Controller) Status() *msgs.JoystickStatus {
	return &msgs.JoystickStatus{
		Device:     c.device,
		Connection: c.connected,
		Speed:      c.Mapper.Status(c.lastSpeed),
	}
}

// Run looks for the joystick and posts its events to the loop until
// ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	ctl := fx.LoopCtlFrom(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reopenDelay):
		}
		dev := c.openDevice()
		if dev == nil {
			continue
		}
		glog.Infof("joystick %d %q opened", dev.Index(), dev.Name())
		ctl.PostMessage(&deviceMsg{device: &msgs.JoystickDevice{Index: uint32(dev.Index()), Name: dev.Name()}})
		ctl.TriggerNext()
		err := fx.RunWithContextCloser(ctx, dev, func() error {
			return c.readEvents(ctl, dev)
		})
		if err != context.Canceled {
			glog.Errorf("joystick %d: %v", dev.Index(), err)
		}
		ctl.PostMessage(&deviceMsg{})
		ctl.PostMessage(&eventMsg{stopAll: true})
		ctl.TriggerNext()
	}
}

func (c *Controller) openDevice() device.Device {
	if c.DeviceIndex >= 0 {
		dev, err := device.Open(c.DeviceIndex)
		if err != nil {
			glog.Errorf("open joystick %d: %v", c.DeviceIndex, err)
		}
		return dev
	}
	dev, err := device.DetectAndOpen(0)
	if err != nil {
		glog.Errorf("detect joystick: %v", err)
	} else if dev == nil {
		glog.V(1).Info("no joystick detected")
	}
	return dev
}

func (c *Controller) readEvents(ctl fx.LoopControl, dev device.Device) error {
	for {
		ev, err := dev.ReadEvent()
		if err != nil {
			return err
		}
		if ev == nil {
			continue
		}
		if c.Verbose {
			switch e := ev.(type) {
			case device.AxisEvent:
				glog.Infof("axis %d: %d init=%v", e.Index(), e.Value(), e.IsInit())
			case device.ButtonEvent:
				glog.Infof("button %d: %v init=%v", e.Index(), e.Pressed(), e.IsInit())
			}
		}
		ctl.PostMessage(&eventMsg{event: ev})
		ctl.TriggerNext()
	}
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch msg := mctx.CurrentMessage().(type) {
		case *l1.CommandMsg:
			switch m := msg.Command.Msg().(type) {
			case *msgs.JoystickStatusQuery:
				mctx.MessageTaken()
				msg.Command.Done(&msgs.JoystickStatusReply{Status: c.Status()})
			case *msgs.JoystickConnect:
				mctx.MessageTaken()
				msg.Command.Done(c.connect(cc, m))
			case *msgs.JoystickMapSpeed:
				mctx.MessageTaken()
				msg.Command.Done(c.mapSpeed(m))
			}
		case *eventMsg:
			mctx.MessageTaken()
			if c.conn != nil {
				c.conn.post(msg)
			} else if !msg.stopAll {
				glog.V(1).Info("joystick event dropped, no tracer connected")
			}
		case *deviceMsg:
			mctx.MessageTaken()
			c.device, c.statusChanged = msg.device, true
		case *speedMsg:
			mctx.MessageTaken()
			if msg.conn == c.conn {
				c.lastSpeed, c.statusChanged = int(msg.speed), true
			}
		}
	}))
	return nil
}

func (c *Controller) notifyStatusChange(cc fx.ControlContext) error {
	if !c.statusChanged {
		return nil
	}
	c.statusChanged = false
	return c.Env.Registrar.SendEvent(cc.Context(), c.Status())
}

func (c *Controller) mapSpeed(msg *msgs.JoystickMapSpeed) fx.Message {
	mapper, err := SpeedMapperFrom(msg)
	if err != nil {
		return l1msgs.NewCommandErr(err)
	}
	c.Mapper, c.statusChanged = mapper, true
	if c.conn != nil {
		c.conn.post(&mapMsg{mapper: mapper})
	}
	return l1msgs.NewCommandOK()
}

func (c *Controller) disconnect() {
	if c.conn != nil {
		c.conn.close()
		c.conn = nil
	}
	c.connected, c.lastSpeed, c.statusChanged = nil, -1, true
}

func (c *Controller) connect(cc fx.ControlContext, msg *msgs.JoystickConnect) fx.Message {
	c.disconnect()
	if *msg == (msgs.JoystickConnect{}) {
		return l1msgs.NewCommandOK()
	}
	conf := connenv.NewConfig()
	conf.RegistryURL = msg.RegistryURL
	if conf.RegistryURL == "" {
		if len(c.Env.RegistryURLs) == 0 {
			return l1msgs.NewCommandErrFromMsg("registry url required")
		}
		conf.RegistryURL = c.Env.RegistryURLs[0]
	}
	conf.Ref = l1.ControllerRef{Type: msg.Type, ID: msg.ID}
	if err := conf.Validate(); err != nil {
		return l1msgs.NewCommandErr(err)
	}
	connector, err := conf.NewConnector()
	if err != nil {
		return l1msgs.NewCommandErr(err)
	}
	conn, err := newConnection(cc, connector, conf.Ref, c.Mapper)
	if err != nil {
		return l1msgs.NewCommandErr(err)
	}
	c.conn = conn
	go conn.run()
	c.connected = &msgs.JoystickConnect{RegistryURL: conf.RegistryURL, Type: conf.Ref.Type, ID: conf.Ref.ID}
	return l1msgs.NewCommandOK()
}

// deviceMsg reports an opened joystick, or none when device is nil.
type deviceMsg struct {
	device *msgs.JoystickDevice
}

func (m *deviceMsg) NewMessage() fx.Message { return &deviceMsg{} }

type eventMsg struct {
	event   device.Event
	stopAll bool
}

func (m *eventMsg) NewMessage() fx.Message { return &eventMsg{} }

// speedMsg reports a speed sent by conn.
type speedMsg struct {
	conn  *connection
	speed uint8
}

func (m *speedMsg) NewMessage() fx.Message { return &speedMsg{} }

type mapMsg struct {
	mapper SpeedMapper
}

func (m *mapMsg) NewMessage() fx.Message { return &mapMsg{} }

// connection runs its own loop, so waiting on the tracer never
// blocks the joystick loop.
type connection struct {
	parent    fx.LoopControl
	ctx       context.Context
	cancel    func()
	conn      l1.ControllerConn
	loop      *fx.Loop
	mapper    SpeedMapper
	lastSpeed int
}

func newConnection(cc fx.ControlContext, connector l1.Connector, ref l1.ControllerRef, mapper SpeedMapper) (*connection, error) {
	c := &connection{parent: cc, mapper: mapper, lastSpeed: -1}
	c.ctx, c.cancel = context.WithCancel(cc.Context())
	conn, err := connector.Connect(c.ctx, ref)
	if err != nil {
		c.cancel()
		return nil, err
	}
	c.conn = conn
	c.loop = fx.NewLoop()
	if adder, ok := conn.(fx.LoopAdder); ok {
		c.loop.Add(adder)
	}
	c.loop.AddController(fx.PrLvControl, c)
	return c, nil
}

func (c *connection) run() {
	c.loop.Run(c.ctx)
}

func (c *connection) close() {
	c.cancel()
}

func (c *connection) post(msg fx.Message) {
	c.loop.PostMessage(msg)
	c.loop.TriggerNext()
}

func (c *connection) handleEvent(ev device.Event) {
	if axis, ok := ev.(device.AxisEvent); ok && axis.Index() == c.mapper.Axis {
		c.setSpeed(c.mapper.Speed(axis.Value()))
	}
}

func (c *connection) setSpeed(speed uint8) {
	if int(speed) == c.lastSpeed {
		return
	}
	c.lastSpeed = int(speed)
	res := c.conn.DoCommand(&tracermsgs.SpeedCommand{Speed: uint32(speed)})
	c.parent.PostMessage(&speedMsg{conn: c, speed: speed})
	c.parent.TriggerNext()
	go func() {
		if r := <-res.ResultChan(); r.Err != nil {
			glog.Warningf("SpeedCommand %d: %v", speed, r.Err)
		}
	}()
}

// Control implements Controller.
func (c *connection) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch msg := mctx.CurrentMessage().(type) {
		case *eventMsg:
			mctx.MessageTaken()
			if msg.stopAll {
				c.setSpeed(0)
			} else {
				c.handleEvent(msg.event)
			}
		case *mapMsg:
			mctx.MessageTaken()
			c.mapper = msg.mapper
		}
	}))
	return nil
}
