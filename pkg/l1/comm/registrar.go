package comm

import (
	"context"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/l1"
	"github.com/robotalks/linetracer/pkg/l1/msgs"
)

// Registrar is the controller end of one PacketConn.
type Registrar struct {
	pipe Pipe
}

// NewRegistrar creates a Registrar on conn.
func NewRegistrar(conn PacketConn) *Registrar {
	r := &Registrar{}
	r.pipe.Conn = conn
	r.pipe.Handler = PostToLoop(&r.pipe)
	return r
}

// SendEvent implements l1.Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.pipe.SendEvent(msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.pipe)
}

// PostToLoop handles messages received by a controller: events are
// posted as they are, commands are wrapped in l1.CommandMsg so the
// controller taking them replies on pipe.
func PostToLoop(pipe *Pipe) msgs.TypedMsgHandler {
	return msgs.HandleTypedMsgFunc(func(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
		post := msg
		if typed.IsCommand() {
			post = &l1.CommandMsg{Command: &pipeCommand{pipe: pipe, seq: typed.Sequence, msg: msg}}
		}
		loop := fx.LoopCtlFrom(ctx)
		loop.PostMessage(post)
		loop.TriggerNext()
		return nil
	})
}

type pipeCommand struct {
	pipe *Pipe
	seq  uint32
	msg  fx.Message
}

func (c *pipeCommand) Msg() fx.Message {
	return c.msg
}

func (c *pipeCommand) Done(reply fx.Message) error {
	return c.pipe.SendCommand(reply, c.seq)
}

// RegistrarMux sends events through every registrar, e.g. MQTT and a
// directly served endpoint.
type RegistrarMux struct {
	Registrars []l1.Registrar
}

// Add appends registrars.
func (m *RegistrarMux) Add(regs ...l1.Registrar) {
	m.Registrars = append(m.Registrars, regs...)
}

// SendEvent implements l1.Registrar.
func (m *RegistrarMux) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	for _, reg := range m.Registrars {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (m *RegistrarMux) AddToLoop(loop *fx.Loop) {
	for _, reg := range m.Registrars {
		if adder, ok := reg.(fx.LoopAdder); ok {
			loop.Add(adder)
		}
	}
}

// UnhandledCommands answers commands no controller took during the
// iteration with msgs.ErrUnsupportedCommand.
type UnhandledCommands struct{}

// Control implements Controller.
func (UnhandledCommands) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmd, ok := mctx.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		mctx.MessageTaken()
		cmd.Command.Done(msgs.NewCommandErr(msgs.ErrUnsupportedCommand))
	}))
	return nil
}

// AddToLoop implements LoopAdder.
func (u UnhandledCommands) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvIdle, u)
}
