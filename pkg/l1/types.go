// Package l1 defines how a tracer is exposed to remote clients and how
// clients reach it.
package l1

import (
	"context"

	fx "github.com/robotalks/linetracer/pkg/framework"
)

// Registrar publishes a controller and feeds received commands into
// its loop as CommandMsg.
type Registrar interface {
	// SendEvent broadcasts an event to connected clients.
	SendEvent(context.Context, fx.Message) error
}

// Command is a received request. Done sends the reply and must be
// called once.
type Command interface {
	Msg() fx.Message
	Done(reply fx.Message) error
}

// CommandMsg carries a Command through the loop.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// Connector is the client side of a registry.
type Connector interface {
	Discover(context.Context) ([]ControllerInfo, error)
	Connect(context.Context, ControllerRef) (ControllerConn, error)
}

// ControllerConn sends commands to a connected controller. Events
// from the controller are posted to the loop the conn is added to.
type ControllerConn interface {
	DoCommand(fx.Message) CommandFuture
}

// CommandFuture resolves once with the reply or the failure.
type CommandFuture interface {
	ResultChan() <-chan Result
}

// Result is the outcome of a command. Err is set for CommandErr
// replies and expirations.
type Result struct {
	Msg fx.Message
	Err error
}
