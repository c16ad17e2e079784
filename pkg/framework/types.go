package framework

import (
	"context"
	"time"
)

// Runnable is a background worker stopped by canceling its context.
type Runnable interface {
	Run(context.Context) error
}

// Named is implemented by things which have a name for the logs.
type Named interface {
	Name() string
}

// Message is anything posted to a Loop.
type Message interface {
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
}

// Controller runs once per iteration at its priority level.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// TimeSource provides the time of the current iteration.
type TimeSource interface {
	Time() time.Time
}

// LoopControl is how Runnables and Controllers talk back to the Loop.
type LoopControl interface {
	// PostMessage queues msg for the next iteration.
	PostMessage(Message)
	// TriggerNext starts the next iteration without waiting for
	// the interval.
	TriggerNext()
}

// ControlContext is what a Controller sees of the current iteration.
type ControlContext interface {
	TimeSource
	LoopControl
	Context() context.Context
	// Messages holds the messages posted before the iteration
	// started which no controller has taken yet.
	Messages() MessageStore
}

// MessageStore lets controllers take messages in posting order.
type MessageStore interface {
	ProcessMessages(MessageProcessor)
}

// MessageProcessor is called for each message in a MessageStore.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext is the message being processed.
type MessageProcessingContext interface {
	CurrentMessage() Message
	// MessageTaken removes the message so later controllers
	// don't see it.
	MessageTaken()
}

// Priority levels, lower runs first within an iteration.
const (
	PrLvTop      = 0
	PrLvSense    = 4
	PrLvControl  = 8
	PrLvAcuate   = 12
	PrLvPostProc = 14
	PrLvIdle     = 15

	priorityLevels = 16
)
