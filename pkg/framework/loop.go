package framework

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the iteration interval of NewLoop.
const DefaultInterval = 100 * time.Millisecond

// Loop runs controllers in iterations, ordered by priority level, on a
// single goroutine, and runs Runnables in the background for as long
// as the loop runs. Runnables reach the loop via LoopCtlFrom.
type Loop struct {
	// Interval between iterations. Zero runs iterations back-to-back,
	// paced by blocking controllers.
	Interval time.Duration

	levels  [priorityLevels][]Controller
	runners []Runnable

	lock   sync.Mutex
	posted []Message
	wakeUp chan struct{}
}

// LoopAdder adds itself to a Loop, usually as controllers and
// Runnables.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopCtlKey struct{}

// LoopCtlFrom gets the LoopControl of the Loop running ctx.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtlKey{}).(LoopControl)
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval, wakeUp: make(chan struct{}, 1)}
}

// WithInterval sets the iteration interval.
func (l *Loop) WithInterval(d time.Duration) *Loop {
	l.Interval = d
	return l
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController adds controllers at priorityLevel. Controllers which
// are also Runnable are run in the background too.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.levels[priorityLevel] = append(l.levels[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if r, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, r)
		}
	}
	return l
}

// AddRunnable adds background workers.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.posted = append(l.posted, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUp <- struct{}{}:
	default:
	}
}

// Run implements Runnable. It returns once ctx is done and all
// Runnables stopped.
func (l *Loop) Run(ctx context.Context) error {
	runner := NewRunner(context.WithValue(ctx, loopCtlKey{}, LoopControl(l)))
	runner.Go(l.runners...)
	defer runner.Wait()

	var tick <-chan time.Time
	if l.Interval > 0 {
		ticker := time.NewTicker(l.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		if l.Interval <= 0 {
			l.TriggerNext()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		case <-l.wakeUp:
		}
		report(l.RunOnce(ctx))
	}
}

// RunOnce runs a single iteration on the calling goroutine and
// returns what the controllers failed with. Runnables are not started.
func (l *Loop) RunOnce(ctx context.Context) error {
	l.lock.Lock()
	it := &iteration{loop: l, now: time.Now(), messages: l.posted}
	l.posted = nil
	l.lock.Unlock()
	it.ctx = context.WithValue(ctx, loopCtlKey{}, LoopControl(l))

	var errs AggregatedError
	for _, ctls := range l.levels {
		for _, ctl := range ctls {
			errs.Add(ctl.Control(it))
		}
	}
	return errs.Aggregate()
}

// RunUntilSignaled runs the loop until SIGINT or SIGTERM.
func (l *Loop) RunUntilSignaled() error {
	return NewRunner(context.Background()).HandleSignals().Go(l).Wait()
}

// RunOrFail runs the loop from main.
func (l *Loop) RunOrFail() {
	if err := l.RunUntilSignaled(); err != nil {
		log.Fatalln(err)
	}
}

func report(err error) {
	switch e := err.(type) {
	case nil:
	case *AggregatedError:
		for _, err := range e.Errors {
			glog.Errorf("controller error: %v", err)
		}
	default:
		glog.Errorf("controller error: %v", err)
	}
}

// iteration implements ControlContext.
type iteration struct {
	loop     *Loop
	ctx      context.Context
	now      time.Time
	messages []Message
}

func (it *iteration) Context() context.Context { return it.ctx }
func (it *iteration) Time() time.Time          { return it.now }
func (it *iteration) Messages() MessageStore   { return it }
func (it *iteration) PostMessage(msg Message)  { it.loop.PostMessage(msg) }
func (it *iteration) TriggerNext()             { it.loop.TriggerNext() }

// ProcessMessages implements MessageStore.
func (it *iteration) ProcessMessages(proc MessageProcessor) {
	var cur cursor
	kept := it.messages[:0]
	for _, msg := range it.messages {
		cur.msg, cur.taken = msg, false
		proc.ProcessMessage(&cur)
		if !cur.taken {
			kept = append(kept, msg)
		}
	}
	for i := len(kept); i < len(it.messages); i++ {
		it.messages[i] = nil
	}
	it.messages = kept
}

type cursor struct {
	msg   Message
	taken bool
}

func (c *cursor) CurrentMessage() Message { return c.msg }
func (c *cursor) MessageTaken()           { c.taken = true }
