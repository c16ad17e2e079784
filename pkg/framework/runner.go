package framework

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Runner.Wait after a second signal.
var ErrForcedExit = errors.New("forced exit")

// RunnableFunc is the func form of Runnable.
type RunnableFunc func(context.Context) error

// Run implements Runnable.
func (f RunnableFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type namedRunnable struct {
	Runnable
	name string
}

func (r namedRunnable) Name() string { return r.name }

// NamedRun names a Runnable for the logs.
func NamedRun(name string, r Runnable) Runnable {
	return namedRunnable{Runnable: r, name: name}
}

// Runner runs Runnables on their own goroutines and collects their
// errors. context.Canceled is not an error.
type Runner struct {
	ctx    context.Context
	count  int
	wg     sync.WaitGroup
	lock   sync.Mutex
	errs   AggregatedError
	forced chan struct{}
}

// NewRunner creates a Runner whose Runnables stop with ctx.
func NewRunner(ctx context.Context) *Runner {
	return &Runner{ctx: ctx, forced: make(chan struct{})}
}

// HandleSignals stops the Runnables on SIGINT or SIGTERM. A second
// signal makes Wait return ErrForcedExit at once.
func (r *Runner) HandleSignals() *Runner {
	ctx, cancel := context.WithCancel(r.ctx)
	r.ctx = ctx
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.forced)
	}()
	return r
}

// Go starts runnables.
func (r *Runner) Go(runnables ...Runnable) *Runner {
	for _, runnable := range runnables {
		name := strconv.Itoa(r.count)
		if named, ok := runnable.(Named); ok {
			name = named.Name()
		}
		r.count++
		r.wg.Add(1)
		go r.run(name, runnable)
	}
	return r
}

func (r *Runner) run(name string, runnable Runnable) {
	defer r.wg.Done()
	glog.V(4).Infof("runner %s started", name)
	err := runnable.Run(r.ctx)
	glog.V(4).Infof("runner %s stopped: %v", name, err)
	if err != nil && err != context.Canceled {
		r.lock.Lock()
		r.errs.Add(err)
		r.lock.Unlock()
	}
}

// Wait waits for all Runnables to stop.
func (r *Runner) Wait() error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-r.forced:
		return ErrForcedExit
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.errs.Aggregate()
}

// RunWithContext runs fn, which takes no context, and returns
// ctx.Err() once ctx is done and fn has returned.
func RunWithContext(ctx context.Context, fn func() error) error {
	return runUntilDone(ctx, nil, fn)
}

// RunWithContextCloser is RunWithContext where closer unblocks fn when
// ctx is done. closer is closed exactly once either way.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var once sync.Once
	closeIt := func() { once.Do(func() { closer.Close() }) }
	defer closeIt()
	return runUntilDone(ctx, closeIt, fn)
}

func runUntilDone(ctx context.Context, onDone func(), fn func() error) error {
	result := make(chan error, 1)
	go func() { result <- fn() }()
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
	}
	if onDone != nil {
		onDone()
	}
	<-result
	return ctx.Err()
}
