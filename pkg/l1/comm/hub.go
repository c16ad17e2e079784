package comm

import (
	"context"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/linetracer/pkg/framework"
)

// Acceptor accepts packet connections, e.g. from a TCP or websocket
// listener.
type Acceptor interface {
	Accept() (PacketConn, error)
	Close() error
}

// Hub implements Registrar for a controller serving connections
// directly. Events are sent to every connected peer and commands from
// any peer are posted to the loop.
type Hub struct {
	Acceptor Acceptor

	lock  sync.Mutex
	pipes map[*Pipe]struct{}
}

// NewHub creates a Hub.
func NewHub(acceptor Acceptor) *Hub {
	return &Hub{Acceptor: acceptor, pipes: make(map[*Pipe]struct{})}
}

// SendEvent implements Registrar.
func (h *Hub) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	for _, pipe := range h.Pipes() {
		errs.Add(pipe.SendEvent(msg))
	}
	return errs.Aggregate()
}

// Pipes returns the connected pipes.
func (h *Hub) Pipes() []*Pipe {
	h.lock.Lock()
	defer h.lock.Unlock()
	pipes := make([]*Pipe, 0, len(h.pipes))
	for pipe := range h.pipes {
		pipes = append(pipes, pipe)
	}
	return pipes
}

// AddToLoop implements LoopAdder.
func (h *Hub) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(h)
}

// Run implements Runnable.
func (h *Hub) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	return fx.RunWithContextCloser(ctx, h.Acceptor, func() error {
		for {
			conn, err := h.Acceptor.Accept()
			if err != nil {
				return err
			}
			pipe := &Pipe{Conn: conn}
			pipe.Handler = PostToLoop(pipe)
			h.add(pipe)
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer h.remove(pipe)
				stop := make(chan struct{})
				defer close(stop)
				go func() {
					select {
					case <-ctx.Done():
						pipe.Close()
					case <-stop:
					}
				}()
				if err := pipe.Run(ctx); err != nil && ctx.Err() == nil {
					glog.V(1).Infof("peer disconnected: %v", err)
				}
			}()
		}
	})
}

func (h *Hub) add(pipe *Pipe) {
	h.lock.Lock()
	if h.pipes == nil {
		h.pipes = make(map[*Pipe]struct{})
	}
	h.pipes[pipe] = struct{}{}
	h.lock.Unlock()
}

func (h *Hub) remove(pipe *Pipe) {
	h.lock.Lock()
	delete(h.pipes, pipe)
	h.lock.Unlock()
}

// Close stops accepting connections.
func (h *Hub) Close() error {
	return h.Acceptor.Close()
}
