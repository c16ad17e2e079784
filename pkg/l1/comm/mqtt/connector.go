package mqtt

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/l1"
	"github.com/robotalks/linetracer/pkg/l1/comm"
)

// DefaultDiscoverTimeout is how long Discover collects announcements.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Connector implements l1.Connector by reading the retained meta
// topics tracers publish on the broker.
type Connector struct {
	DiscoverTimeout time.Duration

	broker *Broker
}

// NewConnector creates a Connector.
func NewConnector(brokerURL string) (*Connector, error) {
	b, err := ParseBroker(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Connector{DiscoverTimeout: DefaultDiscoverTimeout, broker: b}, nil
}

// Discover implements l1.Connector. Tracers which cleared their meta
// are left out.
func (c *Connector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	q := c.broker.NewQueue()
	found := make(chan l1.ControllerInfo, 16)
	sub := q.Sub("+/+/"+leafMeta, func(topic string, payload []byte) {
		info, ok, err := parseMeta(topic, payload)
		if err != nil {
			glog.Warning(err)
			return
		}
		if ok {
			select {
			case found <- info:
			case <-ctx.Done():
			}
		}
	})
	defer q.Close()
	defer sub.Close()
	if err := waitToken(ctx, q.Connect()); err != nil {
		return nil, err
	}

	dur := c.DiscoverTimeout
	if dur <= 0 {
		dur = DefaultDiscoverTimeout
	}
	timer := time.NewTimer(dur)
	defer timer.Stop()
	var res []l1.ControllerInfo
	seen := make(map[string]bool)
	for {
		select {
		case info := <-found:
			if name := info.Ref.Name(); !seen[name] {
				seen[name] = true
				res = append(res, info)
			}
		case <-timer.C:
			return res, nil
		case <-ctx.Done():
			return res, ctx.Err()
		}
	}
}

// Connect implements l1.Connector.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	q := c.broker.NewQueue()
	if err := waitToken(ctx, q.Connect()); err != nil {
		q.Close()
		return nil, err
	}
	return &ControllerConn{
		ControllerConn: comm.NewControllerConn(connectorConn(q, ref)),
		Queue:          q,
	}, nil
}

// ControllerConn is a comm.ControllerConn over MQTT. It must be added
// to a loop to receive replies, and disconnects when the loop stops.
type ControllerConn struct {
	*comm.ControllerConn
	Queue *Queue
}

// AddToLoop implements LoopAdder.
func (c *ControllerConn) AddToLoop(l *fx.Loop) {
	c.ControllerConn.AddToLoop(l)
	l.AddRunnable(fx.RunnableFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return c.Close()
	}))
}

// Close disconnects from the broker.
func (c *ControllerConn) Close() error {
	return c.Queue.Close()
}
