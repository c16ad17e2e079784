package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/linetracer/pkg/framework"
	"github.com/robotalks/linetracer/pkg/l1"
	"github.com/robotalks/linetracer/pkg/l1/comm"
)

// offlineTimeout bounds clearing the meta topic on exit.
const offlineTimeout = time.Second

// Registrar implements l1.Registrar using MQTT. The tracer is
// announced by a retained meta message, which the broker clears
// through the will when the tracer disconnects unexpectedly.
type Registrar struct {
	Queue *Queue
	Info  l1.ControllerInfo

	meta []byte
	conn *comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info l1.ControllerInfo) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	b, err := ParseBroker(brokerURL)
	if err != nil {
		return nil, err
	}
	metaTopic := b.Prefix + topicOf(info.Ref, leafMeta)
	b.Options.SetBinaryWill(metaTopic, nil, 1, true)
	if b.Options.ClientID == "" {
		b.Options.SetClientID("linetracer:" + info.Ref.Name())
	}
	r := &Registrar{Queue: b.NewQueue(), Info: info, meta: meta}
	r.Queue.OnConnect = r.announce
	r.conn = comm.NewRegistrar(controllerConn(r.Queue, info.Ref))
	return r, nil
}

// SendEvent implements l1.Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.conn.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(r.conn)
	loop.AddRunnable(r)
}

// Run keeps the broker connection until ctx is done, then clears the
// meta topic so the tracer is no longer discovered.
func (r *Registrar) Run(ctx context.Context) error {
	r.Queue.Connect()
	<-ctx.Done()
	token := r.Queue.PubWith(topicOf(r.Info.Ref, leafMeta), nil, 1, true)
	if !token.WaitTimeout(offlineTimeout) {
		glog.Warningf("clear meta of %s: timeout", r.Info.Ref.Name())
	}
	r.Queue.Close()
	return nil
}

func (r *Registrar) announce(q *Queue) {
	q.PubWith(topicOf(r.Info.Ref, leafMeta), r.meta, 1, true)
}
