package mqtt

import (
	"strings"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is the callback when a message is received.
type Handler func(topic string, payload []byte)

// ConnectHandler is to handle connect/disconnect events.
type ConnectHandler func(*Queue)

// Queue wraps an MQTT client. All topics are relative to TopicPrefix.
// Subscriptions are kept across reconnects.
type Queue struct {
	Client      paho.Client
	TopicPrefix string
	// QoS is used by Pub and Sub.
	QoS          byte
	OnConnect    ConnectHandler
	OnDisconnect ConnectHandler

	subsLock sync.RWMutex
	subs     map[string][]*Subscription
}

// Subscription is a handler attached to a topic filter.
type Subscription struct {
	// Token completes when the broker acknowledged the filter. It is
	// a DummyToken when the filter is subscribed later on connect.
	Token paho.Token

	queue   *Queue
	filter  string
	handler Handler
}

// MatchTopic matches topic against filter, where "+" matches one
// level and a trailing "#" matches the rest.
func MatchTopic(topic, filter string) bool {
	levels, parts := strings.Split(topic, "/"), strings.Split(filter, "/")
	for i, part := range parts {
		if part == "#" {
			return i == len(parts)-1
		}
		if i >= len(levels) || (part != "+" && part != levels[i]) {
			return false
		}
	}
	return len(levels) == len(parts)
}

// NewQueue creates Queue.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix}
	options.SetOnConnectHandler(q.onConnect)
	options.SetConnectionLostHandler(q.onConnectionLost)
	q.Client = paho.NewClient(options)
	return q
}

// Connect connects the client.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Sub attaches handler to filter. The broker is asked only for the
// first handler of a filter, and only while connected.
func (q *Queue) Sub(filter string, handler Handler) *Subscription {
	sub := &Subscription{queue: q, filter: filter, handler: handler}
	q.subsLock.Lock()
	if q.subs == nil {
		q.subs = make(map[string][]*Subscription)
	}
	first := len(q.subs[filter]) == 0
	q.subs[filter] = append(q.subs[filter], sub)
	q.subsLock.Unlock()

	sub.Token = &paho.DummyToken{}
	if first && q.Client.IsConnected() {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+filter)
		sub.Token = q.Client.Subscribe(q.TopicPrefix+filter, q.QoS, q.dispatch)
	}
	return sub
}

// Pub publishes to a topic.
func (q *Queue) Pub(topic string, payload []byte) paho.Token {
	return q.PubWith(topic, payload, q.QoS, false)
}

// PubWith publishes with QoS and retain settings.
func (q *Queue) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	return q.Client.Publish(q.TopicPrefix+topic, qos, retain, payload)
}

func (q *Queue) filters() map[string]byte {
	q.subsLock.RLock()
	defer q.subsLock.RUnlock()
	filters := make(map[string]byte, len(q.subs))
	for filter := range q.subs {
		filters[q.TopicPrefix+filter] = q.QoS
	}
	return filters
}

func (q *Queue) onConnect(paho.Client) {
	glog.Info("mqtt connected")
	if filters := q.filters(); len(filters) > 0 {
		glog.V(2).Infof("SUB %v", filters)
		q.Client.SubscribeMultiple(filters, q.dispatch)
	}
	if h := q.OnConnect; h != nil {
		h(q)
	}
}

func (q *Queue) onConnectionLost(_ paho.Client, err error) {
	glog.Warningf("mqtt connection lost: %v", err)
	if h := q.OnDisconnect; h != nil {
		h(q)
	}
}

func (q *Queue) dispatch(_ paho.Client, msg paho.Message) {
	if topic := msg.Topic(); strings.HasPrefix(topic, q.TopicPrefix) {
		glog.V(2).Infof("RCV %q", topic)
		q.deliver(topic[len(q.TopicPrefix):], msg.Payload())
	}
}

// deliver calls handlers outside the lock so they may Sub or Close.
func (q *Queue) deliver(topic string, payload []byte) {
	var handlers []Handler
	q.subsLock.RLock()
	for filter, subs := range q.subs {
		if MatchTopic(topic, filter) {
			for _, sub := range subs {
				handlers = append(handlers, sub.handler)
			}
		}
	}
	q.subsLock.RUnlock()
	for _, h := range handlers {
		h(topic, payload)
	}
}

// Close detaches the handler, and unsubscribes the filter from the
// broker when it was the last one.
func (s *Subscription) Close() error {
	q := s.queue
	q.subsLock.Lock()
	subs, found := q.subs[s.filter], false
	for i, sub := range subs {
		if sub == s {
			subs, found = append(subs[:i:i], subs[i+1:]...), true
			break
		}
	}
	last := found && len(subs) == 0
	if last {
		delete(q.subs, s.filter)
	} else if found {
		q.subs[s.filter] = subs
	}
	q.subsLock.Unlock()

	if !last || !q.Client.IsConnected() {
		return nil
	}
	glog.V(2).Infof("UNSUB %q", q.TopicPrefix+s.filter)
	token := q.Client.Unsubscribe(q.TopicPrefix + s.filter)
	token.Wait()
	return token.Error()
}
