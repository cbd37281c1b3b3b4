package natsadapter

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// Subscriber hands out core NATS subscriptions on a shared connection.
// JetStream publishes are also delivered to plain subscribers, so live
// consumers (WebSocket clients) need no durable consumer state.
type Subscriber struct {
	conn *nats.Conn

	mu   sync.Mutex
	subs map[*nats.Subscription]struct{}
}

// NewSubscriber wraps an existing connection.
func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{conn: conn, subs: make(map[*nats.Subscription]struct{})}
}

// Subscribe delivers every message on subject to fn until the returned
// cancel func is called.
func (s *Subscriber) Subscribe(subject string, fn func(data []byte)) (func(), error) {
	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		fn(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
		_ = sub.Unsubscribe()
	}, nil
}

// Close unsubscribes everything still open.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = make(map[*nats.Subscription]struct{})
}
