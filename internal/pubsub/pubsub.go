// Package pubsub delivers collection change notifications between writers
// and live subscriptions. A notification carries no payload: subscribers
// re-query the collection and emit a fresh snapshot.
package pubsub

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Notifier is the change-notification fan-out used by the gateway.
type Notifier interface {
	// Publish signals that the named collection changed.
	Publish(ctx context.Context, topic string) error
	// Subscribe invokes fn once per change signal until the returned
	// cancel function is called.
	Subscribe(ctx context.Context, topic string, fn func()) (func(), error)
}

// redisNotifier implements Notifier on Redis pub/sub channels.
type redisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a Redis-backed notifier.
func NewRedisNotifier(addr, password string, db int) Notifier {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisNotifier{client: client}
}

func (n *redisNotifier) Publish(ctx context.Context, topic string) error {
	return n.client.Publish(ctx, topic, "1").Err()
}

func (n *redisNotifier) Subscribe(ctx context.Context, topic string, fn func()) (func(), error) {
	sub := n.client.Subscribe(ctx, topic)

	// Force the subscription to be established before returning so a
	// change published right after Subscribe is not missed.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range sub.Channel() {
			fn()
		}
	}()

	cancel := func() {
		if err := sub.Close(); err != nil {
			slog.Warn("Failed to close pubsub subscription", "topic", topic, "error", err)
		}
		<-done
	}
	return cancel, nil
}

// MemoryNotifier is an in-process Notifier used by tests and by single-node
// deployments that run without Redis.
type MemoryNotifier struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]func()
}

// NewMemoryNotifier creates an empty in-process notifier.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{subs: make(map[string]map[int]func())}
}

func (n *MemoryNotifier) Publish(ctx context.Context, topic string) error {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs[topic]))
	for _, fn := range n.subs[topic] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

func (n *MemoryNotifier) Subscribe(ctx context.Context, topic string, fn func()) (func(), error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs[topic] == nil {
		n.subs[topic] = make(map[int]func())
	}
	id := n.next
	n.next++
	n.subs[topic][id] = fn

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[topic], id)
	}
	return cancel, nil
}
