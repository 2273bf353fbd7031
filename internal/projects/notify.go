package projects

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Notifier tells listeners that the project list changed.
type Notifier interface {
	Notify(ctx context.Context) error
	// Listen registers fn and returns a function that unregisters it.
	Listen(ctx context.Context, fn func()) (stop func(), err error)
	Close() error
}

// LocalNotifier fans changes out to listeners in this process. Listeners
// run synchronously on the notifying goroutine.
type LocalNotifier struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func()
}

func NewLocalNotifier() *LocalNotifier {
	return &LocalNotifier{listeners: make(map[int]func())}
}

func (n *LocalNotifier) Notify(ctx context.Context) error {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

func (n *LocalNotifier) Listen(ctx context.Context, fn func()) (func(), error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	n.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}, nil
}

func (n *LocalNotifier) Close() error {
	n.mu.Lock()
	n.listeners = make(map[int]func())
	n.mu.Unlock()
	return nil
}

// RedisNotifier publishes changes on a pub/sub channel so every process
// sharing the store sees the same feed.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	owned   bool
}

func NewRedisNotifier(redisURL string) (*RedisNotifier, error) {
	client, err := dialRedis(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisNotifier{client: client, channel: redisChannel, owned: true}, nil
}

// NewRedisNotifierWithClient shares client; Close leaves it open.
func NewRedisNotifierWithClient(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client, channel: redisChannel}
}

func (n *RedisNotifier) Notify(ctx context.Context) error {
	if err := n.client.Publish(ctx, n.channel, "changed").Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Listen returns once the subscription is confirmed. fn runs on a dedicated
// goroutine, one message at a time.
func (n *RedisNotifier) Listen(ctx context.Context, fn func()) (func(), error) {
	sub := n.client.Subscribe(ctx, n.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", n.channel, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range sub.Channel() {
			fn()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := sub.Close(); err != nil {
				log.Printf("projects: closing subscription: %v", err)
			}
			<-done
		})
	}, nil
}

func (n *RedisNotifier) Close() error {
	if !n.owned {
		return nil
	}
	return n.client.Close()
}
