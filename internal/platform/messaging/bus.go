package messaging

import (
	"context"
	"log/slog"
	"sync"
)

type Event struct {
	Topic   string
	Key     string
	Payload []byte
}

// Bus is an in-process publish/subscribe fallback used when no broker URL is
// configured, and by end-to-end tests. It satisfies the same publisher port
// as the NATS adapter.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
	logger      *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[string][]chan Event),
		logger:      logger,
	}
}

func (b *Bus) Publish(ctx context.Context, topic, key string, payload []byte) error {
	event := Event{Topic: topic, Key: key, Payload: append([]byte(nil), payload...)}

	b.mu.RLock()
	subs := append([]chan Event(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- event:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				"event", "bus_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"key", key,
			)
		}
	}

	b.logger.Info("event published",
		"event", "bus_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"key", key,
	)
	return nil
}

func (b *Bus) Subscribe(ctx context.Context, topic string, handler func(context.Context, Event) error) {
	ch := make(chan Event, 128)

	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.removeSubscriber(topic, ch)
				return
			case event := <-ch:
				if err := handler(ctx, event); err != nil {
					b.logger.Error("subscriber handler failed",
						"event", "bus_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"key", event.Key,
						"error", err.Error(),
					)
				}
			}
		}
	}()
}

func (b *Bus) removeSubscriber(topic string, target chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.subscribers[topic]
	if len(items) == 0 {
		return
	}
	filtered := make([]chan Event, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	b.subscribers[topic] = filtered
}
