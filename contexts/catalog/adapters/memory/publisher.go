package memory

import (
	"context"
	"sync"
)

type PublishedEvent struct {
	Topic   string
	Key     string
	Payload []byte
}

// Publisher records published events; test double for the broker producer.
type Publisher struct {
	mu        sync.Mutex
	published []PublishedEvent
	fail      error
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

// FailWith makes Publish return err until Heal is called.
func (p *Publisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = err
}

func (p *Publisher) Heal() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = nil
}

func (p *Publisher) Publish(_ context.Context, topic, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.published = append(p.published, PublishedEvent{
		Topic:   topic,
		Key:     key,
		Payload: append([]byte(nil), payload...),
	})
	return nil
}

func (p *Publisher) Published() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedEvent(nil), p.published...)
}
