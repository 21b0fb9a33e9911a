package messaging

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const eventKeyHeader = "Event-Key"

// NATS publishes outbox events through JetStream. PublishMsg only returns
// once the server acked the message, which is the "confirmed publish" the
// relay relies on before marking a row published.
type NATS struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *slog.Logger
}

func ConnectNATS(url string, serviceName string, logger *slog.Logger) (*NATS, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(url, nats.Name(serviceName))
	if err != nil {
		return nil, err
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &NATS{
		conn:   conn,
		js:     js,
		logger: logger,
	}, nil
}

func (n *NATS) Publish(ctx context.Context, topic, key string, payload []byte) error {
	msg := nats.NewMsg(topic)
	msg.Data = payload
	msg.Header.Set(eventKeyHeader, key)

	if _, err := n.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
		return err
	}

	n.logger.Info("event published",
		"event", "nats_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"key", key,
	)
	return nil
}

func (n *NATS) Close() {
	if n == nil || n.conn == nil {
		return
	}
	_ = n.conn.Drain()
}
