package workers

import (
	"context"
	"log/slog"
	"time"

	application "carte/contexts/catalog/application"
	"carte/contexts/catalog/ports"
)

// OutboxRelay drains pending outbox rows to the event stream at-least-once.
// Rows are published in creation order; a row is only marked published after
// the broker confirmed the publish, and a publish failure stops the batch so
// the row (and everything behind it) is retried on the next cycle. A crash
// between publish and mark means the row is published again on restart, which
// is the accepted at-least-once contract: consumers dedupe on (topic, key).
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list failed",
			"event", "outbox_list_failed",
			"module", "catalog",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		if err := r.Publisher.Publish(ctx, row.Topic, row.Key, row.Payload); err != nil {
			logger.Error("outbox publish failed",
				"event", "outbox_publish_failed",
				"module", "catalog",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"topic", row.Topic,
				"error", err.Error(),
			)
			return err
		}
		claimed, err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now)
		if err != nil {
			return err
		}
		if !claimed {
			// Another relay instance finished this row between our poll and
			// our mark; the duplicate publish is covered by at-least-once.
			logger.Warn("outbox row already claimed",
				"event", "outbox_mark_skipped",
				"module", "catalog",
				"layer", "worker",
				"outbox_id", row.OutboxID,
			)
		}
	}
	return nil
}
