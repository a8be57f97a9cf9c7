package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "spotted/contexts/post-moderation/approval-engine/application"
	"spotted/contexts/post-moderation/approval-engine/ports"
)

// OutboxRelay publishes persisted resolution events to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows and marks each row
// published only after the bus accepted it. It stops on the first failure so
// the retry loop can reprocess remaining rows safely.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = "post-lifecycle"
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list failed",
			"event", "approval_outbox_list_failed",
			"module", "post-moderation/approval-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}
	for _, row := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "approval_outbox_decode_failed",
				"module", "post-moderation/approval-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "approval_outbox_publish_failed",
				"module", "post-moderation/approval-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("outbox mark published failed",
				"event", "approval_outbox_mark_failed",
				"module", "post-moderation/approval-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}
	logger.Info("outbox relay cycle completed",
		"event", "approval_outbox_relay_completed",
		"module", "post-moderation/approval-engine",
		"layer", "worker",
		"published", len(pending),
	)
	return nil
}
