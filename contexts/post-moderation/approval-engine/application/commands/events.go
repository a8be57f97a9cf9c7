package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spotted/contexts/post-moderation/approval-engine/ports"
)

func newApprovalEnvelope(
	ctx context.Context,
	idgen ports.IDGenerator,
	eventType string,
	cmd SetAdminVoteCommand,
	result SetAdminVoteResult,
	occurredAt time.Time,
) (ports.EventEnvelope, error) {
	// Resolution events are partitioned by post identity so per-post consumers
	// observe promotion and rejection in order.
	eventID := ""
	if idgen != nil {
		var err error
		eventID, err = idgen.NewID(ctx)
		if err != nil {
			return ports.EventEnvelope{}, err
		}
	}
	data := map[string]any{
		"group_id":     cmd.Post.GroupID,
		"message_id":   cmd.Post.MessageID,
		"submitter_id": result.SubmitterID,
		"outcome":      string(result.Outcome),
		"votes":        result.Count,
		"occurred_at":  occurredAt.Format(time.RFC3339),
	}
	if result.Published != nil {
		data["channel_id"] = result.Published.ChannelID
		data["channel_message_id"] = result.Published.MessageID
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "approval-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "group_id,message_id",
		PartitionKey:     fmt.Sprintf("%d,%d", cmd.Post.GroupID, cmd.Post.MessageID),
		Data:             payload,
	}, nil
}
