package ports

import (
	"context"
	"time"

	"spotted/contexts/post-moderation/approval-engine/domain/entities"
	contractsv1 "spotted/contracts/gen/events/v1"
)

// TxDecision tells the store what to commit after the mutation callback ran.
// Zero value persists the mutated record. Unchanged skips the write entirely.
// Resolve deletes the pending record; Publish additionally creates the
// published record under the given identity in the same transaction.
type TxDecision struct {
	Unchanged bool
	Resolve   bool
	Publish   *entities.PublishedRef
}

// PendingPostStore is the transactional vote store. Transact must run the
// mutation callback under per-identity isolation: concurrent calls for the
// same PostID are serialized (row lock or optimistic version check, with
// ErrConflict on a lost race) so exactly one caller can observe a quorum
// crossing. A missing record yields ErrPostNotFound without invoking fn.
type PendingPostStore interface {
	CreatePending(ctx context.Context, post entities.PendingPost) error
	GetPending(ctx context.Context, id entities.PostID) (entities.PendingPost, error)
	Transact(ctx context.Context, id entities.PostID, fn func(post *entities.PendingPost) (TxDecision, error)) error
}

// Publisher materializes the approved post in the publication channel and
// returns its identity. Invoked inside the winning transaction only, so a
// post is published at most once.
type Publisher interface {
	PublishPost(ctx context.Context, post entities.PendingPost) (entities.PublishedRef, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, envelope EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
