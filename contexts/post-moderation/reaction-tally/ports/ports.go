package ports

import (
	"context"
	"time"

	"spotted/contexts/post-moderation/reaction-tally/domain/entities"
)

// TxDecision mirrors the vote-store contract: zero value persists the mutated
// record, Unchanged skips the write. Published posts are never deleted here.
type TxDecision struct {
	Unchanged bool
}

// PublishedPostStore is the transactional reaction store. Transact runs the
// mutation callback under per-identity isolation with ErrConflict on a lost
// race, so a voter's concurrent taps resolve last-committed-wins without a
// lost update.
type PublishedPostStore interface {
	CreatePublished(ctx context.Context, post entities.PublishedPost) error
	GetPublished(ctx context.Context, id entities.PostID) (entities.PublishedPost, error)
	Transact(ctx context.Context, id entities.PostID, fn func(post *entities.PublishedPost) (TxDecision, error)) error
}

type Clock interface {
	Now() time.Time
}
