package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"spotted/contexts/post-moderation/approval-engine/domain/entities"
	domainerrors "spotted/contexts/post-moderation/approval-engine/domain/errors"
	"spotted/contexts/post-moderation/approval-engine/ports"

	"github.com/google/uuid"
)

type pendingRecord struct {
	post    entities.PendingPost
	version int
}

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the deterministic in-memory vote store used by tests and local
// wiring. Transact serializes every mutation behind one mutex, which is a
// strictly stronger guarantee than the per-identity isolation the port asks
// for.
type Store struct {
	mu sync.Mutex

	pending   map[entities.PostID]pendingRecord
	published map[entities.PublishedRef]int64
	outbox    map[string]outboxRecord

	forcedConflicts int
}

func NewStore(seed []entities.PendingPost) *Store {
	pending := make(map[entities.PostID]pendingRecord, len(seed))
	for _, post := range seed {
		pending[post.ID] = pendingRecord{post: post.Clone()}
	}
	return &Store{
		pending:   pending,
		published: make(map[entities.PublishedRef]int64),
		outbox:    make(map[string]outboxRecord),
	}
}

// FailTransactions makes the next n Transact calls fail with ErrConflict,
// simulating lost optimistic races for the engine's retry path.
func (s *Store) FailTransactions(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forcedConflicts = n
}

func (s *Store) CreatePending(_ context.Context, post entities.PendingPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pending[post.ID]; exists {
		return domainerrors.ErrPostExists
	}
	s.pending[post.ID] = pendingRecord{post: post.Clone()}
	return nil
}

func (s *Store) GetPending(_ context.Context, id entities.PostID) (entities.PendingPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.pending[id]
	if !ok {
		return entities.PendingPost{}, domainerrors.ErrPostNotFound
	}
	return record.post.Clone(), nil
}

func (s *Store) Transact(
	_ context.Context,
	id entities.PostID,
	fn func(post *entities.PendingPost) (ports.TxDecision, error),
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forcedConflicts > 0 {
		s.forcedConflicts--
		return domainerrors.ErrConflict
	}

	record, ok := s.pending[id]
	if !ok {
		return domainerrors.ErrPostNotFound
	}
	working := record.post.Clone()
	decision, err := fn(&working)
	if err != nil {
		return err
	}
	switch {
	case decision.Unchanged:
	case decision.Resolve:
		delete(s.pending, id)
		if decision.Publish != nil {
			s.published[*decision.Publish] = working.SubmitterID
		}
	default:
		s.pending[id] = pendingRecord{post: working, version: record.version + 1}
	}
	return nil
}

// PendingLen reports how many posts still await quorum.
func (s *Store) PendingLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Published reports whether a promotion created the given channel record.
func (s *Store) Published(ref entities.PublishedRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.published[ref]
	return ok
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := envelope.EventID
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[outboxID]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[outboxID] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.PendingPostStore = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
