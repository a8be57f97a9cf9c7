package memory

import (
	"context"
	"sync"
	"time"

	"spotted/contexts/post-moderation/reaction-tally/domain/entities"
	domainerrors "spotted/contexts/post-moderation/reaction-tally/domain/errors"
	"spotted/contexts/post-moderation/reaction-tally/ports"
)

type publishedRecord struct {
	post    entities.PublishedPost
	version int
}

// Store is the deterministic in-memory reaction store for tests and local
// wiring.
type Store struct {
	mu sync.Mutex

	published map[entities.PostID]publishedRecord

	forcedConflicts int
}

func NewStore(seed []entities.PublishedPost) *Store {
	published := make(map[entities.PostID]publishedRecord, len(seed))
	for _, post := range seed {
		published[post.ID] = publishedRecord{post: post.Clone()}
	}
	return &Store{published: published}
}

// FailTransactions makes the next n Transact calls fail with ErrConflict.
func (s *Store) FailTransactions(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forcedConflicts = n
}

func (s *Store) CreatePublished(_ context.Context, post entities.PublishedPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.published[post.ID]; exists {
		return domainerrors.ErrPostExists
	}
	s.published[post.ID] = publishedRecord{post: post.Clone()}
	return nil
}

func (s *Store) GetPublished(_ context.Context, id entities.PostID) (entities.PublishedPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.published[id]
	if !ok {
		return entities.PublishedPost{}, domainerrors.ErrPostNotFound
	}
	return record.post.Clone(), nil
}

func (s *Store) Transact(
	_ context.Context,
	id entities.PostID,
	fn func(post *entities.PublishedPost) (ports.TxDecision, error),
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forcedConflicts > 0 {
		s.forcedConflicts--
		return domainerrors.ErrConflict
	}

	record, ok := s.published[id]
	if !ok {
		return domainerrors.ErrPostNotFound
	}
	working := record.post.Clone()
	decision, err := fn(&working)
	if err != nil {
		return err
	}
	if !decision.Unchanged {
		s.published[id] = publishedRecord{post: working, version: record.version + 1}
	}
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.PublishedPostStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
