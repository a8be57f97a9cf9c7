package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"spotted/contexts/community-experience/warn-service/ports"
)

type Store struct {
	mu    sync.RWMutex
	warns map[int64][]ports.Warn
	now   time.Time
}

func NewStore() *Store {
	return &Store{warns: make(map[int64][]ports.Warn)}
}

var (
	_ ports.Repository  = (*Store)(nil)
	_ ports.Clock       = (*Store)(nil)
	_ ports.IDGenerator = (*Store)(nil)
)

func (s *Store) RecordWarn(_ context.Context, warn ports.Warn, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warns[warn.UserID] = append(s.warns[warn.UserID], warn)
	return s.countLocked(warn.UserID, cutoff), nil
}

func (s *Store) CountActiveWarns(_ context.Context, userID int64, cutoff time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countLocked(userID, cutoff), nil
}

func (s *Store) countLocked(userID int64, cutoff time.Time) int {
	count := 0
	for _, warn := range s.warns[userID] {
		if !warn.CreatedAt.Before(cutoff) {
			count++
		}
	}
	return count
}

// SetNow pins the clock for tests. A zero time restores wall time.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.now.IsZero() {
		return s.now
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
