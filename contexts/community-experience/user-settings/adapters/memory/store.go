package memory

import (
	"context"
	"sync"
	"time"

	"spotted/contexts/community-experience/user-settings/ports"
)

type Store struct {
	mu       sync.RWMutex
	settings map[int64]ports.UserSettings
}

func NewStore() *Store {
	return &Store{settings: make(map[int64]ports.UserSettings)}
}

var (
	_ ports.Repository = (*Store)(nil)
	_ ports.Clock      = (*Store)(nil)
)

func (s *Store) GetSettings(_ context.Context, userID int64) (ports.UserSettings, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, found := s.settings[userID]
	return settings, found, nil
}

func (s *Store) SaveSettings(_ context.Context, settings ports.UserSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.UserID] = settings
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
