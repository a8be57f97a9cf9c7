package memory

import (
	"context"
	"sync"
	"time"

	"spotted/contexts/post-moderation/report-guard/domain/entities"
	domainerrors "spotted/contexts/post-moderation/report-guard/domain/errors"
	"spotted/contexts/post-moderation/report-guard/ports"

	"github.com/google/uuid"
)

// Store is the in-memory report store for tests and local wiring.
type Store struct {
	mu      sync.Mutex
	reports map[entities.ReportKey]entities.Report
}

func NewStore() *Store {
	return &Store{reports: make(map[entities.ReportKey]entities.Report)}
}

func (s *Store) CreateReport(_ context.Context, report entities.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[report.Key]; exists {
		return domainerrors.ErrReportExists
	}
	s.reports[report.Key] = report
	return nil
}

func (s *Store) GetReport(_ context.Context, key entities.ReportKey) (entities.Report, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[key]
	return report, ok, nil
}

func (s *Store) SaveReason(_ context.Context, key entities.ReportKey, reason string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.reports[key]
	if !ok {
		return domainerrors.ErrReportNotFound
	}
	report.Reason = reason
	report.UpdatedAt = updatedAt.UTC()
	s.reports[key] = report
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.ReportStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
