package ports

import (
	"context"
	"time"

	"spotted/contexts/post-moderation/report-guard/domain/entities"
)

// ReportStore persists reports keyed by their dedup identity. CreateReport
// must fail with ErrReportExists when the key is already taken, including
// under concurrent attempts (unique constraint or equivalent).
type ReportStore interface {
	CreateReport(ctx context.Context, report entities.Report) error
	GetReport(ctx context.Context, key entities.ReportKey) (entities.Report, bool, error)
	SaveReason(ctx context.Context, key entities.ReportKey, reason string, updatedAt time.Time) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
