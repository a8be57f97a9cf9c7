package ports

import (
	"context"
	"time"
)

// UserSettings is the stored preference record for one user. Users without a
// record are credited by default.
type UserSettings struct {
	UserID    int64
	Anonymous bool
	UpdatedAt time.Time
}

// Repository persists preference records keyed by user id.
type Repository interface {
	GetSettings(ctx context.Context, userID int64) (UserSettings, bool, error)
	SaveSettings(ctx context.Context, settings UserSettings) error
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}
