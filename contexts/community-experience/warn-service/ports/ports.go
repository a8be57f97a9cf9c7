package ports

import (
	"context"
	"time"
)

// Warn is one recorded admin warning.
type Warn struct {
	WarnID    string
	UserID    int64
	AdminID   int64
	Reason    string
	CreatedAt time.Time
}

// Repository persists warnings. RecordWarn appends the warning and reports
// the active count in one step serialized per user, so concurrent warns
// against the same user observe distinct counts and exactly one of them
// lands on the ban threshold. CountActiveWarns counts warnings issued at or
// after the given cutoff.
type Repository interface {
	RecordWarn(ctx context.Context, warn Warn, cutoff time.Time) (int, error)
	CountActiveWarns(ctx context.Context, userID int64, cutoff time.Time) (int, error)
}

// Banner applies the ban side effect when a user crosses the warn threshold.
type Banner interface {
	BanUser(ctx context.Context, userID int64) error
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator mints warn identifiers.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
