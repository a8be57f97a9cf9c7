package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"spotted/contexts/community-experience/warn-service/ports"
)

type warnModel struct {
	WarnID    string    `gorm:"column:warn_id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	AdminID   int64     `gorm:"column:admin_id;not null"`
	Reason    string    `gorm:"column:reason"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (warnModel) TableName() string { return "warns" }

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

var _ ports.Repository = (*Repository)(nil)

// RecordWarn serializes concurrent warns against the same user behind a
// transaction-scoped advisory lock. Row locks cannot do this because the
// race is between inserts, not updates of existing rows.
func (r *Repository) RecordWarn(ctx context.Context, warn ports.Warn, cutoff time.Time) (int, error) {
	model := warnModel{
		WarnID:    warn.WarnID,
		UserID:    warn.UserID,
		AdminID:   warn.AdminID,
		Reason:    warn.Reason,
		CreatedAt: warn.CreatedAt,
	}
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", warn.UserID).Error; err != nil {
			return err
		}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		return tx.Model(&warnModel{}).
			Where("user_id = ? AND created_at >= ?", warn.UserID, cutoff).
			Count(&count).Error
	})
	if err != nil {
		r.logError("warn record failed", err, warn.UserID)
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) CountActiveWarns(ctx context.Context, userID int64, cutoff time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&warnModel{}).
		Where("user_id = ? AND created_at >= ?", userID, cutoff).
		Count(&count).Error
	if err != nil {
		r.logError("warn count failed", err, userID)
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) logError(msg string, err error, userID int64) {
	r.logger.Error(msg,
		"event", "warn_store_error",
		"module", "community-experience/warn-service",
		"layer", "adapters/postgres",
		"user_id", userID,
		"error", err.Error(),
	)
}

type SystemClock struct{}

var _ ports.Clock = SystemClock{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

var _ ports.IDGenerator = UUIDGenerator{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) { return uuid.NewString(), nil }
