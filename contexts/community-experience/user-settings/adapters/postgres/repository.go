package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"spotted/contexts/community-experience/user-settings/ports"
)

type userSettingsModel struct {
	UserID    int64     `gorm:"column:user_id;primaryKey"`
	Anonymous bool      `gorm:"column:anonymous;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (userSettingsModel) TableName() string { return "user_settings" }

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

func (r *Repository) GetSettings(ctx context.Context, userID int64) (ports.UserSettings, bool, error) {
	var model userSettingsModel
	err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.UserSettings{}, false, nil
	}
	if err != nil {
		r.logError("user settings lookup failed", err, userID)
		return ports.UserSettings{}, false, err
	}
	return ports.UserSettings{
		UserID:    model.UserID,
		Anonymous: model.Anonymous,
		UpdatedAt: model.UpdatedAt,
	}, true, nil
}

func (r *Repository) SaveSettings(ctx context.Context, settings ports.UserSettings) error {
	model := userSettingsModel{
		UserID:    settings.UserID,
		Anonymous: settings.Anonymous,
		UpdatedAt: settings.UpdatedAt,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"anonymous", "updated_at"}),
		}).
		Create(&model).Error
	if err != nil {
		r.logError("user settings save failed", err, settings.UserID)
	}
	return err
}

func (r *Repository) logError(msg string, err error, userID int64) {
	r.logger.Error(msg,
		"event", "user_settings_store_error",
		"module", "community-experience/user-settings",
		"layer", "adapters/postgres",
		"user_id", userID,
		"error", err.Error(),
	)
}
