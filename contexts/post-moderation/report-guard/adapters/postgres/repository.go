package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"spotted/contexts/post-moderation/report-guard/domain/entities"
	domainerrors "spotted/contexts/post-moderation/report-guard/domain/errors"
	"spotted/contexts/post-moderation/report-guard/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// CreateReport relies on the composite primary key for race-safe dedup:
// concurrent first reports resolve to exactly one row, the loser gets the
// unique violation mapped to ErrReportExists.
func (r *Repository) CreateReport(ctx context.Context, report entities.Report) error {
	row := reportModelFromEntity(report)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrReportExists
		}
		return r.logError("report_repo_create_failed", err,
			"reporter_id", report.Key.ReporterID,
			"channel_id", report.Key.ChannelID,
			"message_id", report.Key.MessageID,
		)
	}
	return nil
}

func (r *Repository) GetReport(ctx context.Context, key entities.ReportKey) (entities.Report, bool, error) {
	var row reportModel
	err := r.db.WithContext(ctx).
		Where("reporter_id = ? AND channel_id = ? AND message_id = ?", key.ReporterID, key.ChannelID, key.MessageID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Report{}, false, nil
		}
		return entities.Report{}, false, r.logError("report_repo_get_failed", err,
			"reporter_id", key.ReporterID,
			"channel_id", key.ChannelID,
			"message_id", key.MessageID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveReason(ctx context.Context, key entities.ReportKey, reason string, updatedAt time.Time) error {
	update := r.db.WithContext(ctx).Model(&reportModel{}).
		Where("reporter_id = ? AND channel_id = ? AND message_id = ?", key.ReporterID, key.ChannelID, key.MessageID).
		Updates(map[string]any{
			"reason":     reason,
			"updated_at": updatedAt.UTC(),
		})
	if update.Error != nil {
		return r.logError("report_repo_save_reason_failed", update.Error,
			"reporter_id", key.ReporterID,
			"channel_id", key.ChannelID,
			"message_id", key.MessageID,
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrReportNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "post-moderation/report-guard",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("report repository operation failed", fields...)
	return err
}

type reportModel struct {
	ReporterID int64     `gorm:"column:reporter_id;primaryKey"`
	ChannelID  int64     `gorm:"column:channel_id;primaryKey"`
	MessageID  int64     `gorm:"column:message_id;primaryKey"`
	ReportID   string    `gorm:"column:report_id"`
	Reason     string    `gorm:"column:reason"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (reportModel) TableName() string {
	return "reports"
}

func reportModelFromEntity(report entities.Report) reportModel {
	row := reportModel{
		ReporterID: report.Key.ReporterID,
		ChannelID:  report.Key.ChannelID,
		MessageID:  report.Key.MessageID,
		ReportID:   report.ReportID,
		Reason:     report.Reason,
		CreatedAt:  report.CreatedAt.UTC(),
		UpdatedAt:  report.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m reportModel) toEntity() entities.Report {
	return entities.Report{
		ReportID: m.ReportID,
		Key: entities.ReportKey{
			ReporterID: m.ReporterID,
			ChannelID:  m.ChannelID,
			MessageID:  m.MessageID,
		},
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.ReportStore = (*Repository)(nil)
