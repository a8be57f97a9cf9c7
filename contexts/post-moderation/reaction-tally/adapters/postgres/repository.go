package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"spotted/contexts/post-moderation/reaction-tally/domain/entities"
	domainerrors "spotted/contexts/post-moderation/reaction-tally/domain/errors"
	"spotted/contexts/post-moderation/reaction-tally/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) CreatePublished(ctx context.Context, post entities.PublishedPost) error {
	row := publishedPostModelFromEntity(post)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrPostExists
		}
		return r.logError("tally_repo_create_published_failed", err,
			"channel_id", post.ID.ChannelID,
			"message_id", post.ID.MessageID,
		)
	}
	return nil
}

func (r *Repository) GetPublished(ctx context.Context, id entities.PostID) (entities.PublishedPost, error) {
	var row publishedPostModel
	err := r.db.WithContext(ctx).
		Where("channel_id = ? AND message_id = ?", id.ChannelID, id.MessageID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PublishedPost{}, domainerrors.ErrPostNotFound
		}
		return entities.PublishedPost{}, r.logError("tally_repo_get_published_failed", err,
			"channel_id", id.ChannelID,
			"message_id", id.MessageID,
		)
	}
	reactions, err := r.loadReactions(r.db.WithContext(ctx), id)
	if err != nil {
		return entities.PublishedPost{}, err
	}
	return row.toEntity(reactions), nil
}

// Transact locks the published row FOR UPDATE, runs the mutation callback and
// reconciles the reactions table with the callback's result inside one
// database transaction.
func (r *Repository) Transact(
	ctx context.Context,
	id entities.PostID,
	fn func(post *entities.PublishedPost) (ports.TxDecision, error),
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row publishedPostModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("channel_id = ? AND message_id = ?", id.ChannelID, id.MessageID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrPostNotFound
			}
			return r.logError("tally_repo_lock_published_failed", err,
				"channel_id", id.ChannelID,
				"message_id", id.MessageID,
			)
		}
		reactions, err := r.loadReactions(tx, id)
		if err != nil {
			return err
		}
		working := row.toEntity(reactions)
		decision, err := fn(&working)
		if err != nil {
			return err
		}
		if decision.Unchanged {
			return nil
		}
		return r.applyReactions(tx, working)
	})
}

func (r *Repository) applyReactions(tx *gorm.DB, post entities.PublishedPost) error {
	if err := tx.Where("channel_id = ? AND message_id = ?", post.ID.ChannelID, post.ID.MessageID).
		Delete(&reactionModel{}).Error; err != nil {
		return r.logError("tally_repo_clear_reactions_failed", err,
			"channel_id", post.ID.ChannelID,
			"message_id", post.ID.MessageID,
		)
	}
	for voterID, category := range post.Reactions {
		row := reactionModel{
			ChannelID: post.ID.ChannelID,
			MessageID: post.ID.MessageID,
			UserID:    voterID,
			Category:  category,
		}
		if err := tx.Create(&row).Error; err != nil {
			return r.logError("tally_repo_save_reaction_failed", err,
				"channel_id", post.ID.ChannelID,
				"message_id", post.ID.MessageID,
				"voter_id", voterID,
			)
		}
	}
	update := tx.Model(&publishedPostModel{}).
		Where("channel_id = ? AND message_id = ?", post.ID.ChannelID, post.ID.MessageID).
		Update("updated_at", post.UpdatedAt.UTC())
	if update.Error != nil {
		return r.logError("tally_repo_touch_published_failed", update.Error,
			"channel_id", post.ID.ChannelID,
			"message_id", post.ID.MessageID,
		)
	}
	return nil
}

func (r *Repository) loadReactions(tx *gorm.DB, id entities.PostID) (map[int64]string, error) {
	var rows []reactionModel
	err := tx.Where("channel_id = ? AND message_id = ?", id.ChannelID, id.MessageID).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("tally_repo_load_reactions_failed", err,
			"channel_id", id.ChannelID,
			"message_id", id.MessageID,
		)
	}
	reactions := make(map[int64]string, len(rows))
	for _, row := range rows {
		reactions[row.UserID] = row.Category
	}
	return reactions, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "post-moderation/reaction-tally",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("reaction repository operation failed", fields...)
	return err
}

type publishedPostModel struct {
	ChannelID int64     `gorm:"column:channel_id;primaryKey"`
	MessageID int64     `gorm:"column:message_id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (publishedPostModel) TableName() string {
	return "published_posts"
}

func publishedPostModelFromEntity(post entities.PublishedPost) publishedPostModel {
	row := publishedPostModel{
		ChannelID: post.ID.ChannelID,
		MessageID: post.ID.MessageID,
		CreatedAt: post.CreatedAt.UTC(),
		UpdatedAt: post.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m publishedPostModel) toEntity(reactions map[int64]string) entities.PublishedPost {
	return entities.PublishedPost{
		ID:        entities.PostID{ChannelID: m.ChannelID, MessageID: m.MessageID},
		Reactions: reactions,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type reactionModel struct {
	ChannelID int64  `gorm:"column:channel_id;primaryKey"`
	MessageID int64  `gorm:"column:message_id;primaryKey"`
	UserID    int64  `gorm:"column:user_id;primaryKey"`
	Category  string `gorm:"column:category"`
}

func (reactionModel) TableName() string {
	return "reactions"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.PublishedPostStore = (*Repository)(nil)
