package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"spotted/contexts/post-moderation/approval-engine/domain/entities"
	domainerrors "spotted/contexts/post-moderation/approval-engine/domain/errors"
	"spotted/contexts/post-moderation/approval-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
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

func (r *Repository) CreatePending(ctx context.Context, post entities.PendingPost) error {
	row := pendingPostModelFromEntity(post)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrPostExists
		}
		return r.logError("approval_repo_create_pending_failed", err,
			"group_id", post.ID.GroupID,
			"message_id", post.ID.MessageID,
		)
	}
	return nil
}

func (r *Repository) GetPending(ctx context.Context, id entities.PostID) (entities.PendingPost, error) {
	var row pendingPostModel
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND message_id = ?", id.GroupID, id.MessageID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PendingPost{}, domainerrors.ErrPostNotFound
		}
		return entities.PendingPost{}, r.logError("approval_repo_get_pending_failed", err,
			"group_id", id.GroupID,
			"message_id", id.MessageID,
		)
	}
	votes, err := r.loadVotes(r.db.WithContext(ctx), id)
	if err != nil {
		return entities.PendingPost{}, err
	}
	return row.toEntity(votes), nil
}

// Transact loads the pending row under a FOR UPDATE lock, runs the mutation
// callback and commits the decision in one database transaction. The row lock
// gives the per-identity serialization the port contract requires; the loser
// of a delete race observes ErrPostNotFound on its own locked read.
func (r *Repository) Transact(
	ctx context.Context,
	id entities.PostID,
	fn func(post *entities.PendingPost) (ports.TxDecision, error),
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row pendingPostModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("group_id = ? AND message_id = ?", id.GroupID, id.MessageID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrPostNotFound
			}
			return r.logError("approval_repo_lock_pending_failed", err,
				"group_id", id.GroupID,
				"message_id", id.MessageID,
			)
		}
		votes, err := r.loadVotes(tx, id)
		if err != nil {
			return err
		}
		working := row.toEntity(votes)
		decision, err := fn(&working)
		if err != nil {
			return err
		}
		switch {
		case decision.Unchanged:
			return nil
		case decision.Resolve:
			return r.applyResolve(tx, id, working, decision.Publish)
		default:
			return r.applyVotes(tx, working)
		}
	})
}

func (r *Repository) applyResolve(tx *gorm.DB, id entities.PostID, post entities.PendingPost, publish *entities.PublishedRef) error {
	if err := tx.Where("group_id = ? AND message_id = ?", id.GroupID, id.MessageID).
		Delete(&adminVoteModel{}).Error; err != nil {
		return r.logError("approval_repo_delete_votes_failed", err,
			"group_id", id.GroupID,
			"message_id", id.MessageID,
		)
	}
	if err := tx.Where("group_id = ? AND message_id = ?", id.GroupID, id.MessageID).
		Delete(&pendingPostModel{}).Error; err != nil {
		return r.logError("approval_repo_delete_pending_failed", err,
			"group_id", id.GroupID,
			"message_id", id.MessageID,
		)
	}
	if publish == nil {
		return nil
	}
	publishedAt := time.Now().UTC()
	published := publishedPostModel{
		ChannelID:   publish.ChannelID,
		MessageID:   publish.MessageID,
		SubmitterID: post.SubmitterID,
		CreatedAt:   publishedAt,
		UpdatedAt:   publishedAt,
	}
	if err := tx.Create(&published).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("approval_repo_create_published_failed", err,
			"channel_id", publish.ChannelID,
			"channel_message_id", publish.MessageID,
		)
	}
	return nil
}

func (r *Repository) applyVotes(tx *gorm.DB, post entities.PendingPost) error {
	update := tx.Model(&pendingPostModel{}).
		Where("group_id = ? AND message_id = ?", post.ID.GroupID, post.ID.MessageID).
		Update("updated_at", post.UpdatedAt.UTC())
	if update.Error != nil {
		return r.logError("approval_repo_touch_pending_failed", update.Error,
			"group_id", post.ID.GroupID,
			"message_id", post.ID.MessageID,
		)
	}
	for adminID, approved := range post.AdminVotes {
		row := adminVoteModel{
			GroupID:   post.ID.GroupID,
			MessageID: post.ID.MessageID,
			AdminID:   adminID,
			Approved:  approved,
		}
		create := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "group_id"}, {Name: "message_id"}, {Name: "admin_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"approved": row.Approved,
			}),
		}).Create(&row)
		if create.Error != nil {
			return r.logError("approval_repo_save_vote_failed", create.Error,
				"group_id", post.ID.GroupID,
				"message_id", post.ID.MessageID,
				"admin_id", adminID,
			)
		}
	}
	return nil
}

func (r *Repository) loadVotes(tx *gorm.DB, id entities.PostID) (map[int64]bool, error) {
	var rows []adminVoteModel
	err := tx.Where("group_id = ? AND message_id = ?", id.GroupID, id.MessageID).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("approval_repo_load_votes_failed", err,
			"group_id", id.GroupID,
			"message_id", id.MessageID,
		)
	}
	votes := make(map[int64]bool, len(rows))
	for _, row := range rows {
		votes[row.AdminID] = row.Approved
	}
	return votes, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := envelope.EventID
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	row := outboxModel{
		OutboxID:     outboxID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    createdAt,
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("approval_repo_append_outbox_failed", create.Error,
			"outbox_id", outboxID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("approval_repo_list_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	stamp := publishedAt.UTC()
	update := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &stamp,
		})
	if update.Error != nil {
		return r.logError("approval_repo_mark_outbox_failed", update.Error,
			"outbox_id", outboxID,
		)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "post-moderation/approval-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("approval repository operation failed", fields...)
	return err
}

type pendingPostModel struct {
	GroupID     int64     `gorm:"column:group_id;primaryKey"`
	MessageID   int64     `gorm:"column:message_id;primaryKey"`
	SubmitterID int64     `gorm:"column:submitter_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (pendingPostModel) TableName() string {
	return "pending_posts"
}

func pendingPostModelFromEntity(post entities.PendingPost) pendingPostModel {
	row := pendingPostModel{
		GroupID:     post.ID.GroupID,
		MessageID:   post.ID.MessageID,
		SubmitterID: post.SubmitterID,
		CreatedAt:   post.CreatedAt.UTC(),
		UpdatedAt:   post.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m pendingPostModel) toEntity(votes map[int64]bool) entities.PendingPost {
	return entities.PendingPost{
		ID:          entities.PostID{GroupID: m.GroupID, MessageID: m.MessageID},
		SubmitterID: m.SubmitterID,
		AdminVotes:  votes,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type adminVoteModel struct {
	GroupID   int64 `gorm:"column:group_id;primaryKey"`
	MessageID int64 `gorm:"column:message_id;primaryKey"`
	AdminID   int64 `gorm:"column:admin_id;primaryKey"`
	Approved  bool  `gorm:"column:approved"`
}

func (adminVoteModel) TableName() string {
	return "admin_votes"
}

// publishedPostModel writes the same published_posts table the reaction
// tally reads, so it carries every column that side expects.
type publishedPostModel struct {
	ChannelID   int64     `gorm:"column:channel_id;primaryKey"`
	MessageID   int64     `gorm:"column:message_id;primaryKey"`
	SubmitterID int64     `gorm:"column:submitter_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (publishedPostModel) TableName() string {
	return "published_posts"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "approval_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.PendingPostStore = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
