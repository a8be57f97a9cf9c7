package commands

import (
	"context"
	"log/slog"

	application "spotted/contexts/post-moderation/approval-engine/application"
	"spotted/contexts/post-moderation/approval-engine/domain/entities"
	domainerrors "spotted/contexts/post-moderation/approval-engine/domain/errors"
	"spotted/contexts/post-moderation/approval-engine/ports"
)

type CreatePendingCommand struct {
	Post        entities.PostID
	SubmitterID int64
}

// CreatePendingUseCase registers a confirmed submission for admin review.
type CreatePendingUseCase struct {
	Store  ports.PendingPostStore
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc CreatePendingUseCase) Execute(ctx context.Context, cmd CreatePendingCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.SubmitterID == 0 {
		return domainerrors.ErrInvalidVoteInput
	}
	now := uc.Clock.Now().UTC()
	err := uc.Store.CreatePending(ctx, entities.PendingPost{
		ID:          cmd.Post,
		SubmitterID: cmd.SubmitterID,
		AdminVotes:  map[int64]bool{},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return err
	}
	logger.Info("pending post created",
		"event", "approval_pending_created",
		"module", "post-moderation/approval-engine",
		"layer", "application",
		"group_id", cmd.Post.GroupID,
		"message_id", cmd.Post.MessageID,
		"submitter_id", cmd.SubmitterID,
	)
	return nil
}
