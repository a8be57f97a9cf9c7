package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "spotted/contexts/post-moderation/reaction-tally/application"
	"spotted/contexts/post-moderation/reaction-tally/domain/entities"
	domainerrors "spotted/contexts/post-moderation/reaction-tally/domain/errors"
	"spotted/contexts/post-moderation/reaction-tally/ports"
)

const conflictAttempts = 3

// SetUserVoteCommand carries one reader reaction. Categories is the ordered
// configured set; the engine validates against it instead of ambient config.
type SetUserVoteCommand struct {
	Post       entities.PostID
	VoterID    int64
	Category   string
	Categories []string
}

// SetUserVoteResult reports whether the reaction is now held (WasAdded) and
// the per-category counts for the renderer.
type SetUserVoteResult struct {
	WasAdded bool
	Counts   []entities.CategoryCount
}

// UserVoteUseCase applies the one-active-reaction-per-voter rule.
type UserVoteUseCase struct {
	Store  ports.PublishedPostStore
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc UserVoteUseCase) SetUserVote(ctx context.Context, cmd SetUserVoteCommand) (SetUserVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.VoterID == 0 {
		return SetUserVoteResult{}, domainerrors.ErrInvalidVoteInput
	}
	if !categoryKnown(cmd.Category, cmd.Categories) {
		logger.Warn("reaction category rejected",
			"event", "tally_invalid_category",
			"module", "post-moderation/reaction-tally",
			"layer", "application",
			"channel_id", cmd.Post.ChannelID,
			"message_id", cmd.Post.MessageID,
			"category", cmd.Category,
		)
		return SetUserVoteResult{}, domainerrors.ErrInvalidCategory
	}

	var result SetUserVoteResult
	var lastErr error
	for attempt := 0; attempt < conflictAttempts; attempt++ {
		result = SetUserVoteResult{}
		err := uc.Store.Transact(ctx, cmd.Post, func(post *entities.PublishedPost) (ports.TxDecision, error) {
			result.WasAdded = post.SetReaction(cmd.VoterID, cmd.Category)
			result.Counts = post.Counts(cmd.Categories)
			post.UpdatedAt = uc.now()
			return ports.TxDecision{}, nil
		})
		if err == nil {
			lastErr = nil
			break
		}
		if errors.Is(err, domainerrors.ErrConflict) {
			lastErr = err
			continue
		}
		return SetUserVoteResult{}, err
	}
	if lastErr != nil {
		logger.Warn("reaction conflict retries exhausted",
			"event", "tally_conflict_exhausted",
			"module", "post-moderation/reaction-tally",
			"layer", "application",
			"channel_id", cmd.Post.ChannelID,
			"message_id", cmd.Post.MessageID,
			"voter_id", cmd.VoterID,
		)
		return SetUserVoteResult{}, domainerrors.ErrPostNotFound
	}

	logger.Info("reaction applied",
		"event", "tally_reaction_applied",
		"module", "post-moderation/reaction-tally",
		"layer", "application",
		"channel_id", cmd.Post.ChannelID,
		"message_id", cmd.Post.MessageID,
		"voter_id", cmd.VoterID,
		"category", cmd.Category,
		"was_added", result.WasAdded,
	)
	return result, nil
}

func (uc UserVoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func categoryKnown(category string, categories []string) bool {
	for _, known := range categories {
		if known == category {
			return true
		}
	}
	return false
}
