package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "spotted/contexts/post-moderation/approval-engine/application"
	"spotted/contexts/post-moderation/approval-engine/domain/entities"
	domainerrors "spotted/contexts/post-moderation/approval-engine/domain/errors"
	"spotted/contexts/post-moderation/approval-engine/ports"
)

// conflictAttempts bounds internal retries when the store loses an optimistic
// race. After that the call degrades to the not-found no-op: the host may
// retry the whole dispatch safely because votes are idempotent.
const conflictAttempts = 3

// SetAdminVoteCommand carries one admin vote. Quorum is caller-supplied
// configuration; the engine never reads it from ambient state.
type SetAdminVoteCommand struct {
	Post    entities.PostID
	AdminID int64
	Approve bool
	Quorum  int
}

// SetAdminVoteResult is the outcome of one vote transaction. NoChange marks a
// duplicate click (count unchanged, no UI update needed). When Outcome is not
// OutcomeNone the pending post was resolved exactly once: the caller should
// strip interactive controls and notify the submitter and the voting admins.
type SetAdminVoteResult struct {
	Count       int
	NoChange    bool
	Outcome     entities.Outcome
	SubmitterID int64
	Votes       []entities.AdminVote
	Published   *entities.PublishedRef
}

// AdminVoteUseCase orchestrates admin votes on pending posts: idempotent
// toggling, quorum detection and the exactly-once promotion/rejection
// transition.
type AdminVoteUseCase struct {
	Store     ports.PendingPostStore
	Publisher ports.Publisher
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// SetAdminVote records the vote inside one store transaction. Racing votes on
// the same post are serialized by the store; whoever crosses the quorum first
// resolves the post, every later caller observes ErrPostNotFound.
func (uc AdminVoteUseCase) SetAdminVote(ctx context.Context, cmd SetAdminVoteCommand) (SetAdminVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.AdminID == 0 || cmd.Quorum < 1 {
		logger.Warn("admin vote validation failed",
			"event", "approval_admin_vote_validation_failed",
			"module", "post-moderation/approval-engine",
			"layer", "application",
			"admin_id", cmd.AdminID,
			"quorum", cmd.Quorum,
		)
		return SetAdminVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	var result SetAdminVoteResult
	var lastErr error
	for attempt := 0; attempt < conflictAttempts; attempt++ {
		result = SetAdminVoteResult{Outcome: entities.OutcomeNone}
		err := uc.Store.Transact(ctx, cmd.Post, func(post *entities.PendingPost) (ports.TxDecision, error) {
			result.SubmitterID = post.SubmitterID
			if !post.SetVote(cmd.AdminID, cmd.Approve) {
				result.NoChange = true
				result.Count = post.CountVotes(cmd.Approve)
				result.Votes = post.Votes()
				return ports.TxDecision{Unchanged: true}, nil
			}
			post.UpdatedAt = uc.now()
			result.Count = post.CountVotes(cmd.Approve)
			result.Votes = post.Votes()
			if result.Count < cmd.Quorum {
				return ports.TxDecision{}, nil
			}
			if !cmd.Approve {
				result.Outcome = entities.OutcomeRejected
				return ports.TxDecision{Resolve: true}, nil
			}
			ref, err := uc.Publisher.PublishPost(ctx, *post)
			if err != nil {
				return ports.TxDecision{}, errors.Join(domainerrors.ErrPublishFailed, err)
			}
			result.Outcome = entities.OutcomeApproved
			result.Published = &ref
			return ports.TxDecision{Resolve: true, Publish: &ref}, nil
		})
		if err == nil {
			lastErr = nil
			break
		}
		if errors.Is(err, domainerrors.ErrConflict) {
			lastErr = err
			continue
		}
		if errors.Is(err, domainerrors.ErrPostNotFound) {
			// Already resolved by a concurrent transaction; silent no-op.
			logger.Info("admin vote on resolved post",
				"event", "approval_admin_vote_post_gone",
				"module", "post-moderation/approval-engine",
				"layer", "application",
				"group_id", cmd.Post.GroupID,
				"message_id", cmd.Post.MessageID,
				"admin_id", cmd.AdminID,
			)
			return SetAdminVoteResult{}, err
		}
		return SetAdminVoteResult{}, err
	}
	if lastErr != nil {
		logger.Warn("admin vote conflict retries exhausted",
			"event", "approval_admin_vote_conflict_exhausted",
			"module", "post-moderation/approval-engine",
			"layer", "application",
			"group_id", cmd.Post.GroupID,
			"message_id", cmd.Post.MessageID,
			"admin_id", cmd.AdminID,
		)
		return SetAdminVoteResult{}, domainerrors.ErrPostNotFound
	}

	if result.NoChange {
		logger.Info("admin vote duplicate absorbed",
			"event", "approval_admin_vote_duplicate",
			"module", "post-moderation/approval-engine",
			"layer", "application",
			"group_id", cmd.Post.GroupID,
			"message_id", cmd.Post.MessageID,
			"admin_id", cmd.AdminID,
			"approve", cmd.Approve,
			"count", result.Count,
		)
		return result, nil
	}

	if result.Outcome != entities.OutcomeNone {
		uc.appendResolutionEvent(ctx, cmd, result)
		logger.Info("pending post resolved",
			"event", "approval_post_resolved",
			"module", "post-moderation/approval-engine",
			"layer", "application",
			"group_id", cmd.Post.GroupID,
			"message_id", cmd.Post.MessageID,
			"outcome", string(result.Outcome),
			"votes", result.Count,
		)
		return result, nil
	}

	logger.Info("admin vote recorded",
		"event", "approval_admin_vote_recorded",
		"module", "post-moderation/approval-engine",
		"layer", "application",
		"group_id", cmd.Post.GroupID,
		"message_id", cmd.Post.MessageID,
		"admin_id", cmd.AdminID,
		"approve", cmd.Approve,
		"count", result.Count,
	)
	return result, nil
}

// appendResolutionEvent records post.published/post.rejected after the commit.
// Failures are logged, never surfaced: the transition already happened.
func (uc AdminVoteUseCase) appendResolutionEvent(ctx context.Context, cmd SetAdminVoteCommand, result SetAdminVoteResult) {
	if uc.Outbox == nil {
		return
	}
	logger := application.ResolveLogger(uc.Logger)
	eventType := "post.rejected"
	if result.Outcome == entities.OutcomeApproved {
		eventType = "post.published"
	}
	envelope, err := newApprovalEnvelope(ctx, uc.IDGen, eventType, cmd, result, uc.now())
	if err == nil {
		err = uc.Outbox.AppendOutbox(ctx, envelope)
	}
	if err != nil {
		logger.Error("resolution event append failed",
			"event", "approval_outbox_append_failed",
			"module", "post-moderation/approval-engine",
			"layer", "application",
			"group_id", cmd.Post.GroupID,
			"message_id", cmd.Post.MessageID,
			"error", err.Error(),
		)
	}
}

func (uc AdminVoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
