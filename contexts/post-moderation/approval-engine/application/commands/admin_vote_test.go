package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"spotted/contexts/post-moderation/approval-engine/adapters/memory"
	"spotted/contexts/post-moderation/approval-engine/domain/entities"
	domainerrors "spotted/contexts/post-moderation/approval-engine/domain/errors"
)

type noopPublisher struct{}

func (noopPublisher) PublishPost(context.Context, entities.PendingPost) (entities.PublishedRef, error) {
	return entities.PublishedRef{ChannelID: -100, MessageID: 1}, nil
}

func seededUseCase(id entities.PostID) (AdminVoteUseCase, *memory.Store) {
	now := time.Now().UTC()
	store := memory.NewStore([]entities.PendingPost{{
		ID:          id,
		SubmitterID: 42,
		AdminVotes:  map[int64]bool{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}})
	return AdminVoteUseCase{
		Store:     store,
		Publisher: noopPublisher{},
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
	}, store
}

func TestSetAdminVoteValidatesInput(t *testing.T) {
	uc, _ := seededUseCase(entities.PostID{GroupID: -1, MessageID: 1})

	_, err := uc.SetAdminVote(context.Background(), SetAdminVoteCommand{
		Post: entities.PostID{GroupID: -1, MessageID: 1}, AdminID: 0, Approve: true, Quorum: 2,
	})
	if !errors.Is(err, domainerrors.ErrInvalidVoteInput) {
		t.Fatalf("zero admin id should be rejected, got %v", err)
	}

	_, err = uc.SetAdminVote(context.Background(), SetAdminVoteCommand{
		Post: entities.PostID{GroupID: -1, MessageID: 1}, AdminID: 1, Approve: true, Quorum: 0,
	})
	if !errors.Is(err, domainerrors.ErrInvalidVoteInput) {
		t.Fatalf("quorum below one should be rejected, got %v", err)
	}
}

func TestSetAdminVoteBelowQuorumStaysUnresolved(t *testing.T) {
	id := entities.PostID{GroupID: -1, MessageID: 6}
	uc, store := seededUseCase(id)

	result, err := uc.SetAdminVote(context.Background(), SetAdminVoteCommand{
		Post: id, AdminID: 1, Approve: true, Quorum: 3,
	})
	if err != nil {
		t.Fatalf("below-quorum vote should succeed: %v", err)
	}
	if result.Outcome != entities.OutcomeNone {
		t.Fatalf("below-quorum vote must not resolve, got outcome %q", result.Outcome)
	}
	if result.Count != 1 || result.NoChange {
		t.Fatalf("unexpected result %+v", result)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("outbox list should succeed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("below-quorum vote must not emit events, got %d", len(pending))
	}
}

func TestSetAdminVoteRetriesTransientConflict(t *testing.T) {
	id := entities.PostID{GroupID: -1, MessageID: 2}
	uc, store := seededUseCase(id)
	store.FailTransactions(conflictAttempts - 1)

	result, err := uc.SetAdminVote(context.Background(), SetAdminVoteCommand{
		Post: id, AdminID: 1, Approve: true, Quorum: 3,
	})
	if err != nil {
		t.Fatalf("vote should succeed after transient conflicts: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("vote should be recorded once, got count %d", result.Count)
	}
}

func TestSetAdminVoteConflictExhaustionDegradesToNotFound(t *testing.T) {
	id := entities.PostID{GroupID: -1, MessageID: 3}
	uc, store := seededUseCase(id)
	store.FailTransactions(conflictAttempts)

	_, err := uc.SetAdminVote(context.Background(), SetAdminVoteCommand{
		Post: id, AdminID: 1, Approve: true, Quorum: 3,
	})
	if !errors.Is(err, domainerrors.ErrPostNotFound) {
		t.Fatalf("exhausted retries should degrade to not-found, got %v", err)
	}

	post, getErr := store.GetPending(context.Background(), id)
	if getErr != nil {
		t.Fatalf("post should still be pending: %v", getErr)
	}
	if len(post.AdminVotes) != 0 {
		t.Fatal("no vote may be recorded when every attempt conflicted")
	}
}

func TestSetAdminVoteAppendsResolutionEvent(t *testing.T) {
	id := entities.PostID{GroupID: -1, MessageID: 4}
	uc, store := seededUseCase(id)

	_, err := uc.SetAdminVote(context.Background(), SetAdminVoteCommand{
		Post: id, AdminID: 1, Approve: false, Quorum: 1,
	})
	if err != nil {
		t.Fatalf("rejection should succeed: %v", err)
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("outbox list should succeed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("resolution should append one outbox message, got %d", len(pending))
	}
	if pending[0].EventType != "post.rejected" {
		t.Fatalf("expected post.rejected event, got %s", pending[0].EventType)
	}
}
