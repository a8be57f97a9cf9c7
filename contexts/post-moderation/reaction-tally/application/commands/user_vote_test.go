package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"spotted/contexts/post-moderation/reaction-tally/adapters/memory"
	"spotted/contexts/post-moderation/reaction-tally/domain/entities"
	domainerrors "spotted/contexts/post-moderation/reaction-tally/domain/errors"
)

func seededUseCase(id entities.PostID) (UserVoteUseCase, *memory.Store) {
	now := time.Now().UTC()
	store := memory.NewStore([]entities.PublishedPost{{
		ID:        id,
		Reactions: map[int64]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}})
	return UserVoteUseCase{Store: store, Clock: store}, store
}

func TestSetUserVoteValidatesVoter(t *testing.T) {
	id := entities.PostID{ChannelID: -1, MessageID: 1}
	uc, _ := seededUseCase(id)

	_, err := uc.SetUserVote(context.Background(), SetUserVoteCommand{
		Post: id, VoterID: 0, Category: "0", Categories: []string{"0"},
	})
	if !errors.Is(err, domainerrors.ErrInvalidVoteInput) {
		t.Fatalf("zero voter id should be rejected, got %v", err)
	}
}

func TestSetUserVoteRetriesTransientConflict(t *testing.T) {
	id := entities.PostID{ChannelID: -1, MessageID: 2}
	uc, store := seededUseCase(id)
	store.FailTransactions(conflictAttempts - 1)

	result, err := uc.SetUserVote(context.Background(), SetUserVoteCommand{
		Post: id, VoterID: 7, Category: "0", Categories: []string{"0", "1"},
	})
	if err != nil {
		t.Fatalf("vote should succeed after transient conflicts: %v", err)
	}
	if !result.WasAdded {
		t.Fatal("vote should be added")
	}
}

func TestSetUserVoteConflictExhaustionDegradesToNotFound(t *testing.T) {
	id := entities.PostID{ChannelID: -1, MessageID: 3}
	uc, store := seededUseCase(id)
	store.FailTransactions(conflictAttempts)

	_, err := uc.SetUserVote(context.Background(), SetUserVoteCommand{
		Post: id, VoterID: 7, Category: "0", Categories: []string{"0", "1"},
	})
	if !errors.Is(err, domainerrors.ErrPostNotFound) {
		t.Fatalf("exhausted retries should degrade to not-found, got %v", err)
	}
}
