package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	reactiontally "spotted/contexts/post-moderation/reaction-tally"
	"spotted/contexts/post-moderation/reaction-tally/application/commands"
	"spotted/contexts/post-moderation/reaction-tally/domain/entities"
	domainerrors "spotted/contexts/post-moderation/reaction-tally/domain/errors"
)

var tallyCategories = []string{"0", "1", "2"}

func seedPublished(t *testing.T, module reactiontally.Module, post entities.PostID) {
	t.Helper()
	now := time.Now().UTC()
	err := module.Store.CreatePublished(context.Background(), entities.PublishedPost{
		ID:        post,
		Reactions: map[int64]string{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed published post: %v", err)
	}
}

func TestUserVoteToggleCancels(t *testing.T) {
	module := reactiontally.NewInMemoryModule(nil)
	post := entities.PostID{ChannelID: -1001, MessageID: 5}
	seedPublished(t, module, post)

	first, err := module.Votes.SetUserVote(context.Background(), commands.SetUserVoteCommand{
		Post: post, VoterID: 31, Category: "0", Categories: tallyCategories,
	})
	if err != nil {
		t.Fatalf("first vote should succeed: %v", err)
	}
	if !first.WasAdded {
		t.Fatal("first vote must be added")
	}

	second, err := module.Votes.SetUserVote(context.Background(), commands.SetUserVoteCommand{
		Post: post, VoterID: 31, Category: "0", Categories: tallyCategories,
	})
	if err != nil {
		t.Fatalf("repeat vote should succeed: %v", err)
	}
	if second.WasAdded {
		t.Fatal("repeating the same category must retract the vote")
	}
	for _, count := range second.Counts {
		if count.Count != 0 {
			t.Fatalf("all counts should be zero after retraction, got %+v", second.Counts)
		}
	}
}

func TestUserVoteSwitchReplacesCategory(t *testing.T) {
	module := reactiontally.NewInMemoryModule(nil)
	post := entities.PostID{ChannelID: -1001, MessageID: 6}
	seedPublished(t, module, post)

	_, err := module.Votes.SetUserVote(context.Background(), commands.SetUserVoteCommand{
		Post: post, VoterID: 31, Category: "0", Categories: tallyCategories,
	})
	if err != nil {
		t.Fatalf("initial vote should succeed: %v", err)
	}

	switched, err := module.Votes.SetUserVote(context.Background(), commands.SetUserVoteCommand{
		Post: post, VoterID: 31, Category: "2", Categories: tallyCategories,
	})
	if err != nil {
		t.Fatalf("switch vote should succeed: %v", err)
	}
	if !switched.WasAdded {
		t.Fatal("switching category counts as adding")
	}

	byCategory := map[string]int{}
	for _, count := range switched.Counts {
		byCategory[count.Category] = count.Count
	}
	if byCategory["0"] != 0 || byCategory["2"] != 1 {
		t.Fatalf("voter must hold exactly one category, got %+v", switched.Counts)
	}
}

func TestUserVoteRejectsUnknownCategory(t *testing.T) {
	module := reactiontally.NewInMemoryModule(nil)
	post := entities.PostID{ChannelID: -1001, MessageID: 7}
	seedPublished(t, module, post)

	_, err := module.Votes.SetUserVote(context.Background(), commands.SetUserVoteCommand{
		Post: post, VoterID: 31, Category: "99", Categories: tallyCategories,
	})
	if !errors.Is(err, domainerrors.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestUserVoteOnMissingPost(t *testing.T) {
	module := reactiontally.NewInMemoryModule(nil)

	_, err := module.Votes.SetUserVote(context.Background(), commands.SetUserVoteCommand{
		Post:       entities.PostID{ChannelID: -1001, MessageID: 404},
		VoterID:    31,
		Category:   "0",
		Categories: tallyCategories,
	})
	if !errors.Is(err, domainerrors.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestTallyCountsFollowConfiguredOrder(t *testing.T) {
	module := reactiontally.NewInMemoryModule(nil)
	post := entities.PostID{ChannelID: -1001, MessageID: 8}
	seedPublished(t, module, post)

	for voter, category := range map[int64]string{10: "1", 11: "1", 12: "0"} {
		_, err := module.Votes.SetUserVote(context.Background(), commands.SetUserVoteCommand{
			Post: post, VoterID: voter, Category: category, Categories: tallyCategories,
		})
		if err != nil {
			t.Fatalf("vote by %d should succeed: %v", voter, err)
		}
	}

	counts, err := module.Tally.Counts(context.Background(), post, tallyCategories)
	if err != nil {
		t.Fatalf("counts query should succeed: %v", err)
	}
	if len(counts) != len(tallyCategories) {
		t.Fatalf("counts must cover every configured category, got %d", len(counts))
	}
	for i, category := range tallyCategories {
		if counts[i].Category != category {
			t.Fatalf("counts must keep configured order, got %+v", counts)
		}
	}
	if counts[0].Count != 1 || counts[1].Count != 2 || counts[2].Count != 0 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}
