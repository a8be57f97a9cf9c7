package unit

import (
	"context"
	"errors"
	"sync"
	"testing"

	approvalengine "spotted/contexts/post-moderation/approval-engine"
	"spotted/contexts/post-moderation/approval-engine/application/commands"
	"spotted/contexts/post-moderation/approval-engine/domain/entities"
	domainerrors "spotted/contexts/post-moderation/approval-engine/domain/errors"
)

type countingPublisher struct {
	mu    sync.Mutex
	calls int
	fail  bool
	next  int64
}

func (p *countingPublisher) PublishPost(_ context.Context, _ entities.PendingPost) (entities.PublishedRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return entities.PublishedRef{}, errors.New("channel send failed")
	}
	p.calls++
	p.next++
	return entities.PublishedRef{ChannelID: -1001, MessageID: p.next}, nil
}

func (p *countingPublisher) publishCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func seedPending(t *testing.T, module approvalengine.Module, post entities.PostID, submitterID int64) {
	t.Helper()
	err := module.Intake.Execute(context.Background(), commands.CreatePendingCommand{
		Post:        post,
		SubmitterID: submitterID,
	})
	if err != nil {
		t.Fatalf("seed pending post: %v", err)
	}
}

func TestAdminVoteQuorumPromotesExactlyOnce(t *testing.T) {
	publisher := &countingPublisher{}
	module := approvalengine.NewInMemoryModule(publisher, nil)
	post := entities.PostID{GroupID: -500, MessageID: 10}
	seedPending(t, module, post, 77)

	first, err := module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
		Post: post, AdminID: 1, Approve: true, Quorum: 2,
	})
	if err != nil {
		t.Fatalf("first vote should succeed: %v", err)
	}
	if first.Count != 1 || first.Outcome != entities.OutcomeNone {
		t.Fatalf("first vote should stay below quorum, got count=%d outcome=%s", first.Count, first.Outcome)
	}

	second, err := module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
		Post: post, AdminID: 2, Approve: true, Quorum: 2,
	})
	if err != nil {
		t.Fatalf("second vote should succeed: %v", err)
	}
	if second.Outcome != entities.OutcomeApproved {
		t.Fatalf("quorum crossing should approve, got %s", second.Outcome)
	}
	if second.SubmitterID != 77 {
		t.Fatalf("resolution should carry the submitter, got %d", second.SubmitterID)
	}
	if second.Published == nil {
		t.Fatal("promotion should report the published identity")
	}
	if publisher.publishCount() != 1 {
		t.Fatalf("expected exactly one publish, got %d", publisher.publishCount())
	}
	if module.Store.PendingLen() != 0 {
		t.Fatalf("pending post should be deleted on promotion, %d left", module.Store.PendingLen())
	}
	if !module.Store.Published(*second.Published) {
		t.Fatal("published record should exist under the new identity")
	}

	_, err = module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
		Post: post, AdminID: 3, Approve: true, Quorum: 2,
	})
	if !errors.Is(err, domainerrors.ErrPostNotFound) {
		t.Fatalf("vote after resolution should be a not-found no-op, got %v", err)
	}
}

func TestAdminVoteDuplicateIsAbsorbed(t *testing.T) {
	publisher := &countingPublisher{}
	module := approvalengine.NewInMemoryModule(publisher, nil)
	post := entities.PostID{GroupID: -500, MessageID: 11}
	seedPending(t, module, post, 42)

	first, err := module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
		Post: post, AdminID: 9, Approve: true, Quorum: 3,
	})
	if err != nil {
		t.Fatalf("first vote should succeed: %v", err)
	}
	if first.NoChange {
		t.Fatal("first vote must register as a change")
	}

	second, err := module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
		Post: post, AdminID: 9, Approve: true, Quorum: 3,
	})
	if err != nil {
		t.Fatalf("duplicate vote should not fail: %v", err)
	}
	if !second.NoChange {
		t.Fatal("duplicate vote in the same direction must report NoChange")
	}
	if second.Count != first.Count {
		t.Fatalf("duplicate vote must not move the count: %d != %d", second.Count, first.Count)
	}
}

func TestAdminVoteFlipSwitchesDirection(t *testing.T) {
	publisher := &countingPublisher{}
	module := approvalengine.NewInMemoryModule(publisher, nil)
	post := entities.PostID{GroupID: -500, MessageID: 12}
	seedPending(t, module, post, 42)

	_, err := module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
		Post: post, AdminID: 5, Approve: true, Quorum: 3,
	})
	if err != nil {
		t.Fatalf("approve vote should succeed: %v", err)
	}

	flipped, err := module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
		Post: post, AdminID: 5, Approve: false, Quorum: 3,
	})
	if err != nil {
		t.Fatalf("flip vote should succeed: %v", err)
	}
	if flipped.NoChange {
		t.Fatal("direction flip must register as a change")
	}
	if flipped.Count != 1 {
		t.Fatalf("reject count after flip should be 1, got %d", flipped.Count)
	}
	if len(flipped.Votes) != 1 || flipped.Votes[0].Approved {
		t.Fatalf("vote list should hold one rejection, got %+v", flipped.Votes)
	}
}

func TestRejectionQuorumResolvesWithoutPublish(t *testing.T) {
	publisher := &countingPublisher{}
	module := approvalengine.NewInMemoryModule(publisher, nil)
	post := entities.PostID{GroupID: -500, MessageID: 13}
	seedPending(t, module, post, 42)

	_, err := module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
		Post: post, AdminID: 1, Approve: false, Quorum: 2,
	})
	if err != nil {
		t.Fatalf("first reject should succeed: %v", err)
	}
	result, err := module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
		Post: post, AdminID: 2, Approve: false, Quorum: 2,
	})
	if err != nil {
		t.Fatalf("second reject should succeed: %v", err)
	}
	if result.Outcome != entities.OutcomeRejected {
		t.Fatalf("reject quorum should resolve as rejected, got %s", result.Outcome)
	}
	if result.Published != nil {
		t.Fatal("rejection must not publish")
	}
	if publisher.publishCount() != 0 {
		t.Fatalf("rejection must not reach the publisher, got %d calls", publisher.publishCount())
	}
	if module.Store.PendingLen() != 0 {
		t.Fatal("rejected post should be deleted")
	}
}

func TestConcurrentApprovalsPublishOnce(t *testing.T) {
	publisher := &countingPublisher{}
	module := approvalengine.NewInMemoryModule(publisher, nil)
	post := entities.PostID{GroupID: -500, MessageID: 14}
	seedPending(t, module, post, 42)

	const voters = 8
	var wg sync.WaitGroup
	wg.Add(voters)
	for i := 0; i < voters; i++ {
		go func(adminID int64) {
			defer wg.Done()
			_, err := module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
				Post: post, AdminID: adminID, Approve: true, Quorum: 2,
			})
			if err != nil && !errors.Is(err, domainerrors.ErrPostNotFound) {
				t.Errorf("unexpected vote error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	if publisher.publishCount() != 1 {
		t.Fatalf("racing approvals must publish exactly once, got %d", publisher.publishCount())
	}
	if module.Store.PendingLen() != 0 {
		t.Fatal("pending post should be gone after promotion")
	}
}

func TestPublishFailureKeepsPostPending(t *testing.T) {
	publisher := &countingPublisher{fail: true}
	module := approvalengine.NewInMemoryModule(publisher, nil)
	post := entities.PostID{GroupID: -500, MessageID: 15}
	seedPending(t, module, post, 42)

	_, err := module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
		Post: post, AdminID: 1, Approve: true, Quorum: 2,
	})
	if err != nil {
		t.Fatalf("below-quorum vote should succeed: %v", err)
	}

	_, err = module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
		Post: post, AdminID: 2, Approve: true, Quorum: 2,
	})
	if !errors.Is(err, domainerrors.ErrPublishFailed) {
		t.Fatalf("publish failure should surface ErrPublishFailed, got %v", err)
	}
	if module.Store.PendingLen() != 1 {
		t.Fatal("failed publish must keep the post pending")
	}

	// The aborted transaction must not have recorded the crossing vote, so a
	// later retry can still promote.
	votes, err := module.Recap.List(context.Background(), post)
	if err != nil {
		t.Fatalf("recap should still find the post: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("aborted vote must not persist, got %d votes", len(votes))
	}

	publisher.fail = false
	result, err := module.Votes.SetAdminVote(context.Background(), commands.SetAdminVoteCommand{
		Post: post, AdminID: 2, Approve: true, Quorum: 2,
	})
	if err != nil {
		t.Fatalf("retried vote should promote: %v", err)
	}
	if result.Outcome != entities.OutcomeApproved {
		t.Fatalf("retry should approve, got %s", result.Outcome)
	}
}
