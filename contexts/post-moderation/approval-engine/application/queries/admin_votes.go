package queries

import (
	"context"

	"spotted/contexts/post-moderation/approval-engine/domain/entities"
	"spotted/contexts/post-moderation/approval-engine/ports"
)

// AdminVotesUseCase exposes the current vote list of a pending post for the
// approval keyboard recap.
type AdminVotesUseCase struct {
	Store ports.PendingPostStore
}

func (uc AdminVotesUseCase) List(ctx context.Context, id entities.PostID) ([]entities.AdminVote, error) {
	post, err := uc.Store.GetPending(ctx, id)
	if err != nil {
		return nil, err
	}
	return post.Votes(), nil
}
