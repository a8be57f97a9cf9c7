package queries

import (
	"context"

	"spotted/contexts/post-moderation/reaction-tally/domain/entities"
	"spotted/contexts/post-moderation/reaction-tally/ports"
)

// TallyUseCase exposes per-category counts for rendering.
type TallyUseCase struct {
	Store ports.PublishedPostStore
}

func (uc TallyUseCase) Counts(ctx context.Context, id entities.PostID, categories []string) ([]entities.CategoryCount, error) {
	post, err := uc.Store.GetPublished(ctx, id)
	if err != nil {
		return nil, err
	}
	return post.Counts(categories), nil
}
