package reactiontally

import (
	"log/slog"

	"spotted/contexts/post-moderation/reaction-tally/adapters/memory"
	"spotted/contexts/post-moderation/reaction-tally/application/commands"
	"spotted/contexts/post-moderation/reaction-tally/application/queries"
	"spotted/contexts/post-moderation/reaction-tally/ports"
)

type Module struct {
	Votes commands.UserVoteUseCase
	Tally queries.TallyUseCase
	Store *memory.Store
}

type Dependencies struct {
	Store  ports.PublishedPostStore
	Clock  ports.Clock
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Votes: commands.UserVoteUseCase{
			Store:  deps.Store,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		Tally: queries.TallyUseCase{
			Store: deps.Store,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore(nil)
	module := NewModule(Dependencies{
		Store:  store,
		Clock:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
