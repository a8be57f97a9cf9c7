package approvalengine

import (
	"log/slog"

	"spotted/contexts/post-moderation/approval-engine/adapters/memory"
	"spotted/contexts/post-moderation/approval-engine/application/commands"
	"spotted/contexts/post-moderation/approval-engine/application/queries"
	"spotted/contexts/post-moderation/approval-engine/ports"
)

type Module struct {
	Votes  commands.AdminVoteUseCase
	Intake commands.CreatePendingUseCase
	Recap  queries.AdminVotesUseCase
	Store  *memory.Store
}

type Dependencies struct {
	Store     ports.PendingPostStore
	Publisher ports.Publisher
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Votes: commands.AdminVoteUseCase{
			Store:     deps.Store,
			Publisher: deps.Publisher,
			Outbox:    deps.Outbox,
			Clock:     deps.Clock,
			IDGen:     deps.IDGen,
			Logger:    deps.Logger,
		},
		Intake: commands.CreatePendingUseCase{
			Store:  deps.Store,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		Recap: queries.AdminVotesUseCase{
			Store: deps.Store,
		},
	}
}

func NewInMemoryModule(publisher ports.Publisher, logger *slog.Logger) Module {
	store := memory.NewStore(nil)
	module := NewModule(Dependencies{
		Store:     store,
		Publisher: publisher,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
