package reportguard

import (
	"log/slog"

	"spotted/contexts/post-moderation/report-guard/adapters/memory"
	"spotted/contexts/post-moderation/report-guard/application/commands"
	"spotted/contexts/post-moderation/report-guard/ports"
)

type Module struct {
	Reports commands.ReportUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Store  ports.ReportStore
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Reports: commands.ReportUseCase{
			Store:  deps.Store,
			Clock:  deps.Clock,
			IDGen:  deps.IDGen,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Store:  store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
