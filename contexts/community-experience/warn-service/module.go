package warnservice

import (
	"log/slog"

	"spotted/contexts/community-experience/warn-service/adapters/memory"
	"spotted/contexts/community-experience/warn-service/application"
	"spotted/contexts/community-experience/warn-service/ports"
)

type Module struct {
	Warns application.Service
	Store *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Banner     ports.Banner
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Warns: application.Service{
			Repo:   deps.Repository,
			Banner: deps.Banner,
			Clock:  deps.Clock,
			IDGen:  deps.IDGen,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(banner ports.Banner, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Banner:     banner,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
