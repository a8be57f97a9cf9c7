package usersettings

import (
	"log/slog"

	"spotted/contexts/community-experience/user-settings/adapters/memory"
	"spotted/contexts/community-experience/user-settings/application"
	"spotted/contexts/community-experience/user-settings/ports"
)

type Module struct {
	Settings application.Service
	Store    *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Settings: application.Service{
			Repo:   deps.Repository,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
