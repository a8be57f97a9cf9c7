package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	usersettings "spotted/contexts/community-experience/user-settings"
	settingspostgres "spotted/contexts/community-experience/user-settings/adapters/postgres"
	warnservice "spotted/contexts/community-experience/warn-service"
	warnpostgres "spotted/contexts/community-experience/warn-service/adapters/postgres"
	approvalengine "spotted/contexts/post-moderation/approval-engine"
	approvalpostgres "spotted/contexts/post-moderation/approval-engine/adapters/postgres"
	approvalworkers "spotted/contexts/post-moderation/approval-engine/application/workers"
	callbackrouter "spotted/contexts/post-moderation/callback-router"
	routerapp "spotted/contexts/post-moderation/callback-router/application"
	reactiontally "spotted/contexts/post-moderation/reaction-tally"
	tallypostgres "spotted/contexts/post-moderation/reaction-tally/adapters/postgres"
	reportguard "spotted/contexts/post-moderation/report-guard"
	reportpostgres "spotted/contexts/post-moderation/report-guard/adapters/postgres"
	"spotted/internal/platform/config"
	"spotted/internal/platform/db"
	"spotted/internal/platform/httpserver"
	"spotted/internal/platform/messaging"
	"spotted/internal/platform/telegram"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type BotApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  approvalworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildBot() (*BotApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "bot")
	tg := telegram.NewClient(cfg.TelegramAPIBase, cfg.BotToken, logger)
	renderer := routerapp.KeyboardRenderer{Labels: cfg.ReactionLabels}

	var (
		pg       *db.Postgres
		approval approvalengine.Module
		tally    reactiontally.Module
		reports  reportguard.Module
		settings usersettings.Module
		warns    warnservice.Module
	)

	banner := groupBanner{client: tg, groupID: cfg.GroupID}

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		// Development fallback: everything in memory, state is lost on restart.
		logger.Warn("POSTGRES_DSN is empty, using in-memory stores",
			"event", "bootstrap_memory_fallback",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		tally = reactiontally.NewInMemoryModule(logger)
		publisher := channelPublisher{
			client:     tg,
			renderer:   renderer,
			categories: cfg.ReactionCategories,
			channelID:  cfg.ChannelID,
			published:  tally.Store,
			logger:     logger,
		}
		approval = approvalengine.NewInMemoryModule(publisher, logger)
		reports = reportguard.NewInMemoryModule(logger)
		settings = usersettings.NewInMemoryModule(logger)
		warns = warnservice.NewInMemoryModule(banner, logger)
	} else {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}

		publisher := channelPublisher{
			client:     tg,
			renderer:   renderer,
			categories: cfg.ReactionCategories,
			channelID:  cfg.ChannelID,
			logger:     logger,
		}
		approvalRepo := approvalpostgres.NewRepository(pg.DB, logger)
		approval = approvalengine.NewModule(approvalengine.Dependencies{
			Store:     approvalRepo,
			Publisher: publisher,
			Outbox:    approvalRepo,
			Clock:     approvalpostgres.SystemClock{},
			IDGen:     approvalpostgres.UUIDGenerator{},
			Logger:    logger,
		})
		tally = reactiontally.NewModule(reactiontally.Dependencies{
			Store:  tallypostgres.NewRepository(pg.DB, logger),
			Clock:  tallypostgres.SystemClock{},
			Logger: logger,
		})
		reports = reportguard.NewModule(reportguard.Dependencies{
			Store:  reportpostgres.NewRepository(pg.DB, logger),
			Clock:  reportpostgres.SystemClock{},
			IDGen:  reportpostgres.UUIDGenerator{},
			Logger: logger,
		})
		settings = usersettings.NewModule(usersettings.Dependencies{
			Repository: settingspostgres.NewRepository(pg.DB, logger),
			Clock:      settingspostgres.SystemClock{},
			Logger:     logger,
		})
		warns = warnservice.NewModule(warnservice.Dependencies{
			Repository: warnpostgres.NewRepository(pg.DB, logger),
			Banner:     banner,
			Clock:      warnpostgres.SystemClock{},
			IDGen:      warnpostgres.UUIDGenerator{},
			Logger:     logger,
		})
	}

	editor := telegramEditor{client: tg}
	router, err := callbackrouter.NewModule(callbackrouter.Dependencies{
		Approval: approvalClient{votes: approval.Votes, quorum: cfg.Quorum},
		Tally:    tallyClient{votes: tally.Votes, categories: cfg.ReactionCategories},
		Reports:  reportClient{reports: reports.Reports},
		Settings: settings.Settings,
		Submissions: submissionService{
			client:   tg,
			intake:   approval.Intake,
			renderer: renderer,
			groupID:  cfg.GroupID,
		},
		Editor:    editor,
		Answerer:  editor,
		Notifier:  telegramNotifier{client: tg},
		Forwarder: telegramForwarder{client: tg},
		Labels:    cfg.ReactionLabels,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	server := httpserver.New(router, approval, tally, settings, warns, logger, httpserver.Options{
		Addr:               normalizeAddr(cfg.HTTPPort),
		ReactionCategories: cfg.ReactionCategories,
		MaxWarns:           cfg.MaxWarns,
		WarnExpirationDays: cfg.WarnExpirationDays,
	})
	return &BotApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(nil, logger)
	if err != nil {
		return nil, err
	}

	repo := approvalpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: approvalworkers.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     approvalpostgres.SystemClock{},
			Topic:     "post-lifecycle",
			BatchSize: 100,
			Logger:    logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *BotApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("bot app started",
			"event", "bootstrap_bot_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *BotApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
