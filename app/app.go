package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/fairway-bot/app/eventbus"
	"github.com/Black-And-White-Club/fairway-bot/app/modules/handicap"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/Black-And-White-Club/fairway-bot/app/observability"
	"github.com/Black-And-White-Club/fairway-bot/config"
	"github.com/Black-And-White-Club/fairway-bot/db/bundb"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// App wires the database, event bus and handicap module into one process.
type App struct {
	Cfg            *config.Config
	Observability  *observability.Observability
	Logger         *slog.Logger
	db             *bundb.DBService
	EventBus       *eventbus.EventBus
	Router         *message.Router
	HandicapModule *handicap.Module
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.Init(cfg.Observability)
	logger := obs.Logger

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS, logger)
	if err != nil {
		dbService.Close()
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		bus.Close()
		dbService.Close()
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}

	module, err := handicap.NewHandicapModule(ctx, cfg, handicap.Dependencies{
		Repository:    dbService.HandicapDB,
		DB:            dbService.GetDB(),
		Publisher:     bus,
		Subscriber:    bus,
		Router:        router,
		Observability: obs,
		EnableQueue:   true,
	})
	if err != nil {
		bus.Close()
		dbService.Close()
		return nil, fmt.Errorf("failed to initialize handicap module: %w", err)
	}

	return &App{
		Cfg:            cfg,
		Observability:  obs,
		Logger:         logger,
		db:             dbService,
		EventBus:       bus,
		Router:         router,
		HandicapModule: module,
	}, nil
}

// DB returns the database service.
func (app *App) DB() *bundb.DBService {
	return app.db
}

// Publisher returns the publisher.
func (app *App) Publisher() message.Publisher {
	return app.EventBus
}

// Close releases everything NewApp opened, in reverse order.
func (app *App) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	keep(app.HandicapModule.Close())
	keep(app.Router.Close())
	keep(app.EventBus.Close())
	keep(app.db.Close())
	return firstErr
}
