package handicap

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	handicapservice "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/application"
	handicaphandlers "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/handlers"
	handicapinbox "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/inbox"
	handicapjwt "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/jwt"
	"github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/parsers"
	handicapqueue "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/queue"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	handicaprouter "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/router"
	"github.com/Black-And-White-Club/fairway-bot/app/observability"
	"github.com/Black-And-White-Club/fairway-bot/config"
	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

// Module represents the handicap module.
type Module struct {
	HandicapService handicapservice.Service
	Handlers        *handicaphandlers.HandicapHandlers
	HandicapRouter  *handicaprouter.HandicapRouter
	Queue           *handicapqueue.Service
	JWT             handicapjwt.Provider
	Inbox           *handicapinbox.Watcher

	logger     *slog.Logger
	config     *config.Config
	cancelFunc context.CancelFunc
}

// Dependencies are the shared resources the module is built from.
type Dependencies struct {
	Repository    handicapdb.Repository
	DB            *bun.DB
	Publisher     message.Publisher
	Subscriber    message.Subscriber
	Router        *message.Router
	Observability *observability.Observability
	// EnableQueue schedules recalculations on River instead of running them inline.
	EnableQueue bool
}

// NewHandicapModule creates a new instance of the handicap module.
func NewHandicapModule(ctx context.Context, cfg *config.Config, deps Dependencies) (*Module, error) {
	obs := deps.Observability
	logger := obs.Logger.With(attr.String("module", "handicap"))
	logger.Info("handicap.NewHandicapModule called")

	service := handicapservice.NewHandicapService(
		deps.Repository,
		deps.Publisher,
		parsers.NewFactory(),
		logger,
		obs.HandicapMetrics,
		obs.Tracer,
		deps.DB,
		cfg.Handicap,
	)

	module := &Module{
		HandicapService: service,
		logger:          logger,
		config:          cfg,
	}

	var scheduler handicaphandlers.RecalculationScheduler
	if deps.EnableQueue {
		queue, err := handicapqueue.NewService(ctx, deps.DB, logger, cfg.Postgres.DSN, obs.HandicapMetrics, service, cfg.Queue)
		if err != nil {
			return nil, fmt.Errorf("failed to create handicap queue: %w", err)
		}
		module.Queue = queue
		scheduler = queue
	}

	module.Handlers = handicaphandlers.NewHandicapHandlers(service, scheduler, logger, obs.Tracer)

	if deps.Router != nil {
		module.HandicapRouter = handicaprouter.NewHandicapRouter(logger, deps.Router, deps.Subscriber, obs.Tracer, obs.Registry)
		if err := module.HandicapRouter.Configure(ctx, module.Handlers); err != nil {
			return nil, fmt.Errorf("failed to configure handicap router: %w", err)
		}
	}

	if cfg.JWT.Secret == "" {
		logger.Warn("JWT secret not configured, write endpoints will reject every request")
	}
	module.JWT = handicapjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer)

	if cfg.Inbox.Dir != "" {
		inbox, err := handicapinbox.NewWatcher(cfg.Inbox, service, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create scorecard inbox: %w", err)
		}
		module.Inbox = inbox
	}

	return module, nil
}

// RegisterRoutes mounts the module's API under /api.
func (m *Module) RegisterRoutes(r chi.Router) {
	throttle := handicaphandlers.NewClientThrottle(rate.Limit(m.config.HTTP.RateLimit), m.config.HTTP.RateBurst)

	r.Route("/api", func(r chi.Router) {
		r.Use(handicaphandlers.OriginMiddleware(m.config.HTTP.AllowedOrigins))
		r.Use(handicaphandlers.ThrottleMiddleware(throttle))
		handicaphandlers.RegisterRoutes(r, m.Handlers, handicaphandlers.BearerAuthMiddleware(m.JWT))
	})
}

// HealthCheck reports whether the background queue can reach its tables.
func (m *Module) HealthCheck(ctx context.Context) error {
	if m.Queue == nil {
		return nil
	}
	return m.Queue.HealthCheck(ctx)
}

// Run starts the queue workers and the scorecard inbox, then blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}
	m.logger.Info("Starting handicap module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if m.Queue != nil {
		if err := m.Queue.Start(ctx); err != nil {
			m.logger.Error("Failed to start handicap queue", attr.Error(err))
			return
		}
	}

	if m.Inbox != nil {
		go func() {
			if err := m.Inbox.Run(ctx); err != nil {
				m.logger.Error("Scorecard inbox stopped", attr.Error(err))
			}
		}()
	}

	<-ctx.Done()
	m.logger.Info("Handicap module goroutine stopped")
}

// Close stops the inbox and the queue workers, waiting up to ten seconds for running jobs.
func (m *Module) Close() error {
	m.logger.Info("Stopping handicap module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.Inbox != nil {
		if err := m.Inbox.Close(); err != nil {
			m.logger.Warn("Failed to close scorecard inbox", attr.Error(err))
		}
	}

	if m.Queue != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.Queue.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop handicap queue: %w", err)
		}
	}

	m.logger.Info("Handicap module stopped")
	return nil
}
