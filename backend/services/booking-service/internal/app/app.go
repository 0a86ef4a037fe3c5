package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"evcharge/backend/libs/db"
	libredis "evcharge/backend/libs/redis"
	appconfig "evcharge/backend/services/booking-service/internal/config"
	"evcharge/backend/services/booking-service/internal/http"
	"evcharge/backend/services/booking-service/internal/http/handlers"
	"evcharge/backend/services/booking-service/internal/http/middleware"
	"evcharge/backend/services/booking-service/internal/metrics"
	"evcharge/backend/services/booking-service/internal/password"
	"evcharge/backend/services/booking-service/internal/repository"
	"evcharge/backend/services/booking-service/internal/service"
	"evcharge/backend/services/booking-service/internal/store"
	"evcharge/backend/services/booking-service/internal/ws"
)

// App wires dependencies for the booking service.
type App struct {
	server  *httpserver.Server
	handler http.Handler
	hub     *ws.Hub
	sweeper *service.CompletionSweeper
	db      *sql.DB
	redis   *goredis.Client
	logger  *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	backend, err := a.openBackend(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	var seed store.Seed
	if cfg.Store.Seed {
		seed = store.DefaultSeed()
	}
	recordStore := store.New(backend, seed)
	if err := recordStore.Init(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("init record store: %w", err)
	}

	stationRepo := repository.NewStationRepository(recordStore)
	chargerRepo := repository.NewChargerRepository(recordStore)
	bookingRepo := repository.NewBookingRepository(recordStore)
	sessionRepo := repository.NewSessionRepository(recordStore)
	paymentRepo := repository.NewPaymentRepository(recordStore)
	userRepo := repository.NewUserRepository(recordStore)

	secret, err := password.NewSharedSecret(password.NewBcryptHasher(0), cfg.Auth.DemoPassword)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	a.hub = ws.NewHub(logger, cfg.LiveFeed.AllowedOrigins)
	promMetrics := metrics.New()

	tokenSvc := service.NewTokenService(cfg.Auth.JWTSecret, cfg.JWTExpiration())
	identitySvc := service.NewIdentityService(userRepo, secret, tokenSvc, logger)
	catalogSvc := service.NewCatalogService(stationRepo, chargerRepo, a.hub, logger)
	bookingSvc := service.NewBookingService(service.BookingServiceDeps{
		Bookings: bookingRepo,
		Stations: stationRepo,
		Sessions: sessionRepo,
		Payments: paymentRepo,
		Gateway:  service.NewSimulatedGateway(cfg.PaymentDelay()),
		Cost: service.CostModel{
			KWhPerHour:    cfg.Booking.KWhPerHour,
			FallbackPrice: cfg.Booking.FallbackPricePerKWh,
		},
		Events:   a.hub,
		Recorder: promMetrics,
		Logger:   logger,
	})
	dashboardSvc := service.NewDashboardService(stationRepo, bookingRepo)
	a.sweeper = service.NewCompletionSweeper(bookingSvc, cfg.SweepInterval(), logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:     handlers.NewAuthHandlers(identitySvc, logger),
		StationsHandlers: handlers.NewStationsHandlers(catalogSvc, bookingSvc, logger),
		BookingsHandlers: handlers.NewBookingsHandlers(bookingSvc, logger),
		AdminHandlers:    handlers.NewAdminHandlers(catalogSvc, bookingSvc, dashboardSvc, logger),
		HealthHandler:    handlers.NewHealthHandler(),
		MetricsHandler:   promMetrics.Handler(),
		LiveFeed:         a.hub.ServeWS,
		Auth:             middleware.AuthMiddleware(identitySvc),
		Metrics:          middleware.MetricsMiddleware(promMetrics),
	})
	a.handler = middleware.Chain(router,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
	)
	a.server = httpserver.NewServer(cfg.HTTPAddress(), a.handler, cfg.HTTP.ShutdownTimeout, logger)

	logger.Info("booking service initialized", zap.String("store", cfg.Store.Backend))
	return a, nil
}

func (a *App) openBackend(ctx context.Context, cfg *appconfig.Config) (store.Backend, error) {
	switch cfg.Store.Backend {
	case appconfig.StoreRedis:
		client, err := libredis.NewRedisClient(ctx, libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		return store.NewRedisBackend(client, cfg.Store.KeyPrefix), nil
	case appconfig.StorePostgres:
		sqlDB, err := db.NewPostgresDB(ctx, cfg.Database.DSN, db.PoolOptions{MaxOpenConns: cfg.Database.MaxOpenConns})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.db = sqlDB
		backend := store.NewPostgresBackend(sqlDB)
		if err := backend.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return backend, nil
	default:
		return store.NewMemoryBackend(), nil
	}
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run starts the websocket hub, the completion sweeper and the HTTP server until
// context cancellation.
func (a *App) Run(ctx context.Context) error {
	go func() {
		if err := a.hub.Run(ctx); err != nil {
			a.logger.Error("websocket hub stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := a.sweeper.Run(ctx); err != nil {
			a.logger.Error("completion sweeper stopped", zap.Error(err))
		}
	}()
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
