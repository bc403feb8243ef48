package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seu-repo/arremateai/internal/adapter/cache"
	"github.com/seu-repo/arremateai/internal/adapter/external/bank"
	"github.com/seu-repo/arremateai/internal/adapter/external/cnpj"
	"github.com/seu-repo/arremateai/internal/adapter/external/notification"
	"github.com/seu-repo/arremateai/internal/adapter/grpc/server"
	"github.com/seu-repo/arremateai/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/arremateai/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/arremateai/internal/adapter/queue"
	"github.com/seu-repo/arremateai/internal/adapter/storage/blob"
	"github.com/seu-repo/arremateai/internal/adapter/storage/postgres"
	"github.com/seu-repo/arremateai/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/arremateai/internal/adapter/websocket"
	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/arremateai/internal/observability/telemetry"
	"github.com/seu-repo/arremateai/internal/ports"
	"github.com/seu-repo/arremateai/internal/service/auth"
	"github.com/seu-repo/arremateai/internal/service/email"
	"github.com/seu-repo/arremateai/internal/service/favorite"
	"github.com/seu-repo/arremateai/internal/service/health"
	"github.com/seu-repo/arremateai/internal/service/listing"
	"github.com/seu-repo/arremateai/internal/service/seller"
	"github.com/seu-repo/arremateai/pkg/config"
)

const serviceName = "arremateai"

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting ArremateAI",
		zap.String("service", serviceName),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Pull secrets from Vault
	if cfg.Vault.Enabled {
		sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token, cfg.Vault.Path, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Vault client", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = sm.Apply(ctx, cfg)
		cancel()
		if err != nil {
			logger.Fatal("Failed to read secrets from Vault", zap.Error(err))
		}
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.Tracing.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, cfg.App.Version, cfg.Tracing.JaegerEndpoint, cfg.Tracing.SampleRatio)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database.URL, postgres.PoolConfig{
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogQueries:      cfg.Database.LogQueries,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer postgres.Close(db)

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	tx := postgres.NewTransactor(db)

	// 6. Initialize Cache (Redis with in-memory fallback)
	appCache := cache.New(cfg.Redis.URL, logger)
	defer appCache.Close()

	// 7. Initialize Message Queue
	messageQueue, err := queue.New(cfg.Queue.Driver, cfg.Queue.URL(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err), zap.String("driver", cfg.Queue.Driver))
	}
	defer messageQueue.Close()
	events := queue.NewEventPublisher(messageQueue, logger)

	// 8. Initialize WebSocket Hub (admin live feed)
	wsHub := wsAdapter.NewHub(logger)
	if err := wsHub.Subscribe(messageQueue, domain.SubjectSellerStatusChanged, domain.SubjectListingChanged); err != nil {
		logger.Fatal("Failed to subscribe WebSocket hub", zap.Error(err))
	}
	defer wsHub.Close()

	// 9. Initialize Blob Storage
	blobs, err := blob.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize blob storage", zap.Error(err))
	}

	// 10. Initialize Notifier
	notifier := newNotifier(cfg.Email, logger)

	// 11. Initialize Third-party Clients
	cnpjLookup := cnpj.NewClient(
		circuitbreaker.NewHTTPClient(breakerSettings("receitaws", cfg), logger),
		cfg.External.ReceitaWSURL, appCache, cfg.Cache.CNPJTTL, logger)
	banks := bank.NewDirectory(
		circuitbreaker.NewHTTPClient(breakerSettings("brasilapi", cfg), logger),
		cfg.External.BrasilAPIURL, appCache, cfg.Cache.BanksTTL, logger)

	// 12. Initialize Repositories
	userRepo := postgres.NewUserRepository(db, logger)
	documentRepo := postgres.NewDocumentRepository(db, logger)
	historyRepo := postgres.NewStatusHistoryRepository(db, logger)
	listingRepo := postgres.NewListingRepository(db, logger)
	imageRepo := postgres.NewImageRepository(db, logger)
	favoriteRepo := postgres.NewFavoriteRepository(db, logger)

	// 13. Initialize Services (Business Logic Layer)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenDuration, appCache, logger)
	authService := auth.NewService(userRepo, jwtService, logger)
	rbacService := auth.NewRBACService(logger)

	if cfg.Admin.Email != "" {
		if err := authService.EnsureAdmin(context.Background(), cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			logger.Fatal("Failed to bootstrap administrator", zap.Error(err))
		}
	}

	sellerService := seller.NewService(seller.Deps{
		Users:     userRepo,
		Documents: documentRepo,
		History:   historyRepo,
		Tx:        tx,
		Blobs:     blobs,
		Notifier:  notifier,
		Events:    events,
		CNPJ:      cnpjLookup,
	}, seller.Config{
		StrictCNPJ:      cfg.Registration.StrictCNPJ,
		VerifyCNPJ:      cfg.Registration.VerifyCNPJ,
		MaxDocumentSize: cfg.Storage.MaxDocumentSize,
		NotifyTimeout:   cfg.Email.Timeout,
	}, logger)

	statisticsService := listing.NewStatisticsService(listingRepo, appCache, cfg.Cache.StatisticsTTL, logger)
	listingService := listing.NewService(listing.Deps{
		Users:    userRepo,
		Listings: listingRepo,
		Images:   imageRepo,
		Tx:       tx,
		Blobs:    blobs,
		Events:   events,
		Stats:    statisticsService,
	}, listing.Config{MaxImageSize: cfg.Storage.MaxImageSize}, logger)

	favoriteService := favorite.NewService(favoriteRepo, listingRepo, tx, logger)

	// 14. Initialize Health Checks
	healthService := health.NewService(health.Config{Version: cfg.App.Version}, logger)
	healthService.RegisterPing("database", func(ctx context.Context) error { return postgres.Ping(ctx, db) }, true)
	healthService.RegisterPing("cache", appCache.Ping, false)

	// 15. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))
	app.Use(middleware.Metrics())
	app.Use(middleware.RateLimit(cfg.RateLimiting))

	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	app.Static("/uploads", cfg.Storage.UploadDir)

	// API v1 Routes
	v1 := app.Group("/api/v1", middleware.CircuitBreaker("http-api", cfg.CircuitBreaker, logger))
	handlers.RegisterRoutes(v1, handlers.Handlers{
		Auth:       handlers.NewAuthHandler(authService, logger),
		Sellers:    handlers.NewSellerHandler(sellerService, logger),
		Listings:   handlers.NewListingHandler(listingService, logger),
		Statistics: handlers.NewStatisticsHandler(statisticsService, logger),
		Favorites:  handlers.NewFavoriteHandler(favoriteService, logger),
		Banks:      handlers.NewBankHandler(banks, logger),
	}, authService, rbacService)

	// Admin live feed
	app.Get("/ws/admin",
		middleware.AuthRequired(authService),
		middleware.RequireRole(domain.UserRoleAdmin),
		wsAdapter.Upgrade,
		wsHub.Handler(),
	)

	// 16. Initialize gRPC Server (health + reflection)
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var grpcServer *server.GRPCServer
	if cfg.GRPC.Enabled {
		grpcServer = server.NewGRPCServer(authService, logger)
		go grpcServer.WatchReadiness(ctx, func(ctx context.Context) bool {
			return healthService.Ready(ctx).Ready
		}, 10*time.Second)

		go func() {
			logger.Info("Starting gRPC Server", zap.Int("port", cfg.GRPC.Port))
			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
			if err != nil {
				logger.Fatal("Failed to listen for gRPC", zap.Error(err))
			}
			if err := grpcServer.Serve(lis); err != nil {
				logger.Fatal("gRPC Server failed", zap.Error(err))
			}
		}()
	}

	// 17. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 18. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.Stop()
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}

// newNotifier falls back to logging when email delivery is disabled or
// cannot be configured.
func newNotifier(cfg config.EmailConfig, logger *zap.Logger) ports.Notifier {
	if !cfg.Enabled {
		return notification.NewLogNotifier(logger)
	}

	mailer, err := email.NewService(&email.Config{
		Provider:       cfg.Provider,
		FromEmail:      cfg.From,
		FromName:       cfg.FromName,
		SendGridAPIKey: cfg.SendGridAPIKey,
		SMTPHost:       cfg.SMTPHost,
		SMTPPort:       cfg.SMTPPort,
		SMTPUsername:   cfg.SMTPUsername,
		SMTPPassword:   cfg.SMTPPassword,
		SMTPUseTLS:     cfg.SMTPUseTLS,
		AdminEmail:     cfg.AdminAddress,
		FrontendURL:    cfg.FrontendURL,
	}, logger)
	if err != nil {
		logger.Error("Email service unavailable, notifications will only be logged", zap.Error(err))
		return notification.NewLogNotifier(logger)
	}
	return notification.NewEmailNotifier(mailer, logger)
}

func breakerSettings(name string, cfg *config.Config) circuitbreaker.HTTPClientSettings {
	s := circuitbreaker.DefaultHTTPClientSettings(name)
	if cfg.External.Timeout > 0 {
		s.Timeout = cfg.External.Timeout
	}
	if cfg.CircuitBreaker.MaxRequests > 0 {
		s.MaxRequests = cfg.CircuitBreaker.MaxRequests
	}
	if cfg.CircuitBreaker.Interval > 0 {
		s.Interval = cfg.CircuitBreaker.Interval
	}
	if cfg.CircuitBreaker.Timeout > 0 {
		s.BreakerTimeout = cfg.CircuitBreaker.Timeout
	}
	if cfg.CircuitBreaker.FailureThreshold > 0 {
		s.FailureThreshold = cfg.CircuitBreaker.FailureThreshold
	}
	return s
}
