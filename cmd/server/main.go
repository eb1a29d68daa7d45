package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appevent "github.com/mercearia/backend/internal/application/event"
	catalogapp "github.com/mercearia/backend/internal/application/catalog"
	financeapp "github.com/mercearia/backend/internal/application/finance"
	identityapp "github.com/mercearia/backend/internal/application/identity"
	inventoryapp "github.com/mercearia/backend/internal/application/inventory"
	partnerapp "github.com/mercearia/backend/internal/application/partner"
	reportapp "github.com/mercearia/backend/internal/application/report"
	tradeapp "github.com/mercearia/backend/internal/application/trade"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/infrastructure/auth"
	"github.com/mercearia/backend/internal/infrastructure/cache"
	"github.com/mercearia/backend/internal/infrastructure/config"
	"github.com/mercearia/backend/internal/infrastructure/event"
	"github.com/mercearia/backend/internal/infrastructure/logger"
	"github.com/mercearia/backend/internal/infrastructure/migration"
	"github.com/mercearia/backend/internal/infrastructure/notification"
	"github.com/mercearia/backend/internal/infrastructure/persistence"
	"github.com/mercearia/backend/internal/infrastructure/scheduler"
	"github.com/mercearia/backend/internal/infrastructure/storage"
	"github.com/mercearia/backend/internal/infrastructure/telemetry"
	"github.com/mercearia/backend/internal/interfaces/http/handler"
	"github.com/mercearia/backend/internal/interfaces/http/middleware"
	"github.com/mercearia/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	migrationLockTTL  = 2 * time.Minute
	alertDedupTTL     = 24 * time.Hour
	shutdownTimeout   = 30 * time.Second
	healthCheckPrefix = "/health"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	baseLog, err := logger.New(logger.FromConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(baseLog)
	}()

	ctx := context.Background()

	// Telemetry: logs first so everything after is bridged to the collector
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log := loggerProvider.Bridge(baseLog, cfg.Telemetry.ServiceName, zapcore.InfoLevel)

	log.Info("Starting mercearia backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			baseLog.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.EnableDBTracing(db.DB, cfg.Database.Driver, cfg.Database.SlowThreshold, log); err != nil {
			log.Fatal("Failed to enable database tracing", zap.Error(err))
		}
	}
	if meterProvider.IsEnabled() {
		dbMetrics, err := telemetry.EnableDBMetrics(db.DB, meter)
		if err != nil {
			log.Fatal("Failed to enable database metrics", zap.Error(err))
		}
		defer func() {
			_ = dbMetrics.Stop()
		}()
	}

	// Redis backed stores, or in-memory ones when Redis is disabled
	stores, err := cache.NewStores(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize cache stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()

	if err := migrate(ctx, cfg, db, stores.Locks, log); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	scope := persistence.NewGormTransactionScope(db.DB, persistence.WithLockTimeout(cfg.Database.LockTimeout))

	// Event bus: delivery happens after commit and is best effort
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(appevent.NewLoggingHandler(log))
	businessMetrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	eventBus.Subscribe(appevent.NewMetricsHandler(businessMetrics))

	reorderHandler := inventoryapp.NewReorderAlertHandler(log)
	var (
		alertFeed     handler.AlertFeed
		sweepNotifier inventoryapp.ReorderNotifier = notification.NewLogNotifier(log)
	)
	if client := stores.Client(); client != nil {
		notifier := notification.NewRedisNotifier(client, "")
		reorderHandler.WithNotifier(notifier)
		alertFeed = notifier
		sweepNotifier = notifier
	}
	eventBus.Subscribe(event.NewIdempotentHandler(reorderHandler, stores.Idempotency, alertDedupTTL, log))

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(scope, jwtService, stores.Revocations, log)
	storeService := identityapp.NewStoreService(scope, log)
	if cfg.App.SeedStoreName != "" {
		seeded, created, err := storeService.EnsureStore(ctx, identityapp.CreateStoreRequest{
			StoreName:     cfg.App.SeedStoreName,
			AdminEmail:    cfg.App.SeedAdminEmail,
			AdminPassword: cfg.App.SeedAdminPassword,
		})
		if err != nil {
			log.Fatal("Failed to seed store", zap.Error(err))
		}
		log.Info("Seed store ready", zap.String("store_id", seeded.ID.String()), zap.Bool("created", created))
	}
	stockEngine := inventoryapp.NewStockEngine(log)
	resolver := catalog.DefaultPriceResolver()
	financeService := financeapp.NewFinanceService(scope, log)

	// Background jobs
	var reorderSweep *scheduler.DailyTrigger
	if cfg.Scheduler.Enabled {
		hour, minute, err := scheduler.ParseDailySchedule(cfg.Scheduler.ReorderSweepAt)
		if err != nil {
			log.Fatal("Invalid scheduler.reorder_sweep_at", zap.Error(err))
		}
		sweeper := reportapp.NewReorderSweeper(scope, sweepNotifier, log)
		reorderSweep = scheduler.NewDailyTrigger(scheduler.DailyTriggerConfig{
			Name:          "reorder-sweep",
			Hour:          hour,
			Minute:        minute,
			CheckInterval: cfg.Scheduler.CheckInterval,
			Timeout:       cfg.Scheduler.ReorderSweepTimeout,
		}, func(ctx context.Context) error {
			_, err := sweeper.Sweep(ctx)
			return err
		}, stores.Locks, log)
		if err := reorderSweep.Start(ctx); err != nil {
			log.Fatal("Failed to start reorder sweep", zap.Error(err))
		}
	}

	// Product photos
	productHandler := handler.NewProductHandler(catalogapp.NewProductService(scope, log))
	if cfg.Storage.Enabled {
		photoStorage, err := storage.NewS3PhotoStorage(cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to configure photo storage", zap.Error(err))
		}
		if err := photoStorage.EnsureBucket(ctx); err != nil {
			log.Warn("Photo bucket check failed, uploads may fail", zap.Error(err))
		}
		productHandler.WithPhotos(catalogapp.NewPhotoService(scope, photoStorage, cfg.Storage.PresignExpiration, log))
		log.Info("Photo storage enabled", zap.String("bucket", photoStorage.Bucket()))
	}

	// HTTP handlers
	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(authService, storeService),
		User:     handler.NewUserHandler(identityapp.NewUserService(scope, log)),
		Category: handler.NewCategoryHandler(catalogapp.NewCategoryService(scope, log)),
		Product:  productHandler,
		Pricing:  handler.NewPricingHandler(catalogapp.NewPricingService(scope, resolver, log)),
		Supplier: handler.NewSupplierHandler(partnerapp.NewSupplierService(scope, log)),
		Customer: handler.NewCustomerHandler(partnerapp.NewCustomerService(scope, log)),
		Inventory: handler.NewInventoryHandler(
			inventoryapp.NewStockService(scope, stockEngine, eventBus, log),
			inventoryapp.NewSessionService(scope, stockEngine, eventBus, log),
			alertFeed,
		),
		PurchaseOrder: handler.NewPurchaseOrderHandler(
			tradeapp.NewPurchaseService(scope, stockEngine, eventBus, log),
			financeService,
		),
		Sale:         handler.NewSaleHandler(tradeapp.NewSaleService(scope, stockEngine, resolver, eventBus, log)),
		CashRegister: handler.NewCashRegisterHandler(tradeapp.NewCashRegisterService(scope, log)),
		Finance:      handler.NewFinanceHandler(financeService),
		Report:       handler.NewReportHandler(reportapp.NewReportService(scope)),
		System:       handler.NewSystemHandler(cfg.App.Name, version, healthChecks(db, stores)),
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Global middleware, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled()))
	if meterProvider.IsEnabled() {
		httpMetrics, err := middleware.HTTPMetrics(meter)
		if err != nil {
			log.Fatal("Failed to create HTTP metrics", zap.Error(err))
		}
		engine.Use(httpMetrics)
	}

	router.Setup(engine, handlers, router.RouteMiddleware{
		Auth: middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			Validator: authService,
			Logger:    log,
		}),
		Protected: []gin.HandlerFunc{
			middleware.SpanEnricher(),
			middleware.Profiling(profiler.IsEnabled(), healthCheckPrefix),
			middleware.Idempotency(stores.Idempotency, cfg.HTTP.IdempotencyTTL, log),
		},
		Public: []gin.HandlerFunc{
			middleware.RateLimit(stores.RateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow), log),
		},
	}, router.WithAPIVersion("v1"))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	if reorderSweep != nil {
		if err := reorderSweep.Stop(shutdownCtx); err != nil {
			log.Warn("Reorder sweep did not stop in time", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// migrate brings the schema up to date. Postgres runs the versioned
// migrations under a named lock so only one replica applies them; sqlite
// is created from the models.
func migrate(ctx context.Context, cfg *config.Config, db *persistence.Database, locks cache.Locker, log *zap.Logger) error {
	if cfg.Database.Driver == config.DriverSQLite {
		return persistence.AutoMigrate(db.DB)
	}
	if !cfg.Database.AutoMigrate {
		log.Info("Skipping migrations, database.auto_migrate is off")
		return nil
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return locks.WithLock(ctx, "migrate", migrationLockTTL, func(context.Context) error {
		m, err := migration.New(sqlDB, log)
		if err != nil {
			return err
		}
		// Closing the migrator would close the shared *sql.DB
		return m.Up()
	})
}

func healthChecks(db *persistence.Database, stores *cache.Stores) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if client := stores.Client(); client != nil {
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return checks
}
