package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	paymentapp "github.com/titipin/backend/internal/application/payment"
	settlementapp "github.com/titipin/backend/internal/application/settlement"
	walletapp "github.com/titipin/backend/internal/application/wallet"
	"github.com/titipin/backend/internal/domain/ledger"
	"github.com/titipin/backend/internal/domain/shared"
	"github.com/titipin/backend/internal/infrastructure/auth"
	"github.com/titipin/backend/internal/infrastructure/cache"
	"github.com/titipin/backend/internal/infrastructure/config"
	"github.com/titipin/backend/internal/infrastructure/event"
	"github.com/titipin/backend/internal/infrastructure/logger"
	"github.com/titipin/backend/internal/infrastructure/persistence"
	"github.com/titipin/backend/internal/infrastructure/storage"
	"github.com/titipin/backend/internal/infrastructure/telemetry"
	"github.com/titipin/backend/internal/interfaces/http/handler"
	"github.com/titipin/backend/internal/interfaces/http/middleware"
	"github.com/titipin/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Titipin settlement ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// The platform rate is informational: per-item commission is stored on
	// each sale line item, this only backs the rate shown for suppliers
	// without sales volume.
	ledger.DefaultCommissionRate = cfg.Settlement.CommissionRate

	ctx := context.Background()

	// Initialize OpenTelemetry providers. Disabled providers are no-ops,
	// so the wiring below is unconditional.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer shutdownTelemetry("tracer provider", tracerProvider.Shutdown, log)

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdownTelemetry("meter provider", meterProvider.Shutdown, log)

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer shutdownTelemetry("logger provider", loggerProvider.Shutdown, log)

	// Bridge application logs to the OTEL collector when log export is on
	if loggerProvider.IsEnabled() {
		level, parseErr := zapcore.ParseLevel(cfg.Log.Level)
		if parseErr != nil {
			level = zapcore.InfoLevel
		}
		otelCore := telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, loggerProvider, level)
		log = telemetry.NewBridgedLogger(log.Core(), otelCore, zap.AddCaller())
		log.Info("OTEL log export enabled")
	}

	// Initialize database with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", zap.Error(err))
		}
	}()
	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	lineItemRepo := persistence.NewGormSaleLineItemRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	walletRepo := persistence.NewGormWalletRepository(db.DB)
	settingsRepo := persistence.NewGormPaymentSettingsRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Idempotency store: Redis when reachable, in-memory otherwise
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Proof-of-transfer storage: S3-compatible object store when configured
	var proofStorage paymentapp.ObjectStorageService
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		proofStorage = s3Storage
		log.Info("Object storage enabled",
			zap.String("endpoint", cfg.Storage.Endpoint),
			zap.String("bucket", cfg.Storage.Bucket),
		)
	} else {
		proofStorage = storage.NewStubObjectStorage()
		log.Warn("Object storage disabled, payment proofs will not be persisted")
	}

	// Initialize application services
	commissionService := settlementapp.NewCommissionService(lineItemRepo, paymentRepo, walletRepo, settingsRepo)
	settingsService := settlementapp.NewSettingsService(settingsRepo, log)
	walletService := walletapp.NewWalletService(walletRepo, lineItemRepo)
	withdrawalService := walletapp.NewWithdrawalService(
		txScope,
		walletapp.NewStaticSettings(cfg.Settlement.MinimumWithdrawalAmount),
		log,
	)
	paymentService := paymentapp.NewPaymentService(
		paymentRepo,
		walletRepo,
		idempotencyStore,
		shared.IdempotencyConfig{
			TTL:     cfg.Settlement.IdempotencyTTL,
			Enabled: cfg.Settlement.IdempotencyEnabled,
		},
		proofStorage,
		log,
	)

	// In-process event bus: lifecycle events from the aggregates feed the
	// activity log after each commit
	eventBus := event.NewBus(log)
	eventBus.Subscribe(event.NewActivityLog(log))
	walletService.SetEventPublisher(eventBus)
	withdrawalService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)

	// Inject business metrics into services that report them
	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("titipin.settlement"), log)
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			paymentService.SetBusinessMetrics(businessMetrics)
			withdrawalService.SetBusinessMetrics(businessMetrics)
		}
	}

	// JWT authentication with Redis-backed token revocation when available
	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := newTokenBlacklist(ctx, cfg.Redis, log)

	// Initialize HTTP handlers
	settlementHandler := handler.NewSettlementHandler(commissionService)
	walletHandler := handler.NewWalletHandler(walletService)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	systemHandler := handler.NewSystemHandler(db, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Report validation errors with json field names
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Server spans (only when telemetry is enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if tracerProvider.IsEnabled() {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning and authentication)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	}))

	// Settlement domain: commission aggregation and payment reconciliation
	settlementRoutes := router.NewDomainGroup("settlements", "/settlements")
	settlementRoutes.GET("/commissions", middleware.RequireAdmin(), settlementHandler.GetCommissions)
	settlementRoutes.GET("", middleware.RequireAdmin(), settlementHandler.GetSettlements)
	settlementRoutes.GET("/ready-to-pay", middleware.RequireAdmin(), settlementHandler.GetReadyToPay)
	settlementRoutes.GET("/suppliers/:supplierId/status",
		middleware.RequireSupplierAccess("supplierId"), settlementHandler.GetSupplierStatus)

	// Wallet domain: supplier balances
	walletRoutes := router.NewDomainGroup("wallets", "/wallets")
	walletRoutes.GET("/:supplierId", middleware.RequireSupplierAccess("supplierId"), walletHandler.GetWallet)
	walletRoutes.POST("/:supplierId/recompute", middleware.RequireAdmin(), walletHandler.RecomputeTotalEarned)

	// Withdrawal domain: request lifecycle. Suppliers create and view their
	// own requests; review transitions are admin-only.
	withdrawalRoutes := router.NewDomainGroup("withdrawals", "/withdrawals")
	withdrawalRoutes.POST("", withdrawalHandler.Create)
	withdrawalRoutes.GET("", withdrawalHandler.List)
	withdrawalRoutes.GET("/:id", withdrawalHandler.Get)
	withdrawalRoutes.POST("/:id/approve", middleware.RequireAdmin(), withdrawalHandler.Approve)
	withdrawalRoutes.POST("/:id/complete", middleware.RequireAdmin(), withdrawalHandler.Complete)
	withdrawalRoutes.POST("/:id/reject", middleware.RequireAdmin(), withdrawalHandler.Reject)

	// Payment domain: payout records (admin-only, append-only)
	paymentRoutes := router.NewDomainGroup("payments", "/payments")
	paymentRoutes.Use(middleware.RequireAdmin())
	paymentRoutes.POST("", paymentHandler.Record)
	paymentRoutes.GET("", paymentHandler.List)
	paymentRoutes.GET("/:id", paymentHandler.Get)

	// Settings domain: payout policy
	settingsRoutes := router.NewDomainGroup("settings", "/settings")
	settingsRoutes.Use(middleware.RequireAdmin())
	settingsRoutes.GET("/payments", settingsHandler.GetPaymentSettings)
	settingsRoutes.PUT("/payments", settingsHandler.UpdatePaymentSettings)

	r.Register(settlementRoutes).
		Register(walletRoutes).
		Register(withdrawalRoutes).
		Register(paymentRoutes).
		Register(settingsRoutes)

	r.Setup()

	// Create HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newTokenBlacklist returns a Redis-backed blacklist when Redis is
// reachable. The in-memory fallback keeps logout working on a single
// instance but does not survive restarts.
func newTokenBlacklist(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) auth.TokenBlacklist {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		return auth.NewInMemoryTokenBlacklist()
	}

	log.Info("Using Redis token blacklist")
	return auth.NewRedisTokenBlacklistWithClient(client)
}

func shutdownTelemetry(name string, shutdown func(context.Context) error, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}
