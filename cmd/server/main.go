package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	adminapp "github.com/oscarpiresjunior/pedidos-print-foods/internal/application/admin"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/application/notification"
	orderapp "github.com/oscarpiresjunior/pedidos-print-foods/internal/application/order"
	settingsapp "github.com/oscarpiresjunior/pedidos-print-foods/internal/application/settings"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/auth"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/cache"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/config"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/event"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/logger"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/migration"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/notify"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/persistence"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/postal"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/settingsstore"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/storage"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/telemetry"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/handler"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/middleware"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/router"
	"github.com/oscarpiresjunior/pedidos-print-foods/migrations"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/oscarpiresjunior/pedidos-print-foods/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	version = "1.0.0"

	// per client, on top of the global limit
	orderSubmitLimit  = 10
	orderSubmitWindow = time.Minute

	gormSlowThreshold = 200 * time.Millisecond
)

//	@title			Print Foods Storefront API
//	@version		1.0
//	@description	Pedidos de etiquetas comestíveis e painel administrativo

//	@contact.name	Print Foods

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	// Telemetry: traces, metrics, logs and profiles
	tel, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:        cfg.Telemetry.ServiceName,
		CollectorEndpoint:  cfg.Telemetry.CollectorEndpoint,
		Insecure:           cfg.Telemetry.Insecure,
		TracesEnabled:      cfg.Telemetry.Enabled,
		SamplingRatio:      cfg.Telemetry.SamplingRatio,
		MetricsEnabled:     cfg.Telemetry.MetricsEnabled,
		ExportInterval:     cfg.Telemetry.MetricsExportInterval,
		LogsEnabled:        cfg.Telemetry.LogsEnabled,
		ProfilingEnabled:   cfg.Telemetry.ProfilingEnabled,
		ProfilingServerURL: cfg.Telemetry.ProfilingServerURL,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = tel.Logger(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	log.Info("Starting Print Foods storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("settings_backend", cfg.Settings.Backend),
		zap.String("notification_policy", cfg.Notification.Policy),
	)

	orderMetrics, err := telemetry.NewOrderMetrics(tel.Meter("storefront.orders"))
	if err != nil {
		log.Fatal("Failed to create order metrics", zap.Error(err))
	}

	// Database: order archive and, optionally, the settings store
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), gormSlowThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.DBTracingEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, db.SystemName()); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully", zap.String("driver", db.Driver))

	if cfg.Database.AutoMigrate {
		if err := runMigrations(&cfg.Database, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Redis: sessions, CEP cache and optionally the settings store
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	}

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	var (
		revocations  auth.RevocationList
		addressCache cache.AddressCache
	)
	if redisClient != nil {
		revocations = auth.NewRedisRevocationList(redisClient)
		addressCache = cache.NewRedisAddressCache(redisClient)
	} else {
		revocations = auth.NewInMemoryRevocationList()
		addressCache = cache.NewInMemoryAddressCache()
	}

	// Settings store and branding asset storage
	settingsDeps := settingsstore.Deps{DB: db.DB, Logger: log}
	if redisClient != nil {
		settingsDeps.Redis = redisClient
	}
	settingsRepo, err := settingsstore.New(cfg.Settings, settingsDeps)
	if err != nil {
		log.Fatal("Failed to create settings store", zap.Error(err))
	}

	var assets settingsapp.AssetStorage = storage.NewInlineAssetStorage()
	if cfg.Storage.Enabled {
		s3Assets, err := storage.NewS3AssetStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create asset storage", zap.Error(err))
		}
		if err := s3Assets.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare asset bucket", zap.Error(err), zap.String("bucket", s3Assets.Bucket()))
		}
		assets = s3Assets
	}

	settingsService := settingsapp.NewService(
		settingsRepo,
		assets,
		settingsstore.NewJSONBinClient(cfg.Settings.JSONBinBaseURL, cfg.Settings.JSONBinTimeout),
		settingsapp.Config{
			LoadTimeout:  cfg.Settings.LoadTimeout,
			MaxAssetSize: cfg.Storage.MaxAssetSize,
			JSONBin: settingsstore.JSONBinCredentials{
				BinID:  cfg.Settings.JSONBinBinID,
				APIKey: cfg.Settings.JSONBinAPIKey,
			},
		},
		log.Named("settings"),
	)

	// Event bus: archive, metrics, logs and the optional broker
	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDelivery())
	for _, h := range []shared.EventHandler{
		event.NewOrderLogHandler(log),
		event.NewOrderMetricsHandler(orderMetrics),
		event.NewOrderArchiveHandler(persistence.NewGormOrderArchive(db.DB)),
	} {
		eventBus.Subscribe(h, h.EventTypes()...)
	}

	if cfg.Messaging.Enabled {
		publisher, err := event.NewAMQPPublisher(event.AMQPConfig{
			URL:        cfg.Messaging.AMQPURL,
			Exchange:   cfg.Messaging.Exchange,
			RoutingKey: cfg.Messaging.RoutingKey,
		}, log)
		if err != nil {
			log.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error("Error closing message broker connection", zap.Error(err))
			}
		}()
		eventBus.Subscribe(publisher, publisher.EventTypes()...)
		log.Info("Order events published to broker", zap.String("exchange", cfg.Messaging.Exchange))
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	policy, err := storefront.ParsePolicy(cfg.Notification.Policy)
	if err != nil {
		log.Fatal("Invalid notification policy", zap.Error(err))
	}

	dispatcher := notification.NewDispatcher(
		notify.NewCallMeBotClient(cfg.Notification.CallMeBotBaseURL, cfg.Notification.Timeout),
		notify.NewEmailJSClient(cfg.Notification.EmailJSBaseURL, cfg.Notification.EmailJSAccessToken, cfg.Notification.Timeout),
		orderMetrics,
		log.Named("notification"),
	)

	addressLookup := postal.NewCachedLookup(
		postal.NewViaCEPClient(cfg.Postal.ViaCEPBaseURL, cfg.Postal.Timeout, log),
		addressCache,
		cfg.Postal.CacheTTL,
		orderMetrics,
		log,
	)

	orderService := orderapp.NewService(
		settingsService,
		addressLookup,
		dispatcher,
		idempotencyStore,
		eventBus,
		orderMetrics,
		orderapp.Config{
			Policy:          policy,
			IdempotencyTTL:  cfg.Notification.IdempotencyTTL,
			DispatchTimeout: 2 * cfg.Notification.Timeout,
		},
		log.Named("order"),
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := adminapp.NewAuthService(cfg.Admin, jwtService, revocations, log.Named("admin"))

	// HTTP handlers
	storefrontHandler := handler.NewStorefrontHandler(orderService, settingsService)
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(settingsService, dispatcher)

	healthChecks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, healthChecks)

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

	// Middleware order matters: tracing wraps everything, the request id is
	// needed by the logger, recovery sits under the logger.
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		Meter:   tel.Meter("http.server"),
		Enabled: tel.MetricsEnabled(),
	}))
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:          tel.ProfilingEnabled(),
		SkipPathPrefixes: middleware.DefaultProfilingConfig().SkipPathPrefixes,
	}))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	loginLimit := passThrough
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		loginLimit = middleware.AuthRateLimit(authLimiter)
	}

	submitLimiter := middleware.NewRateLimiter(orderSubmitLimit, orderSubmitWindow)
	defer submitLimiter.Stop()
	submitLimit := middleware.RateLimitByKey(submitLimiter, func(c *gin.Context) string {
		return "orders:" + c.ClientIP()
	})

	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:  jwtService,
		Revocations: revocations,
		Logger:      log,
	})

	// Routes
	r := router.NewRouter(engine)
	r.Register(router.StorefrontGroup(storefrontHandler, submitLimit)).
		Register(router.AdminGroup(authHandler, adminHandler, loginLimit,
			jwtMiddleware, middleware.TracingAttributeInjector())).
		Register(router.SystemGroup(systemHandler))
	r.Setup()

	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	for _, route := range r.Routes() {
		log.Debug("Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

func passThrough(c *gin.Context) {
	c.Next()
}

// runMigrations applies the embedded migrations on a dedicated connection;
// closing the migrator closes the connection it was given.
func runMigrations(cfg *config.DatabaseConfig, log *zap.Logger) error {
	driverName := "postgres"
	if cfg.Driver == "sqlite" {
		driverName = "sqlite3"
	}
	conn, err := sql.Open(driverName, cfg.DSN())
	if err != nil {
		return err
	}
	defer conn.Close()

	m, err := migration.New(conn, cfg.Driver, migrations.FS, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Up()
}
