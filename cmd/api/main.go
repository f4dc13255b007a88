package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/care-portal-api/internal/access"
	"github.com/jwalitptl/care-portal-api/internal/cache"
	"github.com/jwalitptl/care-portal-api/internal/config"
	applicationHandler "github.com/jwalitptl/care-portal-api/internal/handler/application"
	authHandler "github.com/jwalitptl/care-portal-api/internal/handler/auth"
	cartHandler "github.com/jwalitptl/care-portal-api/internal/handler/cart"
	"github.com/jwalitptl/care-portal-api/internal/handler/health"
	profileHandler "github.com/jwalitptl/care-portal-api/internal/handler/profile"
	"github.com/jwalitptl/care-portal-api/internal/handler/prometheus"
	providerHandler "github.com/jwalitptl/care-portal-api/internal/handler/provider"
	sessionHandler "github.com/jwalitptl/care-portal-api/internal/handler/session"
	"github.com/jwalitptl/care-portal-api/internal/middleware"
	"github.com/jwalitptl/care-portal-api/internal/repository/postgres"
	"github.com/jwalitptl/care-portal-api/internal/router"
	applicationService "github.com/jwalitptl/care-portal-api/internal/service/application"
	auditService "github.com/jwalitptl/care-portal-api/internal/service/audit"
	authService "github.com/jwalitptl/care-portal-api/internal/service/auth"
	cartService "github.com/jwalitptl/care-portal-api/internal/service/cart"
	eventService "github.com/jwalitptl/care-portal-api/internal/service/event"
	profileService "github.com/jwalitptl/care-portal-api/internal/service/profile"
	providerService "github.com/jwalitptl/care-portal-api/internal/service/provider"
	"github.com/jwalitptl/care-portal-api/pkg/auth"
	"github.com/jwalitptl/care-portal-api/pkg/logger"
	"github.com/jwalitptl/care-portal-api/pkg/messaging/redis"
	"github.com/jwalitptl/care-portal-api/pkg/metrics"
	"github.com/jwalitptl/care-portal-api/pkg/security"
)

const bcryptCost = 12

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Console:    cfg.Log.Console,
	})
	log.Logger = *appLogger.Zerolog()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.NewClient(ctx, redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		appLogger.Fatal(err, "failed to connect to Redis")
	}
	defer redisClient.Close()

	metricsHandler := prometheus.New()
	appMetrics := metrics.NewMetrics("care_portal", metricsHandler.Registry())

	// Repositories
	tx := postgres.NewTransactor(db)
	profileRepo := postgres.NewProfileRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	providerRepo := postgres.NewProviderProfileRepository(db)
	medicineRepo := postgres.NewMedicineRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	profileCache := cache.NewProfileCache(cfg.Cache.ProfileTTL, cfg.Cache.CleanupInterval)
	auditor := auditService.NewService(auditRepo)
	events := eventService.NewEventService(outboxRepo)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry())
	revocations := auth.NewRedisRevocationStore(redisClient)

	authSvc := authService.NewService(profileRepo, jwtSvc, revocations, security.NewBcryptHasher(bcryptCost),
		profileCache, auditor, appLogger)
	applicationSvc := applicationService.NewService(applicationService.Deps{
		Applications: applicationRepo,
		Providers:    providerRepo,
		Profiles:     profileRepo,
		Tx:           tx,
		Auditor:      auditor,
		Events:       events,
		Cache:        profileCache,
		Metrics:      appMetrics,
		Logger:       appLogger,
	})
	profileSvc := profileService.NewService(profileRepo, tx, auditor, profileCache)
	providerSvc := providerService.NewService(providerRepo, tx, auditor, events)
	cartSvc := cartService.NewService(medicineRepo, appMetrics)

	gate := access.NewGate(cfg.Gate.LoginRoute)
	authMiddleware := middleware.NewAuthMiddleware(authSvc, gate, appMetrics)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	if len(cfg.CORS.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.CORS.AllowedMethods
	}
	if len(cfg.CORS.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.CORS.AllowedHeaders
	}

	r := router.NewRouter(authMiddleware, router.Handlers{
		Auth:        authHandler.NewHandler(authSvc),
		Application: applicationHandler.NewHandler(applicationSvc),
		Provider:    providerHandler.NewHandler(providerSvc),
		Profile:     profileHandler.NewHandler(profileSvc),
		Cart:        cartHandler.NewHandler(cartSvc),
		Session:     sessionHandler.NewHandler(gate),
		Health:      health.NewHandler(db, redisClient),
		Metrics:     metricsHandler,
	}, appMetrics, router.RouterConfig{
		Mode:        cfg.Server.Mode,
		RateEnabled: cfg.RateLimit.Enabled,
		RateLimit:   rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:   cfg.RateLimit.Burst,
		CORSConfig:  corsConfig,
	})
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Starting API server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "server forced to shutdown")
	}
	appLogger.Info("Server exited")
}
