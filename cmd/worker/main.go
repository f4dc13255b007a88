package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/care-portal-api/internal/config"
	"github.com/jwalitptl/care-portal-api/internal/email"
	"github.com/jwalitptl/care-portal-api/internal/handler/health"
	"github.com/jwalitptl/care-portal-api/internal/handler/prometheus"
	"github.com/jwalitptl/care-portal-api/internal/repository/postgres"
	"github.com/jwalitptl/care-portal-api/internal/service/notification"
	internalWorker "github.com/jwalitptl/care-portal-api/internal/worker"
	"github.com/jwalitptl/care-portal-api/pkg/logger"
	"github.com/jwalitptl/care-portal-api/pkg/messaging/redis"
	"github.com/jwalitptl/care-portal-api/pkg/metrics"
	"github.com/jwalitptl/care-portal-api/pkg/worker"
)

const healthAddr = ":8081"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Console:    cfg.Log.Console,
	}).WithFields(map[string]interface{}{"component": "worker"})
	log.Logger = *appLogger.Zerolog()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "Failed to connect to database")
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
		appLogger.Fatal(err, "Failed to connect to Redis")
	}

	// Closing the broker closes redisClient
	broker := redis.NewRedisBroker(redisClient, appLogger.Zerolog())
	defer broker.Close()

	metricsHandler := prometheus.New()
	workerMetrics := metrics.NewMetrics("care_portal_worker", metricsHandler.Registry())

	outboxRepo := postgres.NewOutboxRepository(db)
	processor, err := worker.NewOutboxProcessor(
		outboxRepo,
		postgres.NewTransactor(db),
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			Channel:       cfg.Outbox.Channel,
		},
		appLogger,
		workerMetrics,
	)
	if err != nil {
		appLogger.Fatal(err, "Invalid outbox configuration")
	}
	cleanup := internalWorker.NewOutboxCleanupWorker(outboxRepo, cfg.Outbox.RetentionPeriod, time.Hour, appLogger)

	var mailer email.Service
	if cfg.SMTP.Enabled {
		mailer = email.NewSMTPService(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		mailer = email.NewLogService(appLogger)
	}
	notifier := notification.NewService(mailer, broker, appLogger)

	srv := healthServer(health.NewHandler(db, redisClient), metricsHandler)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(err, "Health check server failed")
			stop()
		}
	}()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		cleanup.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := notifier.Run(ctx, cfg.Outbox.Channel); err != nil {
			appLogger.Error(err, "Notification subscriber stopped")
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down worker")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "Health server forced to shutdown")
	}
	wg.Wait()
}

func healthServer(h *health.Handler, m *prometheus.Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	h.RegisterRoutes(engine)
	m.RegisterRoutes(engine)
	return &http.Server{Addr: healthAddr, Handler: engine}
}
