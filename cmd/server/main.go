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

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/api"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/config"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/logger"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/mailer"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/worker"
)

func main() {
	// 1. Config
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Logger
	appLogger := logger.New(cfg)
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger.Info("🚀 [Go] Starting blog API...",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DBDriver,
	)

	// 3. Connect to Database
	store, err := database.Open(cfg, appLogger)
	if err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 4. Redis: post cache and rate limiter, both optional
	deps := api.Deps{Store: store}

	redisClient, err := database.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis", "error", err)
		appLogger.Info("💡 Posts are served without cache and rate limiting is disabled")
		deps.Cache = database.NoOpPostCache{}
		deps.RateLimiter = middleware.NewNoOpRateLimiter(appLogger)
	} else {
		defer redisClient.Close()
		deps.Cache = redisClient
		deps.RateLimiter = middleware.NewRateLimiter(
			redisClient.GetClient(),
			cfg.RateLimitRequests,
			time.Duration(cfg.RateLimitWindow)*time.Second,
			appLogger,
		)
	}

	// 5. Mailer
	if cfg.ResendAPIKey != "" {
		deps.Mailer = mailer.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom)
	} else {
		deps.Mailer = mailer.NewNoOpSender(appLogger)
	}

	// 6. Background workers
	pool := worker.NewPool(appLogger)
	deps.Runner = pool

	// 7. Services, handlers, router
	app, err := api.NewApp(cfg, appLogger, deps)
	if err != nil {
		appLogger.Error("❌ Failed to build application", "error", err)
		os.Exit(1)
	}

	pool.Every("purge-expired-refresh-tokens", time.Duration(cfg.TokenCleanupInterval)*time.Second, func(ctx context.Context) {
		_, _ = app.Auth.PurgeExpired(ctx)
	})

	// 8. HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.ApiServicePort),
		Handler:      app.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 9. Graceful Shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		appLogger.Info("🌍 [Go] HTTP Server running...", "port", cfg.ApiServicePort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("❌ HTTP Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	appLogger.Info("🛑 [Go] Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("❌ Forced shutdown", "error", err)
	}

	pool.Shutdown(10 * time.Second)

	appLogger.Info("👋 [Go] Server stopped gracefully")
}
