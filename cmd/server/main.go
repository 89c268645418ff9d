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

	"github.com/ikkim/shopadmin-backend/config"
	"github.com/ikkim/shopadmin-backend/internal/app"
	"github.com/ikkim/shopadmin-backend/internal/db"
	"github.com/ikkim/shopadmin-backend/internal/scheduler"
	"github.com/ikkim/shopadmin-backend/internal/storage"
	ws "github.com/ikkim/shopadmin-backend/internal/websocket"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/ikkim/shopadmin-backend/pkg/notify"
	ratelimit "github.com/ikkim/shopadmin-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting shop admin API", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	database, err := db.Open(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if _, err := db.EnsureSuperAdmin(database, cfg.Admin); err != nil {
		logger.Fatal("Failed to bootstrap super admin", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Admin live feed
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Rate limiter for public forms
	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if cfg.Redis.Enabled() {
		client, err := ratelimit.Open(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, rate limiting disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer func() {
				if err := ratelimit.Close(client); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
			limiter = ratelimit.NewFixedWindowLimiter(client, "forms", cfg.RateLimit.Requests, cfg.RateLimit.Window)
		}
	} else {
		logger.Info("REDIS_HOST not set, rate limiting disabled")
	}

	application := app.New(app.Dependencies{
		DB:      database,
		Config:  cfg,
		Mailer:  notify.NewSMTPMailer(cfg.SMTP),
		SMS:     notify.NewHTTPSMSSender(cfg.SMS),
		Hub:     hub,
		Storage: storage.NewS3Storage(ctx, cfg.S3),
		Limiter: limiter,
	})

	// Daily low stock digest
	lowStock := scheduler.NewLowStockScheduler(cfg.LowStock.Cron, application.ProductService)
	if err := lowStock.Start(); err != nil {
		logger.Warn("Low stock scheduler not started", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer lowStock.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           application.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", err)
	}

	logger.Info("Server stopped successfully")
}
