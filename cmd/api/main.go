package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merocrm/mero-crm/internal/app"
	"github.com/merocrm/mero-crm/internal/config"
	"github.com/merocrm/mero-crm/internal/infrastructure/database"
	"github.com/merocrm/mero-crm/internal/logging"
)

func main() {
	cfg := config.Load()

	logger := logging.New(&cfg.App, &cfg.Log)
	slog.SetDefault(logger)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if err := database.SeedDefaultData(db, &cfg.Admin); err != nil {
		logger.Warn("failed to seed default data", "error", err)
	}

	api := app.New(cfg, db, logger, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go api.RunSweeper(ctx, 15*time.Minute)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           api.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", "name", cfg.App.Name, "port", cfg.App.Port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	api.Close()
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
