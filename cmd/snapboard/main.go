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

	_ "github.com/joho/godotenv/autoload"

	"github.com/JeongUpGi/SnapBoard/internal/auth"
	"github.com/JeongUpGi/SnapBoard/internal/config"
	"github.com/JeongUpGi/SnapBoard/internal/database"
	"github.com/JeongUpGi/SnapBoard/internal/email"
	"github.com/JeongUpGi/SnapBoard/internal/gateway"
	"github.com/JeongUpGi/SnapBoard/internal/logger"
	"github.com/JeongUpGi/SnapBoard/internal/pubsub"
	"github.com/JeongUpGi/SnapBoard/internal/server"
	"github.com/JeongUpGi/SnapBoard/internal/session"
	"github.com/JeongUpGi/SnapBoard/internal/storage"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	slog.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
	done <- true
}

func main() {
	logger.SetDefault(logger.New())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	store, err := storage.New(ctx)
	if err != nil {
		// The feed works without images; uploads answer 503 instead.
		slog.Warn("Storage unavailable, image uploads disabled", "error", err)
		store = nil
	}

	notifier := pubsub.NewRedisNotifier(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessionStore := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := session.NewManager(sessionStore)

	sender := email.NewSender(email.NewConfig())
	accounts := auth.NewService(db, sessionStore, sender, cfg.PublicURL)
	gw := gateway.NewService(db, notifier)

	apiServer := server.New(cfg, db, gw, accounts, sessions, store).HTTPServer()

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, done)

	slog.Info("SnapBoard server listening", "port", cfg.Port)
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("HTTP server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Graceful shutdown complete")
}
