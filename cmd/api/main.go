package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/passkeep/passkeep-go/internal/config"
	"github.com/passkeep/passkeep-go/internal/handler"
	"github.com/passkeep/passkeep-go/internal/repository"
	"github.com/passkeep/passkeep-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.StoreDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("opening durable store failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.EnsureSchema(context.Background(), db); err != nil {
		slog.Error("preparing durable store failed", "error", err)
		os.Exit(1)
	}

	sessions := repository.NewSessionStore(cfg.SessionTTL)
	defer sessions.Close()

	router := handler.NewRouter(handler.RouterConfig{
		Tiers:          repository.NewTiers(repository.NewSQLStore(db), sessions),
		Backend:        service.NewMockBackend(cfg.MockDelay, cfg.MockFailureRate),
		SessionSecret:  cfg.SessionSecret,
		SessionTTL:     cfg.SessionTTL,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
