// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/event-reg-form/internal/config"
	"github.com/Shivanand-hulikatti/event-reg-form/internal/handler"
	"github.com/Shivanand-hulikatti/event-reg-form/internal/repository"
	"github.com/Shivanand-hulikatti/event-reg-form/internal/service"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "event-reg-form: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ── 1. Configuration and logging ──────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// ── 2. Backend API client ────────────────────────────────────────────
	client, err := repository.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout})
	if err != nil {
		return err
	}
	eventRepo := repository.NewEventRepository(client)
	regRepo := repository.NewRegistrationRepository(client)

	// ── 3. Submit rate limit, shared through redis when configured ────────
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		logger.Info("connected to redis", "addr", cfg.RedisAddr)
	}
	submitLimit, err := handler.RateLimit(cfg.SubmitRateLimit, rdb, cfg.TrustProxy)
	if err != nil {
		return err
	}

	// ── 4. Wire up layers ────────────────────────────────────────────────
	resolver := service.NewResolver(eventRepo, logger)
	regHandler := handler.NewRegistrationHandler(resolver, regRepo, handler.Options{
		EventPageBaseURL: cfg.EventPageBaseURL,
		Logger:           logger,
	})
	router := handler.NewRouter(regHandler, handler.RouterOptions{
		SubmitLimit: submitLimit,
		TrustProxy:  cfg.TrustProxy,
		Logger:      logger,
	})

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
