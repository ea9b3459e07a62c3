package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillforge/learn-engine/internal/api"
	"github.com/skillforge/learn-engine/internal/catalog"
	"github.com/skillforge/learn-engine/internal/config"
	"github.com/skillforge/learn-engine/internal/email"
	"github.com/skillforge/learn-engine/internal/generator"
	"github.com/skillforge/learn-engine/internal/learning"
	"github.com/skillforge/learn-engine/internal/llm"
	"github.com/skillforge/learn-engine/internal/ratelimit"
	"github.com/skillforge/learn-engine/internal/storage"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting learn-engine",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"demo_mode", !cfg.StoreConfigured(),
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Initialize storage; a missing DSN puts the service in demo mode
	var repo storage.Repository
	if cfg.StoreConfigured() {
		slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
		if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		pg, err := storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
			DSN:          cfg.Database.DSN,
			MaxOpenConns: int32(cfg.Database.MaxOpenConns),
			MaxIdleConns: int32(cfg.Database.MaxIdleConns),
		})
		if err != nil {
			slog.Error("failed to create database repository", "error", err)
			os.Exit(1)
		}
		repo = pg
		slog.Info("database connected successfully")
	} else {
		slog.Warn("DATABASE_DSN not set, running in demo mode: sample content only, writes rejected")
	}

	// Create context with cancellation for background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Rate limit counters live in Redis when available, otherwise in memory
	var store ratelimit.Store
	var redisStore *ratelimit.RedisStore
	if cfg.Redis.Address != "" {
		redisStore, err = ratelimit.NewRedisStore(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		store = redisStore
		slog.Info("redis connected for rate limiting", "address", cfg.Redis.Address)
	} else {
		memStore := ratelimit.NewMemoryStore()
		memStore.StartJanitor(ctx, time.Minute)
		store = memStore
	}

	limiter := ratelimit.NewLimiter(store, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	generateLimiter := ratelimit.NewLimiter(store, cfg.RateLimit.GenerateRequests, cfg.RateLimit.GenerateWindow)

	// Model client is optional; without it generation serves the catalog
	var llmClient llm.Client
	if cfg.GenerationConfigured() {
		llmClient, err = llm.NewClient(llm.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
			Timeout:     cfg.OpenAI.Timeout,
		})
		if err != nil {
			slog.Error("failed to create model client", "error", err)
			os.Exit(1)
		}
		slog.Info("challenge generation enabled", "model", cfg.OpenAI.Model)
	} else {
		slog.Warn("OPENAI_API_KEY not set, challenge generation will serve the fallback catalog")
	}

	// Load curated content, optionally extended from an overlay directory
	cat := catalog.New()
	if cfg.Catalog.Dir != "" {
		if err := cat.LoadFromDir(cfg.Catalog.Dir); err != nil {
			slog.Warn("failed to load catalog overlays", "dir", cfg.Catalog.Dir, "error", err)
		}
	}

	// Email goes through SendGrid when configured, the log otherwise
	var sender email.Sender
	if cfg.Email.SendGridKey != "" {
		sender = email.NewSendGridSender(cfg.Email.SendGridKey, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.AdminEmail)
		slog.Info("email delivery enabled", "admin", cfg.Email.AdminEmail)
	} else {
		sender = email.NewConsoleSender(logger)
		slog.Warn("SENDGRID_API_KEY not set, emails will be logged to the console")
	}

	gen := generator.New(llmClient, cat, logger, nil)
	service := learning.New(repo, gen, cat, sender, logger)

	// Setup HTTP server
	server := api.NewServer(service, cfg.Auth.JWTSecret, limiter, generateLimiter)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if repo != nil {
		if err := repo.Close(); err != nil {
			slog.Error("repository close error", "error", err)
		}
	}

	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	slog.Info("learn-engine stopped")
}
