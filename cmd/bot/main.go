package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"moviesearch-bot/internal/bot"
	"moviesearch-bot/internal/config"
	"moviesearch-bot/internal/database"
	"moviesearch-bot/internal/dialog"
	"moviesearch-bot/internal/handler"
	"moviesearch-bot/internal/kinopoisk"
	"moviesearch-bot/internal/limiter"
	"moviesearch-bot/internal/repository"
	"moviesearch-bot/internal/service"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal; the rate limiter fails open without it)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without rate limiting", "error", err)
	}

	// Initialize Kinopoisk client
	catalog := kinopoisk.NewClient(cfg.Kinopoisk.APIKey, cfg.Kinopoisk.BaseURL)

	// Initialize layers
	users := repository.NewUserRepository(db)
	movies := repository.NewMovieRepository(db)
	searches := repository.NewSearchRepository(db)
	lim := limiter.New(rdb, cfg.RateLimit.MaxSearches, cfg.RateLimit.WindowSec)
	searchSvc := service.NewSearchService(users, movies, searches, catalog, lim)
	historySvc := service.NewHistoryService(users, searches)
	wizards := dialog.NewManager()

	// Connect to Telegram
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		slog.Error("failed to connect to Telegram", "error", err)
		os.Exit(1)
	}
	slog.Info("authorized on Telegram", "bot", api.Self.UserName)

	dispatcher := bot.NewDispatcher(api, wizards, searchSvc, historySvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telegram.WebhookURL != "" {
		wh, err := tgbotapi.NewWebhook(cfg.Telegram.WebhookURL)
		if err != nil {
			slog.Error("invalid webhook URL", "error", err)
			os.Exit(1)
		}
		if _, err := api.Request(wh); err != nil {
			slog.Error("failed to register webhook", "error", err)
			os.Exit(1)
		}
		slog.Info("webhook registered", "url", cfg.Telegram.WebhookURL)
	} else {
		// Make sure polling is not blocked by a stale webhook
		if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			slog.Warn("failed to delete webhook", "error", err)
		}
		go dispatcher.Run(ctx)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MovieSearch Bot",
		ServerHeader: "MovieSearch-Bot",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Routes
	v1 := app.Group("/api/v1")
	v1.Get("/health", handler.Health)
	if cfg.Telegram.WebhookURL != "" {
		wh := handler.NewWebhookHandler(dispatcher)
		app.Post("/telegram/webhook", wh.Handle)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down moviesearch bot...")
		cancel()
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting moviesearch bot", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
