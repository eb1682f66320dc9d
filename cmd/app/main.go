package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"telegram-content-gate/internal/config"
	pg "telegram-content-gate/internal/infra/db/postgres"
	"telegram-content-gate/internal/infra/logging"
	"telegram-content-gate/internal/infra/metrics"
	red "telegram-content-gate/internal/infra/redis"
	tele "telegram-content-gate/internal/infra/telegram"
	"telegram-content-gate/internal/infra/web"
	"telegram-content-gate/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file (optional)")
	flag.Parse()

	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	// ---- Redis (optional, powers the update dedup guard) ----
	var dedup *red.UpdateDedup
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		dedup = red.NewUpdateDedup(redisClient, 10*time.Minute)
	}

	// ---- Repositories ----
	contentRepo := pg.NewContentRepo(pool)
	subscriberRepo := pg.NewSubscriberRepo(pool)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram connect failed")
	}

	// ---- Use cases & router ----
	contentUC := usecase.NewContentUseCase(contentRepo, logger)
	gate := usecase.NewMembershipGate(botAdapter, subscriberRepo, logger)
	router := tele.NewRouter(&cfg.Bot, botAdapter, contentUC, gate, logger)

	// ---- Ingestion ----
	switch strings.ToLower(cfg.Bot.Mode) {
	case "polling":
		if err := botAdapter.DeleteWebhook(ctx); err != nil {
			logger.Warn().Err(err).Msg("webhook cleanup before polling failed")
		}
		go func() {
			if err := botAdapter.StartPolling(ctx, cfg.Bot.Workers, router.HandleUpdate); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("polling stopped")
			}
		}()
	default:
		if cfg.Bot.WebhookURL == "" {
			logger.Fatal().Msg("bot.webhook_url is required in webhook mode")
		}
		if err := botAdapter.SetWebhook(ctx, cfg.Bot.WebhookURL); err != nil {
			logger.Fatal().Err(err).Msg("set webhook failed")
		}
	}

	srv := web.NewServer(cfg.Server.Port, router, dedup, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	logger.Info().Str("mode", cfg.Bot.Mode).Msg("bot is up")
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	logger.Info().Msg("bye")
}
