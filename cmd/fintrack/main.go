package main

import (
	"context"
	"errors"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/bot"
	"fintrack/internal/cli"
	"fintrack/internal/dialog"
	"fintrack/internal/events"
	applog "fintrack/internal/log"
	"fintrack/internal/ratelimit"
	"fintrack/internal/registry"
	"fintrack/internal/report"
	"fintrack/internal/session"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting fintrack")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Event publishing is optional; without an AMQP URL the bot runs alone.
	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		var err error
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize events client", "error", err)
			os.Exit(1)
		}
		defer eventsClient.Close()
		logger.Info("Event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Event publishing disabled - no AMQP_URL provided")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Error("Failed to initialize Telegram client", "error", err)
		os.Exit(1)
	}

	sessions := session.NewStore(cfg.SessionCap, cfg.SessionTTL)
	categories := registry.New(repo)

	var publisher dialog.Publisher
	if eventsClient != nil {
		publisher = eventsClient
	}
	engine := dialog.New(sessions, repo, categories, publisher)

	limiter := ratelimit.NewLimiter(ratelimit.Config{CommandsPerMinute: cfg.RatePerMinute})
	defer limiter.Stop()

	renderer := report.NewRenderer(cfg.SegmentMaxLength)
	appLogger := applog.New(applog.DefaultConfig())

	handler := bot.NewHandler(api, engine, repo, categories, renderer, limiter, eventsClient, nil, appLogger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return handler.Run(gctx)
	})

	// Janitor: evict idle dialogue sessions past their TTL.
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if n := sessions.EvictExpired(); n > 0 {
					logger.Info("Evicted idle sessions", "count", n)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot stopped with error", "error", err)
		return
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Stopped gracefully")
}
