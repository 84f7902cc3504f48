package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"binary-options-bot/config"
	"binary-options-bot/internal/bot"
	"binary-options-bot/internal/database"
	"binary-options-bot/internal/events"
	"binary-options-bot/internal/feed"
	"binary-options-bot/internal/fusion"
	"binary-options-bot/internal/logging"
	"binary-options-bot/internal/market"
	"binary-options-bot/internal/notification"
	"binary-options-bot/internal/risk"
	"binary-options-bot/internal/strategy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LoggingConfig.Level,
		Output: cfg.LoggingConfig.Output,
		Pretty: cfg.LoggingConfig.Pretty,
	})
	logger.Info().Str("asset", cfg.TradingConfig.Asset).Msg("starting binary options bot")

	eventBus := events.NewEventBus()

	// Notifications
	var notifier *notification.Manager
	if cfg.NotificationConfig.Enabled {
		notifier = notification.NewManager()
		if cfg.NotificationConfig.Telegram.Enabled {
			notifier.AddNotifier(notification.NewTelegramNotifier(notification.TelegramConfig{
				BotToken: cfg.NotificationConfig.Telegram.BotToken,
				ChatID:   cfg.NotificationConfig.Telegram.ChatID,
				Enabled:  true,
			}))
		}
		if cfg.NotificationConfig.Discord.Enabled {
			notifier.AddNotifier(notification.NewDiscordNotifier(notification.DiscordConfig{
				WebhookURL: cfg.NotificationConfig.Discord.WebhookURL,
				Enabled:    true,
			}))
		}
		logger.Info().Msg("notifications enabled")
	}

	// Postgres trade journal
	var repo *database.Repository
	if cfg.DatabaseConfig.Enabled {
		db, err := database.NewDB(cfg.DatabaseConfig)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		if err := db.InitSchema(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize database schema")
		}
		repo = database.NewRepository(db)
		logger.Info().Msg("trade journal connected")
	}

	// Redis risk-state store (in-memory fallback when disabled or unreachable)
	var stateStore *database.RiskStateStore
	if cfg.RedisConfig.Enabled {
		client, err := database.NewRedisClient(cfg.RedisConfig)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, using in-memory risk state")
			stateStore = database.NewRiskStateStore(nil)
		} else {
			stateStore = database.NewRiskStateStore(client)
			logger.Info().Msg("redis risk state store connected")
		}
	}

	// Session risk state: resume from the store if a session is already
	// running for this asset today.
	state := risk.NewState()
	if stateStore != nil {
		if saved, err := stateStore.Load(context.Background(), cfg.TradingConfig.Asset); err == nil && saved != nil {
			state = saved
			logger.Info().
				Float64("daily_pnl", state.DailyPnL).
				Int("consecutive_losses", state.ConsecutiveLosses).
				Msg("resumed session risk state")
		}
	}

	engine := fusion.NewEngine(cfg.EngineConfig, logger)
	gate := risk.NewGate(cfg.RiskGateConfig)
	tracker := risk.NewTracker(state, logger)
	buffer := market.NewCandleBuffer(0)
	registry := strategy.DefaultRegistry(logger)

	tradingBot := bot.NewTradingBot(
		bot.Options{
			Asset:            cfg.TradingConfig.Asset,
			Balance:          cfg.TradingConfig.Balance,
			Expiry:           cfg.TradingConfig.Expiry,
			EvaluateInterval: cfg.TradingConfig.EvaluateInterval,
			Payout:           cfg.TradingConfig.Payout,
		},
		engine, gate, tracker, buffer, registry, eventBus, repo, stateStore, notifier, logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Candle source: live websocket feed, or a synthetic generator in mock
	// mode for offline runs.
	if cfg.TradingConfig.MockMode || !cfg.FeedConfig.Enabled {
		logger.Info().Msg("mock mode: streaming synthetic candles")
		go streamSynthetic(ctx, tradingBot)
	} else {
		stream := feed.NewStream(cfg.FeedConfig, tradingBot.OnCandle, logger)
		if err := stream.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start candle feed")
		}
		defer stream.Stop()
	}

	tradingBot.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down")
	cancel()
	tradingBot.Stop()
	logger.Info().Str("summary", tradingBot.Summary()).Msg("session summary")
}

// streamSynthetic replays a generated market scenario at one candle per
// second so the full pipeline runs without a broker connection.
func streamSynthetic(ctx context.Context, b *bot.TradingBot) {
	gen := market.NewSyntheticGenerator(time.Now().UnixNano(), 100)
	candles := gen.GenerateScenario(market.DefaultScenario())

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for _, c := range candles {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.OnCandle(c)
		}
	}
}
