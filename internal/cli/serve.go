package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CryptoReportBot/config"
	"CryptoReportBot/internal/handlers"
	"CryptoReportBot/internal/operations/price"
	"CryptoReportBot/internal/operations/publish"
	"CryptoReportBot/internal/repositories"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler, HTTP API and Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger, err := NewLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	live := newLiveProvider(cfg.Exchange, logger)
	provider, closeCache := withCache(ctx, cfg.Redis, live, logger)
	defer closeCache()

	if cfg.Database.Driver != "" {
		db, err := openDatabase(cfg.Database)
		if err != nil {
			return err
		}
		candleRepo := repositories.NewCandleRepository(db)
		if err := candleRepo.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		recorder := price.NewCandleRecorder(live, candleRepo, cfg.Symbols, cfg.Exchange.CandleLimit, logger)
		handlers.NewPriceHandler(recorder, candleRepo, cfg.Database.Retention, cfg.Exchange.CandleLimit, logger).Start(ctx)

		provider = price.NewFallbackProvider(price.NewStoredProvider(candleRepo), provider, logger)
		logger.Info("Candle store enabled", zap.String("driver", cfg.Database.Driver))
	}

	analyzer := handlers.NewAnalysisHandler(provider, cfg.Analysis, cfg.Symbols, cfg.Exchange.CandleLimit, cfg.Scheduler.FetchTimeout, logger)
	scheduler := handlers.NewScheduler(analyzer, cfg.Scheduler.Symbol, cfg.Scheduler.Interval, cfg.Scheduler.MaxElapsed, logger)

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := publish.NewKafkaPublisher(publish.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("Failed to close Kafka writer", zap.Error(err))
			}
		}()
		scheduler.AddSink(publisher)
		logger.Info("Kafka publishing enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	telegramEnabled := false
	if cfg.Telegram.Token != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			logger.Error("Telegram disabled", zap.Error(err))
		} else {
			telegram := handlers.NewTelegramHandler(bot, cfg.Telegram.ChatID, analyzer, scheduler, logger)
			if cfg.Telegram.ChatID != 0 {
				scheduler.AddSink(telegram)
			}
			go telegram.Listen(ctx)
			telegramEnabled = true
			logger.Info("Telegram bot started", zap.String("username", bot.Self.UserName))
		}
	}

	if cfg.Scheduler.Enabled {
		go scheduler.Start(ctx)
	}

	httpHandler := handlers.NewHTTPHandler(analyzer, scheduler, telegramEnabled, logger)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpHandler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Shutdown complete")
	return nil
}
