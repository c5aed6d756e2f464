package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cashsaver/internal/amqp"
	"cashsaver/internal/backend"
	"cashsaver/internal/config"
	applog "cashsaver/internal/log"
	"cashsaver/internal/notify"
	"cashsaver/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logCfg := applog.DefaultConfig()
	logCfg.Component = applog.ComponentWorker
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	logger.Info("Starting reminder worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the reminder worker")
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	store, err := factory.CreateStore(backend.Config{
		Type:         backend.BackendType(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	scheduler := notify.NewScheduler(notify.LogNotifier{})
	scheduler.Start()
	defer scheduler.Stop()

	w := worker.NewReminderWorker(store, scheduler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Re-arm reminders for goals already on disk before consuming new events
	if err := w.StartupSync(ctx); err != nil {
		logger.Error("Startup sync failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Startup sync completed", "scheduled", scheduler.Scheduled())

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- client.ConsumeReminderEvents(ctx, w.HandleEvent)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	case err := <-consumeErr:
		if err != nil {
			logger.Error("Consumer stopped with error", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Reminder worker stopped gracefully")
}
