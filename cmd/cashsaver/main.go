package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"cashsaver/internal/amqp"
	"cashsaver/internal/backend"
	"cashsaver/internal/bootstrap"
	"cashsaver/internal/config"
	apphttp "cashsaver/internal/http"
	"cashsaver/internal/ledger"
	applog "cashsaver/internal/log"
	"cashsaver/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting cashsaver")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Build the configured store
	factory := backend.NewFactory(logger.WithComponent(applog.ComponentStorage).Logger)
	store, err := factory.CreateStore(backend.Config{
		Type:         backend.BackendType(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	// Reminder bus is optional; without it the tracker runs reminder-less
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without reminders", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - reminders will not be scheduled")
	}

	var bus *services.ReminderBus
	if amqpClient != nil {
		bus = services.NewReminderBus(amqpClient)
	} else {
		bus = services.NewReminderBus(nil)
	}

	led := ledger.New(store, bus, nil)
	if err := led.Warm(context.Background()); err != nil {
		logger.Error("Failed to warm ledger", "error", err)
		os.Exit(1)
	}

	svc := services.NewGoalService(led, bus)

	// Bootstrap flow: disabled without an endpoint, which resolves to the
	// goal tracker route
	var bootClient *bootstrap.Client
	if cfg.BootstrapURL != "" {
		bootClient = bootstrap.NewClient(cfg.BootstrapURL, bootstrap.Params{
			Key:      cfg.BootstrapKey,
			OS:       runtime.GOOS,
			Language: getEnvDefault("LANG", "en"),
			Device:   runtime.GOARCH,
			Country:  getEnvDefault("COUNTRY", "00"),
		})
	}
	flow := bootstrap.NewFlow(bootClient, store)

	srv := apphttp.NewServer(":"+cfg.Port, svc, flow, cfg.StatsCacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting cashsaver server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Cache janitor
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if removed := srv.CleanCaches(); removed > 0 {
					logger.Debug("Cleaned expired cache entries", "removed", removed)
				}
			}
		}
	})

	// Shutdown watcher
	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-gctx.Done():
			return nil
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func getEnvDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
