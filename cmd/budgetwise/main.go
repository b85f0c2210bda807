package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budgetwise/internal/advisor"
	"budgetwise/internal/budget"
	"budgetwise/internal/config"
	apphttp "budgetwise/internal/http"
	"budgetwise/internal/log"
	"budgetwise/internal/notify"
	"budgetwise/internal/store"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", log.FieldError, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	kv, cleanup, err := store.Open(store.Config{
		Backend:    store.Backend(cfg.Store.Backend),
		SQLitePath: cfg.Store.SQLitePath,
	}, logger)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err, "backend", cfg.Store.Backend)
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error("Store cleanup error", log.FieldError, err)
		}
	}()

	svc := budget.NewService(kv, logger)

	var adviceClient advisor.Client
	if cfg.Advisor.APIKey != "" {
		adviceClient, err = advisor.NewOpenAIClient(advisor.Config{
			APIKey:  cfg.Advisor.APIKey,
			Model:   cfg.Advisor.Model,
			BaseURL: cfg.Advisor.BaseURL,
			Timeout: cfg.Advisor.Timeout,
		})
		if err != nil {
			logger.Error("Failed to configure advice client", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Advice client configured", "model", cfg.Advisor.Model)
	} else {
		logger.Warn("No advisor API key set; tips will be unavailable")
	}
	tips := advisor.NewService(adviceClient, logger)

	var notifier apphttp.Notifier
	if cfg.AMQP.URL != "" {
		client, err := notify.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", log.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		notifier = client
		logger.Info("Alert notifications enabled",
			"exchange", cfg.AMQP.Exchange, "queue", cfg.AMQP.Queue)
	}

	srv := apphttp.NewServer(cfg, svc, tips, notifier, kv, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting server",
		"port", cfg.App.Port, "backend", cfg.Store.Backend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.App.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
