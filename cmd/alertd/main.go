// alertd consumes queued over-limit alert events and surfaces them as
// structured log notifications.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budgetwise/internal/config"
	"budgetwise/internal/log"
	"budgetwise/internal/notify"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     log.DefaultConfig().Level,
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQP.URL == "" {
		logger.Error("AMQP_URL is required to consume alert events")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	client, err := notify.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Waiting for alert events",
		"exchange", cfg.AMQP.Exchange, "queue", cfg.AMQP.Queue)

	err = client.ConsumeAlerts(ctx, func(event *notify.AlertEvent) error {
		logger.Warn("Spending limit exceeded",
			log.FieldCategory, event.Category,
			"current_total_cents", event.CurrentTotalCents,
			log.FieldLimit, event.LimitCents,
			"over_by_cents", event.OverByCents,
			"occurred_at", event.OccurredAt)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Consumer stopped gracefully")
}
