// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"budgetwise"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Store struct {
		Backend    string `envconfig:"STORE_BACKEND" default:"sqlite"`
		SQLitePath string `envconfig:"SQLITE_DB_PATH" default:"./data/budgetwise.db"`
	}

	Server struct {
		ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
		WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
		IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
		AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
		TipsPerMinute   int           `envconfig:"TIPS_PER_MINUTE" default:"10"`
	}

	Advisor struct {
		APIKey  string        `envconfig:"ADVISOR_API_KEY"`
		Model   string        `envconfig:"ADVISOR_MODEL"`
		BaseURL string        `envconfig:"ADVISOR_BASE_URL"`
		Timeout time.Duration `envconfig:"ADVISOR_TIMEOUT" default:"30s"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"budgetwise"`
		Queue    string `envconfig:"AMQP_QUEUE" default:"alert_notifications"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the loaded configuration and reports every problem found.
func (c *Config) Validate() error {
	var problems []string

	if c.App.Port < 1 || c.App.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.App.Port))
	}

	switch c.Store.Backend {
	case "memory":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			problems = append(problems, "SQLITE_DB_PATH cannot be empty when using the sqlite backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid store backend %q: must be one of [memory sqlite]", c.Store.Backend))
	}

	if c.AMQP.URL != "" {
		parsed, err := url.Parse(c.AMQP.URL)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL %q: %v", c.AMQP.URL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme %q: must be amqp or amqps", parsed.Scheme))
		}
		if c.AMQP.Exchange == "" {
			problems = append(problems, "AMQP_EXCHANGE cannot be empty when AMQP_URL is provided")
		}
		if c.AMQP.Queue == "" {
			problems = append(problems, "AMQP_QUEUE cannot be empty when AMQP_URL is provided")
		}
	}

	if c.Server.TipsPerMinute < 1 {
		problems = append(problems, fmt.Sprintf("invalid tips rate %d: must be at least 1 per minute", c.Server.TipsPerMinute))
	}
	if c.Advisor.Timeout < time.Second {
		problems = append(problems, fmt.Sprintf("invalid advisor timeout %v: must be at least 1 second", c.Advisor.Timeout))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}
