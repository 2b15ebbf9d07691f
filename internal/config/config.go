// Package config loads the typed runtime configuration. All knobs come from
// environment variables (with a .env file loaded in main for local dev);
// downstream code only ever sees this struct, never os.Getenv.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	App    App    `envPrefix:"APP_"`
	Store  Store  `envPrefix:"STORE_"`
	Mail   Mail   `envPrefix:"MAIL_"`
	Queue  Queue  `envPrefix:"AMQP_"`
	Stripe Stripe `envPrefix:"STRIPE_"`
	OpenAI OpenAI `envPrefix:"OPENAI_"`
}

type App struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	// SweepInterval > 0 runs the batch sweep inside the API process on a
	// ticker. Zero disables it; use cmd/sweep from cron instead.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"0"`
	SendTimeout   time.Duration `env:"SEND_TIMEOUT" envDefault:"15s"`
}

// Store selects the lead store backing: the JSON file by default, Postgres
// when a DSN is set.
type Store struct {
	FilePath    string `env:"FILE_PATH" envDefault:"signups.json"`
	PostgresDSN string `env:"POSTGRES_DSN"`
}

// Mail holds SMTP credentials. An empty Host selects the log-only sender:
// sends are logged and sequencing still advances.
type Mail struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	User     string `env:"USER"`
	Password string `env:"PASS"`
	From     string `env:"FROM" envDefault:"noreply@dealcrafter.ai"`
}

// Queue configures the RabbitMQ dispatch queue. Empty URL disables it;
// post-payment welcomes then wait for the next sweep.
type Queue struct {
	URL string `env:"URL"`
}

type Stripe struct {
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	PriceID       string `env:"PRICE_ID"`
	SuccessURL    string `env:"SUCCESS_URL" envDefault:"http://localhost:3000/success"`
	CancelURL     string `env:"CANCEL_URL" envDefault:"http://localhost:3000"`
}

type OpenAI struct {
	APIKey string `env:"API_KEY"`
}

func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
