package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	PgURL     string `env:"PG_URL" required:"true"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	StripeAPIBaseURL        string        `env:"STRIPE_API_BASE_URL" envDefault:"https://api.stripe.com"`
	StripeSecretKey         string        `env:"STRIPE_SECRET_KEY" required:"true"`
	StripeWebhookSecret     string        `env:"STRIPE_WEBHOOK_SECRET" required:"true"`
	HTTPStripeClientTimeout time.Duration `env:"HTTP_STRIPE_CLIENT_TIMEOUT" envDefault:"20s"`
	WebhookTolerance        time.Duration `env:"STRIPE_WEBHOOK_TOLERANCE" envDefault:"5m"`

	// Webhook processing mode: "sync" (direct) or "kafka" (async via Kafka)
	WebhookMode string `env:"WEBHOOK_MODE" envDefault:"sync"`

	// Kafka configuration
	KafkaBrokers               []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaPaymentsTopic         string   `env:"KAFKA_PAYMENTS_TOPIC" envDefault:"webhooks.payments"`
	KafkaPaymentsDLQTopic      string   `env:"KAFKA_PAYMENTS_DLQ_TOPIC" envDefault:"webhooks.payments.dlq"`
	KafkaPaymentsConsumerGroup string   `env:"KAFKA_PAYMENTS_CONSUMER_GROUP" envDefault:"coursepay-payments"`

	// Pending sweep: re-reconciles payments stuck in pending after a lost
	// webhook. Interval 0 disables the sweep.
	PendingSweepInterval time.Duration `env:"PENDING_SWEEP_INTERVAL" envDefault:"10m"`
	PendingSweepMinAge   time.Duration `env:"PENDING_SWEEP_MIN_AGE" envDefault:"30m"`
	PendingSweepBatch    int           `env:"PENDING_SWEEP_BATCH" envDefault:"100"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
