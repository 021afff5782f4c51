package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"9000"`
	Debug    bool   `env:"DEBUG" envDefault:"false"`

	// IdentityURL points at the external claims provider. Empty means local
	// development without token validation.
	IdentityURL string `env:"IDENTITY_URL"`

	DB         DBConfig
	Kafka      KafkaConfig
	Outbox     OutboxConfig
	Resilience ResilienceConfig
}

type DBConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	Name     string `env:"POSTGRES_DB" envDefault:"edi_gateway"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Ingest is the partitioned order-intake topic, keyed by EDI reference.
	IngestTopic string `env:"KAFKA_INGEST_TOPIC" envDefault:"edi.orders.inbound"`
	// DLQTopic receives messages that cannot be deserialized or normalized.
	DLQTopic string `env:"KAFKA_DLQ_TOPIC" envDefault:"edi.orders.dlq"`
	// PartnerTopic carries outbound events for partner systems.
	PartnerTopic string `env:"KAFKA_PARTNER_TOPIC" envDefault:"edi.partner.events"`
	// TrackingTopic is the append-only tracking-event log. It must be
	// configured with full retention, never compaction: compaction keeps only
	// the latest record per key and would erase parcel history.
	TrackingTopic string `env:"KAFKA_TRACKING_TOPIC" envDefault:"edi.tracking.events"`

	GroupID         string `env:"KAFKA_GROUP_ID" envDefault:"edi-ingest-consumer"`
	ConsumerWorkers int    `env:"KAFKA_CONSUMER_WORKERS" envDefault:"3"`
	ProducerRetries int    `env:"KAFKA_PRODUCER_RETRIES" envDefault:"3"`
}

type OutboxConfig struct {
	PollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"1s"`
	BatchSize    int           `env:"OUTBOX_BATCH_SIZE" envDefault:"50"`
	MaxAttempts  int           `env:"OUTBOX_MAX_ATTEMPTS" envDefault:"5"`
}

type ResilienceConfig struct {
	CallTimeout     time.Duration `env:"REMOTE_CALL_TIMEOUT" envDefault:"2s"`
	RetryAttempts   uint64        `env:"REMOTE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"REMOTE_RETRY_INTERVAL" envDefault:"100ms"`
	BreakerWindow   time.Duration `env:"BREAKER_WINDOW" envDefault:"30s"`
	BreakerCooldown time.Duration `env:"BREAKER_COOLDOWN" envDefault:"10s"`
	BreakerRatio    float64       `env:"BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinCalls uint32        `env:"BREAKER_MIN_CALLS" envDefault:"5"`
}

// Load reads a .env file when one is present and parses the environment into
// a Config. A missing .env file is not an error; containers inject variables
// directly.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return cfg, nil
}

func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	for _, p := range []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	} {
		if err := godotenv.Load(p); err == nil {
			return
		}
	}
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}
