package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gitlab.com/courexa/edi-gateway/internal/config"
	"gitlab.com/courexa/edi-gateway/internal/db"
	"gitlab.com/courexa/edi-gateway/internal/kafka"
	"gitlab.com/courexa/edi-gateway/internal/logger"
	"gitlab.com/courexa/edi-gateway/internal/registrar"
	"gitlab.com/courexa/edi-gateway/internal/repository/postgresql"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Debug)
	defer func() {
		_ = log.Sync()
	}()

	database, err := db.NewDb(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}

	parcelRepo := postgresql.NewParcelRepo(database)
	eventRepo := postgresql.NewTrackingEventRepo(database)
	customerRepo := postgresql.NewCustomerRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo(cfg.Outbox.MaxAttempts)

	reg := registrar.New(database, parcelRepo, eventRepo, customerRepo, outboxRepo,
		postgresql.IsUniqueViolation, cfg.Kafka.TrackingTopic, log)

	dlq := kafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.ProducerRetries, log)
	defer func() {
		if err := dlq.Close(); err != nil {
			log.Warn("failed to close dead-letter producer", zap.Error(err))
		}
	}()

	newReader := func() kafka.Reader {
		return kafka.NewGroupReader(cfg.Kafka.Brokers, cfg.Kafka.IngestTopic, cfg.Kafka.GroupID)
	}

	consumer := kafka.NewConsumer(newReader, dlq, reg, kafka.ConsumerConfig{
		Workers:  cfg.Kafka.ConsumerWorkers,
		DLQTopic: cfg.Kafka.DLQTopic,
	}, log)

	log.Info("ingest consumer starting",
		zap.String("topic", cfg.Kafka.IngestTopic),
		zap.String("group_id", cfg.Kafka.GroupID),
		zap.Int("workers", cfg.Kafka.ConsumerWorkers))

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("ingest consumer failed", zap.Error(err))
	}

	log.Info("ingest consumer stopped")
}
