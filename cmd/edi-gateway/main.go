package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gitlab.com/courexa/edi-gateway/internal/config"
	"gitlab.com/courexa/edi-gateway/internal/db"
	"gitlab.com/courexa/edi-gateway/internal/identity"
	"gitlab.com/courexa/edi-gateway/internal/kafka"
	"gitlab.com/courexa/edi-gateway/internal/lifecycle"
	"gitlab.com/courexa/edi-gateway/internal/logger"
	"gitlab.com/courexa/edi-gateway/internal/registrar"
	"gitlab.com/courexa/edi-gateway/internal/repository/postgresql"
	"gitlab.com/courexa/edi-gateway/internal/server"
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

	producer := kafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.ProducerRetries, log)
	ingest := kafka.NewIngestProducer(producer, cfg.Kafka.IngestTopic)

	reg := registrar.New(database, parcelRepo, eventRepo, customerRepo, outboxRepo,
		postgresql.IsUniqueViolation, cfg.Kafka.TrackingTopic, log)
	machine := lifecycle.NewMachine(database, parcelRepo, eventRepo, outboxRepo,
		cfg.Kafka.PartnerTopic, log)

	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
		MaxAttempts:  cfg.Outbox.MaxAttempts,
	}, log)
	go publisher.Run(ctx)

	var claims server.ClaimsProvider
	if cfg.IdentityURL != "" {
		claims = identity.NewRemoteProvider(cfg.IdentityURL, cfg.Resilience.CallTimeout)
	} else {
		claims = identity.NewInsecureProvider(log)
	}

	srv := server.New(reg, machine, ingest, parcelRepo, claims, database, log)

	go func() {
		if err := srv.Run(ctx, cfg.HTTPPort); err != nil {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	publisher.Shutdown()

	log.Info("edi-gateway stopped")
}
