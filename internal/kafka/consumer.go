//go:generate mockgen -source ./consumer.go -destination=./mocks/consumer.go -package=mock_kafka
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.com/courexa/edi-gateway/internal/edi"
	"gitlab.com/courexa/edi-gateway/internal/metrics"
	"gitlab.com/courexa/edi-gateway/internal/repository"
)

// ErrDeserialization marks a broker message that cannot be decoded into an
// order document. Such messages go to the dead-letter topic and their offset
// is advanced so they never stall the partition.
var ErrDeserialization = errors.New("message deserialization failed")

type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Registrar interface {
	Register(ctx context.Context, order *edi.NormalizedOrder) (*repository.Parcel, bool, error)
}

type ConsumerConfig struct {
	Workers       int
	DLQTopic      string
	RetryInterval time.Duration
	RetryElapsed  time.Duration
}

// Consumer drives the registrar from the ingest topic. Offsets are committed
// manually and only after the registrar call returns: a crash between
// registration and commit produces a redelivery that the registrar's
// idempotency absorbs.
type Consumer struct {
	newReader func() Reader
	dlq       Producer
	registrar Registrar
	cfg       ConsumerConfig
	logger    *zap.Logger
}

func NewConsumer(newReader func() Reader, dlq Producer, registrar Registrar, cfg ConsumerConfig, logger *zap.Logger) *Consumer {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 200 * time.Millisecond
	}
	if cfg.RetryElapsed <= 0 {
		cfg.RetryElapsed = 30 * time.Second
	}
	return &Consumer{
		newReader: newReader,
		dlq:       dlq,
		registrar: registrar,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled or a worker fails terminally. Each worker
// owns one reader; the consumer group assigns disjoint partitions across
// them, so ordering holds within an EDI reference and nowhere else.
func (c *Consumer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < c.cfg.Workers; i++ {
		worker := i
		g.Go(func() error {
			return c.runWorker(ctx, worker)
		})
	}
	return g.Wait()
}

func (c *Consumer) runWorker(ctx context.Context, worker int) error {
	r := c.newReader()
	defer func() {
		if err := r.Close(); err != nil {
			c.logger.Warn("failed to close reader", zap.Int("worker", worker), zap.Error(err))
		}
	}()

	l := c.logger.With(zap.Int("worker", worker))
	l.Info("ingest consumer worker started")

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.Info("ingest consumer worker stopping")
				return nil
			}
			return fmt.Errorf("worker %d: fetch failed: %w", worker, err)
		}

		metrics.ConsumerMessagesTotal.Inc()

		if err := c.handleMessage(ctx, r, msg, l); err != nil {
			return fmt.Errorf("worker %d: %w", worker, err)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, r Reader, msg kafka.Message, l *zap.Logger) error {
	order, err := decodeOrder(msg.Value)
	if err != nil {
		// Poison message: dead-letter it and advance past it. Retrying a
		// payload that cannot be decoded would stall the partition forever.
		l.Warn("routing undecodable message to dead-letter topic",
			zap.String("key", string(msg.Key)),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		if dlqErr := c.dlq.SendMessage(ctx, c.cfg.DLQTopic, msg.Key, msg.Value); dlqErr != nil {
			return fmt.Errorf("dead-letter publish failed: %w", dlqErr)
		}
		metrics.ConsumerDLQTotal.Inc()
		return r.CommitMessages(ctx, msg)
	}

	if err := c.registerWithRetry(ctx, order); err != nil {
		var vErr *edi.ValidationError
		if errors.As(err, &vErr) {
			l.Warn("order rejected by registrar, dead-lettering",
				zap.String("edi_reference", order.EDIReference),
				zap.Error(err))
			if dlqErr := c.dlq.SendMessage(ctx, c.cfg.DLQTopic, msg.Key, msg.Value); dlqErr != nil {
				return fmt.Errorf("dead-letter publish failed: %w", dlqErr)
			}
			metrics.ConsumerDLQTotal.Inc()
			return r.CommitMessages(ctx, msg)
		}
		// Offsets stay uncommitted so the message is redelivered after a
		// restart; the registrar's idempotency makes the redelivery safe.
		return fmt.Errorf("registration exhausted retries for %s: %w", order.EDIReference, err)
	}

	if err := r.CommitMessages(ctx, msg); err != nil {
		return fmt.Errorf("offset commit failed: %w", err)
	}
	return nil
}

func (c *Consumer) registerWithRetry(ctx context.Context, order *edi.NormalizedOrder) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.RetryInterval
	bo.MaxElapsedTime = c.cfg.RetryElapsed

	return backoff.Retry(func() error {
		_, _, err := c.registrar.Register(ctx, order)
		if err == nil {
			return nil
		}
		var vErr *edi.ValidationError
		if errors.As(err, &vErr) {
			return backoff.Permanent(err)
		}
		c.logger.Warn("registrar call failed, will retry",
			zap.String("edi_reference", order.EDIReference),
			zap.Error(err))
		return err
	}, backoff.WithContext(bo, ctx))
}

func decodeOrder(value []byte) (*edi.NormalizedOrder, error) {
	var doc edi.OrderDocument
	if err := json.Unmarshal(value, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	order, err := edi.Normalize(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return order, nil
}

// NewGroupReader builds a kafka-go reader bound to the shared consumer group.
func NewGroupReader(brokers []string, topic, groupID string) Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
}
