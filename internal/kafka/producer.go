//go:generate mockgen -source ./producer.go -destination=./mocks/producer.go -package=mock_kafka
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrPublish signals that the broker rejected or never acknowledged a message
// after the bounded retry budget. The caller decides whether to fall back to
// the synchronous intake path.
var ErrPublish = errors.New("broker publish failed")

type Producer interface {
	SendMessage(ctx context.Context, topic string, key []byte, value []byte) error
	Close() error
}

// Writer publishes messages keyed for partition locality. All replicas must
// acknowledge before a publish counts as successful.
type Writer struct {
	w          *kafka.Writer
	maxRetries int
	logger     *zap.Logger
}

func NewWriter(brokers []string, maxRetries int, logger *zap.Logger) *Writer {
	return &Writer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (p *Writer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	}

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = p.w.WriteMessages(ctx, msg)
		if lastErr == nil {
			return nil
		}
		p.logger.Warn("broker publish attempt failed",
			zap.String("topic", topic),
			zap.String("key", string(key)),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))
	}

	return fmt.Errorf("%w: topic %s: %v", ErrPublish, topic, lastErr)
}

func (p *Writer) Close() error {
	return p.w.Close()
}
