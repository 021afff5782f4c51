package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gitlab.com/courexa/edi-gateway/internal/edi"
	"gitlab.com/courexa/edi-gateway/internal/metrics"
)

// IngestProducer is the asynchronous intake path: it puts a validated order
// onto the partitioned ingest topic keyed by EDI reference, so every message
// for one reference lands on the same partition in order.
type IngestProducer struct {
	producer Producer
	topic    string
}

func NewIngestProducer(producer Producer, topic string) *IngestProducer {
	return &IngestProducer{producer: producer, topic: topic}
}

func (p *IngestProducer) Topic() string {
	return p.topic
}

// Submit publishes the order document. Acceptance means "queued for
// processing", not "registered".
func (p *IngestProducer) Submit(ctx context.Context, doc edi.OrderDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal order document: %w", err)
	}

	// The key must match the canonical reference the registrar stores, or
	// the same reference could land on different partitions.
	key := []byte(strings.TrimSpace(doc.EDIReference))
	if err := p.producer.SendMessage(ctx, p.topic, key, payload); err != nil {
		return err
	}

	metrics.OrdersSubmittedTotal.Inc()
	return nil
}
