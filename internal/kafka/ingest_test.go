package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"gitlab.com/courexa/edi-gateway/internal/edi"
	mock_kafka "gitlab.com/courexa/edi-gateway/internal/kafka/mocks"
)

func TestIngestProducerSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("keys the message by the canonical reference", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		producer := mock_kafka.NewMockProducer(ctrl)
		ingest := NewIngestProducer(producer, "edi-orders")

		doc := edi.OrderDocument{EDIReference: "  ORD-2024-010 "}
		producer.EXPECT().
			SendMessage(gomock.Any(), "edi-orders", []byte("ORD-2024-010"), gomock.Any()).
			Return(nil)

		require.NoError(t, ingest.Submit(ctx, doc))
	})

	t.Run("propagates producer failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		producer := mock_kafka.NewMockProducer(ctrl)
		ingest := NewIngestProducer(producer, "edi-orders")

		producer.EXPECT().
			SendMessage(gomock.Any(), "edi-orders", gomock.Any(), gomock.Any()).
			Return(assert.AnError)

		err := ingest.Submit(ctx, edi.OrderDocument{EDIReference: "ORD-2024-011"})
		assert.ErrorIs(t, err, assert.AnError)
	})
}
