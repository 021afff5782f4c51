package edi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() OrderDocument {
	weight := 2.5
	return OrderDocument{
		EDIReference: "ORD-2024-001",
		Sender: Party{
			Name:         "Acme Logistics",
			Email:        "Dispatch@Acme.example",
			Phone:        " +1-555-0100 ",
			CustomerCode: "ACME",
		},
		Recipient: Party{
			Name:  "Jane Smith",
			Email: "jane@example.com",
		},
		PickupAddress: Address{
			StreetAddress: " 1 Warehouse Way ",
			City:          "Springfield",
			State:         "IL",
			PostalCode:    "62701",
			Country:       "US",
		},
		DeliveryAddress: Address{
			StreetAddress: "42 Elm St",
			City:          "Shelbyville",
			State:         "IL",
			PostalCode:    "62565",
			Country:       "US",
		},
		ParcelDetails: ParcelDetails{
			Description: " Ceramic vase ",
			Weight:      &weight,
			Dimensions:  "30x20x20",
		},
		ServiceOptions: ServiceOptions{
			Priority: "express",
		},
	}
}

func TestNormalize(t *testing.T) {
	t.Run("valid document is trimmed and canonicalized", func(t *testing.T) {
		order, err := Normalize(validDocument())
		require.NoError(t, err)

		assert.Equal(t, "ORD-2024-001", order.EDIReference)
		assert.Equal(t, "Acme Logistics", order.Sender.Name)
		assert.Equal(t, "dispatch@acme.example", order.Sender.Email)
		assert.Equal(t, "+1-555-0100", order.Sender.Phone)
		assert.Equal(t, "1 Warehouse Way", order.PickupAddress.StreetAddress)
		assert.Equal(t, "Ceramic vase", order.Description)
		assert.Equal(t, 2.5, order.Weight)
		assert.Equal(t, PriorityExpress, order.Priority)
	})

	t.Run("priority defaults to STANDARD when absent", func(t *testing.T) {
		doc := validDocument()
		doc.ServiceOptions.Priority = ""

		order, err := Normalize(doc)
		require.NoError(t, err)
		assert.Equal(t, PriorityStandard, order.Priority)
	})

	t.Run("absent weight is allowed", func(t *testing.T) {
		doc := validDocument()
		doc.ParcelDetails.Weight = nil

		order, err := Normalize(doc)
		require.NoError(t, err)
		assert.Zero(t, order.Weight)
	})

	tests := []struct {
		name      string
		mutate    func(doc *OrderDocument)
		wantField string
	}{
		{
			name:      "blank edi reference",
			mutate:    func(doc *OrderDocument) { doc.EDIReference = "   " },
			wantField: "ediReference",
		},
		{
			name:      "missing sender name",
			mutate:    func(doc *OrderDocument) { doc.Sender.Name = "" },
			wantField: "sender.name",
		},
		{
			name:      "missing recipient name",
			mutate:    func(doc *OrderDocument) { doc.Recipient.Name = " " },
			wantField: "recipient.name",
		},
		{
			name:      "malformed recipient email",
			mutate:    func(doc *OrderDocument) { doc.Recipient.Email = "not-an-email" },
			wantField: "recipient.email",
		},
		{
			name:      "missing pickup street",
			mutate:    func(doc *OrderDocument) { doc.PickupAddress.StreetAddress = "" },
			wantField: "pickupAddress.streetAddress",
		},
		{
			name:      "missing delivery street",
			mutate:    func(doc *OrderDocument) { doc.DeliveryAddress.StreetAddress = "" },
			wantField: "deliveryAddress.streetAddress",
		},
		{
			name: "zero weight",
			mutate: func(doc *OrderDocument) {
				w := 0.0
				doc.ParcelDetails.Weight = &w
			},
			wantField: "parcelDetails.weight",
		},
		{
			name: "negative weight",
			mutate: func(doc *OrderDocument) {
				w := -1.2
				doc.ParcelDetails.Weight = &w
			},
			wantField: "parcelDetails.weight",
		},
		{
			name:      "unknown priority",
			mutate:    func(doc *OrderDocument) { doc.ServiceOptions.Priority = "OVERNIGHT" },
			wantField: "serviceOptions.priority",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := validDocument()
			tc.mutate(&doc)

			order, err := Normalize(doc)
			assert.Nil(t, order)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.wantField, vErr.Field)
		})
	}
}
