package registrar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	mock_database "gitlab.com/courexa/edi-gateway/internal/db/mocks"
	"gitlab.com/courexa/edi-gateway/internal/edi"
	"gitlab.com/courexa/edi-gateway/internal/lifecycle"
	mock_registrar "gitlab.com/courexa/edi-gateway/internal/registrar/mocks"
	"gitlab.com/courexa/edi-gateway/internal/repository"
)

var errDuplicateKey = errors.New("duplicate key value violates unique constraint")

type registrarFixture struct {
	db        *mock_database.MockDB
	tx        *mock_database.MockTx
	parcels   *mock_registrar.MockParcelStore
	events    *mock_registrar.MockEventStore
	customers *mock_registrar.MockCustomerStore
	outbox    *mock_registrar.MockOutboxStore
	registrar *Registrar
}

func newRegistrarFixture(t *testing.T) *registrarFixture {
	ctrl := gomock.NewController(t)

	f := &registrarFixture{
		db:        mock_database.NewMockDB(ctrl),
		tx:        mock_database.NewMockTx(ctrl),
		parcels:   mock_registrar.NewMockParcelStore(ctrl),
		events:    mock_registrar.NewMockEventStore(ctrl),
		customers: mock_registrar.NewMockCustomerStore(ctrl),
		outbox:    mock_registrar.NewMockOutboxStore(ctrl),
	}
	isConflict := func(err error) bool { return errors.Is(err, errDuplicateKey) }
	f.registrar = New(f.db, f.parcels, f.events, f.customers, f.outbox, isConflict, "parcel-tracking", zap.NewNop())
	f.registrar.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func testOrder() *edi.NormalizedOrder {
	return &edi.NormalizedOrder{
		EDIReference: "ORD-2024-001",
		Sender: edi.Party{
			Name:         "Acme Logistics",
			Email:        "dispatch@acme.example",
			CustomerCode: "ACME",
		},
		Recipient: edi.Party{
			Name: "Jane Smith",
		},
		PickupAddress:   edi.Address{StreetAddress: "1 Warehouse Way", City: "Springfield"},
		DeliveryAddress: edi.Address{StreetAddress: "42 Elm St", City: "Shelbyville"},
		Description:     "Ceramic vase",
		Weight:          2.5,
		Priority:        edi.PriorityExpress,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("new order creates parcel with registration event and announcement", func(t *testing.T) {
		f := newRegistrarFixture(t)

		f.db.EXPECT().BeginTx(gomock.Any()).Return(f.tx, nil)
		f.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
		// Only the sender carries a customer code.
		f.customers.EXPECT().UpsertTx(gomock.Any(), f.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, c *repository.Customer) error {
				assert.Equal(t, "ACME", c.Code)
				assert.Equal(t, "Acme Logistics", c.Name)
				return nil
			})
		f.parcels.EXPECT().CreateTx(gomock.Any(), f.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, p *repository.Parcel) error {
				assert.NotEmpty(t, p.ID)
				assert.Equal(t, "ORD-2024-001", p.EDIReference)
				assert.Equal(t, string(lifecycle.StatusRegistered), p.Status)
				assert.Equal(t, edi.PriorityExpress, p.Priority)
				return nil
			})
		f.events.EXPECT().AppendTx(gomock.Any(), f.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, ev *repository.TrackingEvent) error {
				assert.Equal(t, string(lifecycle.StatusRegistered), ev.EventType)
				return nil
			})
		f.outbox.EXPECT().CreateTx(gomock.Any(), f.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, task *repository.OutboxTask) error {
				assert.Equal(t, "parcel-tracking", task.Topic)
				assert.Equal(t, "ORD-2024-001", task.Key)
				return nil
			})
		f.tx.EXPECT().Commit(gomock.Any()).Return(nil)

		parcel, isNew, err := f.registrar.Register(ctx, testOrder())
		require.NoError(t, err)
		assert.True(t, isNew)
		assert.Equal(t, "ORD-2024-001", parcel.EDIReference)
	})

	t.Run("duplicate reference resolves to the existing parcel", func(t *testing.T) {
		f := newRegistrarFixture(t)
		existing := &repository.Parcel{
			ID:           "existing-id",
			EDIReference: "ORD-2024-001",
			Status:       string(lifecycle.StatusInTransit),
		}

		f.db.EXPECT().BeginTx(gomock.Any()).Return(f.tx, nil)
		f.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
		f.customers.EXPECT().UpsertTx(gomock.Any(), f.tx, gomock.Any()).Return(nil)
		f.parcels.EXPECT().CreateTx(gomock.Any(), f.tx, gomock.Any()).Return(errDuplicateKey)
		f.parcels.EXPECT().GetByEDIReference(gomock.Any(), "ORD-2024-001").Return(existing, nil)

		parcel, isNew, err := f.registrar.Register(ctx, testOrder())
		require.NoError(t, err)
		assert.False(t, isNew)
		assert.Same(t, existing, parcel)
	})

	t.Run("conflict lookup retries until the winner's row is visible", func(t *testing.T) {
		f := newRegistrarFixture(t)
		existing := &repository.Parcel{ID: "existing-id", EDIReference: "ORD-2024-001"}

		f.db.EXPECT().BeginTx(gomock.Any()).Return(f.tx, nil)
		f.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
		f.customers.EXPECT().UpsertTx(gomock.Any(), f.tx, gomock.Any()).Return(nil)
		f.parcels.EXPECT().CreateTx(gomock.Any(), f.tx, gomock.Any()).Return(errDuplicateKey)
		gomock.InOrder(
			f.parcels.EXPECT().GetByEDIReference(gomock.Any(), "ORD-2024-001").
				Return(nil, repository.ErrParcelNotFound),
			f.parcels.EXPECT().GetByEDIReference(gomock.Any(), "ORD-2024-001").
				Return(existing, nil),
		)

		parcel, isNew, err := f.registrar.Register(ctx, testOrder())
		require.NoError(t, err)
		assert.False(t, isNew)
		assert.Same(t, existing, parcel)
	})

	t.Run("storage failure surfaces as ErrStorageUnavailable", func(t *testing.T) {
		f := newRegistrarFixture(t)

		f.db.EXPECT().BeginTx(gomock.Any()).Return(nil, errors.New("connection refused"))

		parcel, isNew, err := f.registrar.Register(ctx, testOrder())
		assert.Nil(t, parcel)
		assert.False(t, isNew)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})
}
