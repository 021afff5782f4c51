//go:generate mockgen -source ./registrar.go -destination=./mocks/registrar.go -package=mock_registrar
package registrar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.com/courexa/edi-gateway/internal/db"
	"gitlab.com/courexa/edi-gateway/internal/edi"
	"gitlab.com/courexa/edi-gateway/internal/lifecycle"
	"gitlab.com/courexa/edi-gateway/internal/metrics"
	"gitlab.com/courexa/edi-gateway/internal/repository"
)

// ErrStorageUnavailable wraps storage failures. Callers may retry: the
// registration path is idempotent under the EDI reference.
var ErrStorageUnavailable = errors.New("storage unavailable")

type ParcelStore interface {
	CreateTx(ctx context.Context, tx db.Tx, p *repository.Parcel) error
	GetByEDIReference(ctx context.Context, ediReference string) (*repository.Parcel, error)
}

type EventStore interface {
	AppendTx(ctx context.Context, tx db.Tx, ev *repository.TrackingEvent) error
}

type CustomerStore interface {
	UpsertTx(ctx context.Context, tx db.Tx, c *repository.Customer) error
}

type OutboxStore interface {
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
}

// ConflictDetector reports whether err is a duplicate-key conflict. The
// postgres implementation is injected so the package stays testable without a
// live database.
type ConflictDetector func(err error) bool

// Registrar is the authoritative write path for new parcels. Registration is
// idempotent: the unique constraint on edi_reference is the only concurrency
// control, and the loser of a concurrent duplicate insert resolves to the
// winner's row.
type Registrar struct {
	db            db.DB
	parcels       ParcelStore
	events        EventStore
	customers     CustomerStore
	outbox        OutboxStore
	isConflict    ConflictDetector
	trackingTopic string
	logger        *zap.Logger
	now           func() time.Time
}

func New(database db.DB, parcels ParcelStore, events EventStore, customers CustomerStore, outbox OutboxStore, isConflict ConflictDetector, trackingTopic string, logger *zap.Logger) *Registrar {
	return &Registrar{
		db:            database,
		parcels:       parcels,
		events:        events,
		customers:     customers,
		outbox:        outbox,
		isConflict:    isConflict,
		trackingTopic: trackingTopic,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the parcel for order, or returns the existing one when the
// EDI reference has been seen before. The parcel row, its REGISTERED tracking
// event and the outbox announcement are written in one transaction.
func (r *Registrar) Register(ctx context.Context, order *edi.NormalizedOrder) (*repository.Parcel, bool, error) {
	parcel, err := r.insertNew(ctx, order)
	if err == nil {
		metrics.ParcelsRegisteredTotal.Inc()
		r.logger.Info("parcel registered",
			zap.String("parcel_id", parcel.ID),
			zap.String("edi_reference", parcel.EDIReference))
		return parcel, true, nil
	}

	if r.isConflict(err) {
		existing, lookupErr := r.lookupExisting(ctx, order.EDIReference)
		if lookupErr != nil {
			return nil, false, lookupErr
		}
		metrics.DuplicateSubmissionsTotal.Inc()
		r.logger.Info("duplicate submission resolved to existing parcel",
			zap.String("parcel_id", existing.ID),
			zap.String("edi_reference", existing.EDIReference))
		return existing, false, nil
	}

	metrics.OperationErrorsTotal.WithLabelValues("register").Inc()
	return nil, false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

func (r *Registrar) insertNew(ctx context.Context, order *edi.NormalizedOrder) (*repository.Parcel, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	now := r.now()

	if err := r.upsertParties(ctx, tx, order, now); err != nil {
		return nil, err
	}

	parcel := buildParcel(order, now)
	if err := r.parcels.CreateTx(ctx, tx, parcel); err != nil {
		return nil, err
	}

	ev := &repository.TrackingEvent{
		ParcelID:       parcel.ID,
		EventType:      string(lifecycle.StatusRegistered),
		Description:    "Parcel registered from EDI order",
		EventTimestamp: now,
		CreatedAt:      now,
	}
	if err := r.events.AppendTx(ctx, tx, ev); err != nil {
		return nil, err
	}

	if err := r.enqueueAnnouncement(ctx, tx, parcel, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return parcel, nil
}

// lookupExisting fetches the winner's row after losing a concurrent insert
// race. The winner may not have committed yet when the conflict surfaces, so
// the read is retried briefly.
func (r *Registrar) lookupExisting(ctx context.Context, ediReference string) (*repository.Parcel, error) {
	var parcel *repository.Parcel

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 20 * time.Millisecond
	bo.MaxElapsedTime = 2 * time.Second

	err := backoff.Retry(func() error {
		p, err := r.parcels.GetByEDIReference(ctx, ediReference)
		if err != nil {
			if errors.Is(err, repository.ErrParcelNotFound) {
				return err
			}
			return backoff.Permanent(err)
		}
		parcel = p
		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate detected but existing parcel not readable: %v", ErrStorageUnavailable, err)
	}
	return parcel, nil
}

func (r *Registrar) upsertParties(ctx context.Context, tx db.Tx, order *edi.NormalizedOrder, now time.Time) error {
	for _, party := range []edi.Party{order.Sender, order.Recipient} {
		if party.CustomerCode == "" {
			continue
		}
		c := &repository.Customer{
			Code:      party.CustomerCode,
			Name:      party.Name,
			Email:     party.Email,
			Phone:     party.Phone,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.customers.UpsertTx(ctx, tx, c); err != nil {
			return err
		}
	}
	return nil
}

type registrationAnnouncement struct {
	ParcelID     string    `json:"parcelId"`
	EDIReference string    `json:"ediReference"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	RegisteredAt time.Time `json:"registeredAt"`
}

func (r *Registrar) enqueueAnnouncement(ctx context.Context, tx db.Tx, parcel *repository.Parcel, now time.Time) error {
	payload, err := json.Marshal(registrationAnnouncement{
		ParcelID:     parcel.ID,
		EDIReference: parcel.EDIReference,
		Status:       parcel.Status,
		Priority:     parcel.Priority,
		RegisteredAt: now,
	})
	if err != nil {
		return err
	}
	return r.outbox.CreateTx(ctx, tx, &repository.OutboxTask{
		Topic:   r.trackingTopic,
		Key:     parcel.EDIReference,
		Payload: payload,
	})
}

func buildParcel(order *edi.NormalizedOrder, now time.Time) *repository.Parcel {
	return &repository.Parcel{
		ID:           uuid.New().String(),
		EDIReference: order.EDIReference,
		Status:       string(lifecycle.StatusRegistered),
		Priority:     order.Priority,

		SenderCode:    order.Sender.CustomerCode,
		RecipientCode: order.Recipient.CustomerCode,

		PickupStreet:    order.PickupAddress.StreetAddress,
		PickupCity:      order.PickupAddress.City,
		PickupState:     order.PickupAddress.State,
		PickupPostal:    order.PickupAddress.PostalCode,
		PickupCountry:   order.PickupAddress.Country,
		DeliveryStreet:  order.DeliveryAddress.StreetAddress,
		DeliveryCity:    order.DeliveryAddress.City,
		DeliveryState:   order.DeliveryAddress.State,
		DeliveryPostal:  order.DeliveryAddress.PostalCode,
		DeliveryCountry: order.DeliveryAddress.Country,

		Description: order.Description,
		Weight:      order.Weight,
		Dimensions:  order.Dimensions,

		EstimatedDeliveryAt: order.EstimatedDeliveryDate,

		CreatedAt: now,
		UpdatedAt: now,
	}
}
