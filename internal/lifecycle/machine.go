//go:generate mockgen -source ./machine.go -destination=./mocks/machine.go -package=mock_lifecycle
package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gitlab.com/courexa/edi-gateway/internal/db"
	"gitlab.com/courexa/edi-gateway/internal/metrics"
	"gitlab.com/courexa/edi-gateway/internal/repository"
)

// InvalidTransitionError rejects a transition out of a terminal state or to
// an unknown status. The parcel and its event log are left untouched.
type InvalidTransitionError struct {
	ParcelID string
	From     Status
	To       Status
	Reason   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition for parcel %s: %s -> %s (%s)", e.ParcelID, e.From, e.To, e.Reason)
}

type ParcelStore interface {
	GetByEDIReferenceTx(ctx context.Context, tx db.Tx, ediReference string) (*repository.Parcel, error)
	UpdateStatusTx(ctx context.Context, tx db.Tx, p *repository.Parcel) error
}

type EventStore interface {
	AppendTx(ctx context.Context, tx db.Tx, ev *repository.TrackingEvent) error
	LatestTx(ctx context.Context, tx db.Tx, parcelID string) (*repository.TrackingEvent, error)
	ListByParcelID(ctx context.Context, parcelID string) ([]*repository.TrackingEvent, error)
}

type OutboxStore interface {
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
}

// TransitionMeta carries the caller-supplied details of a transition.
type TransitionMeta struct {
	Description    string
	EventTimestamp time.Time
	Location       *string
	VehicleID      *string
	DriverName     *string
	AdditionalInfo *string
}

// Machine owns the parcel status graph and the append-only tracking log.
// Every accepted transition updates the parcel row and appends exactly one
// event in the same transaction.
type Machine struct {
	db           db.DB
	parcels      ParcelStore
	events       EventStore
	outbox       OutboxStore
	partnerTopic string
	logger       *zap.Logger
	now          func() time.Time
}

func NewMachine(database db.DB, parcels ParcelStore, events EventStore, outbox OutboxStore, partnerTopic string, logger *zap.Logger) *Machine {
	return &Machine{
		db:           database,
		parcels:      parcels,
		events:       events,
		outbox:       outbox,
		partnerTopic: partnerTopic,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// partnerEvent is the envelope published to the outbound partner topic for
// every accepted transition.
type partnerEvent struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	ParcelID      string            `json:"parcelId"`
	EDIReference  string            `json:"ediReference"`
	Timestamp     time.Time         `json:"timestamp"`
	CorrelationID string            `json:"correlationId,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ApplyTransition moves the parcel identified by ediReference to newStatus
// and appends the matching tracking event. Re-applying the current status
// with identical metadata is a no-op that returns the latest event instead of
// duplicating it.
func (m *Machine) ApplyTransition(ctx context.Context, ediReference string, newStatus Status, meta TransitionMeta) (*repository.TrackingEvent, error) {
	if !IsValid(newStatus) {
		metrics.TransitionsRejectedTotal.Inc()
		return nil, &InvalidTransitionError{From: "", To: newStatus, Reason: "unknown status"}
	}

	tx, err := m.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transition transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	parcel, err := m.parcels.GetByEDIReferenceTx(ctx, tx, ediReference)
	if err != nil {
		return nil, err
	}

	current := Status(parcel.Status)
	if IsTerminal(current) {
		metrics.TransitionsRejectedTotal.Inc()
		return nil, &InvalidTransitionError{ParcelID: parcel.ID, From: current, To: newStatus, Reason: "parcel is in a terminal state"}
	}

	latest, err := m.events.LatestTx(ctx, tx, parcel.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest tracking event: %w", err)
	}

	if current == newStatus && latest != nil && metaMatchesEvent(meta, latest) {
		m.logger.Debug("idempotent transition re-application, no event appended",
			zap.String("parcel_id", parcel.ID),
			zap.String("status", string(newStatus)))
		return latest, nil
	}

	now := m.now()
	ev := m.buildEvent(parcel, newStatus, meta, latest, now)

	parcel.Status = string(newStatus)
	parcel.UpdatedAt = now
	if newStatus == StatusDelivered {
		ts := ev.EventTimestamp
		parcel.ActualDeliveryAt = &ts
	}

	if err := m.parcels.UpdateStatusTx(ctx, tx, parcel); err != nil {
		return nil, fmt.Errorf("failed to update parcel status: %w", err)
	}
	if err := m.events.AppendTx(ctx, tx, ev); err != nil {
		return nil, fmt.Errorf("failed to append tracking event: %w", err)
	}
	if err := m.enqueuePartnerEvent(ctx, tx, parcel, ev); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	metrics.TransitionsTotal.WithLabelValues(string(newStatus)).Inc()
	m.logger.Info("parcel status transition applied",
		zap.String("parcel_id", parcel.ID),
		zap.String("edi_reference", parcel.EDIReference),
		zap.String("from", string(current)),
		zap.String("to", string(newStatus)))

	return ev, nil
}

// Events returns the full tracking history ordered by event time.
func (m *Machine) Events(ctx context.Context, parcelID string) ([]*repository.TrackingEvent, error) {
	return m.events.ListByParcelID(ctx, parcelID)
}

func (m *Machine) buildEvent(parcel *repository.Parcel, newStatus Status, meta TransitionMeta, latest *repository.TrackingEvent, now time.Time) *repository.TrackingEvent {
	ts := meta.EventTimestamp
	additional := meta.AdditionalInfo

	if ts.IsZero() {
		ts = now
	} else if latest != nil && ts.Before(latest.EventTimestamp) {
		// Caller clock ran behind the log. Substitute the current time and
		// keep the original in additional_info so nothing is lost.
		note := fmt.Sprintf("out-of-order: caller timestamp %s replaced", ts.Format(time.RFC3339))
		if additional != nil {
			note = *additional + "; " + note
		}
		additional = &note
		ts = now
	}

	// A future-dated latest event can still be ahead of the substituted time.
	// Event timestamps never decrease, so pin to the latest event instead.
	if latest != nil && ts.Before(latest.EventTimestamp) {
		note := fmt.Sprintf("out-of-order: timestamp pinned to latest event %s", latest.EventTimestamp.Format(time.RFC3339))
		if additional != nil {
			note = *additional + "; " + note
		}
		additional = &note
		ts = latest.EventTimestamp
	}

	return &repository.TrackingEvent{
		ParcelID:       parcel.ID,
		EventType:      string(newStatus),
		Description:    meta.Description,
		EventTimestamp: ts,
		Location:       meta.Location,
		VehicleID:      meta.VehicleID,
		DriverName:     meta.DriverName,
		AdditionalInfo: additional,
		CreatedAt:      now,
	}
}

func (m *Machine) enqueuePartnerEvent(ctx context.Context, tx db.Tx, parcel *repository.Parcel, ev *repository.TrackingEvent) error {
	payload, err := json.Marshal(partnerEvent{
		ID:           fmt.Sprintf("%s-%d", parcel.ID, ev.EventTimestamp.UnixNano()),
		Type:         ev.EventType,
		ParcelID:     parcel.ID,
		EDIReference: parcel.EDIReference,
		Timestamp:    ev.EventTimestamp,
		Metadata:     partnerMetadata(ev),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal partner event: %w", err)
	}

	task := &repository.OutboxTask{
		Topic:   m.partnerTopic,
		Key:     parcel.EDIReference,
		Payload: payload,
	}
	if err := m.outbox.CreateTx(ctx, tx, task); err != nil {
		return fmt.Errorf("failed to enqueue partner event: %w", err)
	}
	return nil
}

func partnerMetadata(ev *repository.TrackingEvent) map[string]string {
	md := map[string]string{}
	if ev.Location != nil {
		md["location"] = *ev.Location
	}
	if ev.VehicleID != nil {
		md["vehicleId"] = *ev.VehicleID
	}
	if ev.DriverName != nil {
		md["driverName"] = *ev.DriverName
	}
	if len(md) == 0 {
		return nil
	}
	return md
}

func metaMatchesEvent(meta TransitionMeta, ev *repository.TrackingEvent) bool {
	return meta.Description == ev.Description &&
		strPtrEqual(meta.Location, ev.Location) &&
		strPtrEqual(meta.VehicleID, ev.VehicleID) &&
		strPtrEqual(meta.DriverName, ev.DriverName) &&
		strPtrEqual(meta.AdditionalInfo, ev.AdditionalInfo)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
