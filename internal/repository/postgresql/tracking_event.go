package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"gitlab.com/courexa/edi-gateway/internal/db"
	"gitlab.com/courexa/edi-gateway/internal/repository"
)

type TrackingEventRepo struct {
	db db.DB
}

func NewTrackingEventRepo(db db.DB) *TrackingEventRepo {
	return &TrackingEventRepo{db: db}
}

// AppendTx inserts a new tracking event. There is deliberately no update or
// delete counterpart: the event log is append-only.
func (r *TrackingEventRepo) AppendTx(ctx context.Context, tx db.Tx, ev *repository.TrackingEvent) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO tracking_events (
            parcel_id, event_type, description, event_timestamp,
            location, vehicle_id, driver_name, additional_info, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, ev.ParcelID, ev.EventType, ev.Description, ev.EventTimestamp,
		ev.Location, ev.VehicleID, ev.DriverName, ev.AdditionalInfo, ev.CreatedAt)
	return err
}

func (r *TrackingEventRepo) ListByParcelID(ctx context.Context, parcelID string) ([]*repository.TrackingEvent, error) {
	var events []*repository.TrackingEvent
	err := r.db.Select(ctx, &events, `
        SELECT * FROM tracking_events
        WHERE parcel_id = $1
        ORDER BY event_timestamp ASC, id ASC
    `, parcelID)
	return events, err
}

// LatestTx returns the newest event for a parcel, or nil when the parcel has
// no events yet.
func (r *TrackingEventRepo) LatestTx(ctx context.Context, tx db.Tx, parcelID string) (*repository.TrackingEvent, error) {
	var ev repository.TrackingEvent
	err := tx.Get(ctx, &ev, `
        SELECT * FROM tracking_events
        WHERE parcel_id = $1
        ORDER BY event_timestamp DESC, id DESC
        LIMIT 1
    `, parcelID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}
