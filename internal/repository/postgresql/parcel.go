package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"gitlab.com/courexa/edi-gateway/internal/db"
	"gitlab.com/courexa/edi-gateway/internal/repository"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a postgres unique-constraint
// conflict. The registrar relies on this to turn a losing concurrent insert
// into a lookup of the winner's row.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

type ParcelRepo struct {
	db db.DB
}

func NewParcelRepo(db db.DB) *ParcelRepo {
	return &ParcelRepo{db: db}
}

func (r *ParcelRepo) CreateTx(ctx context.Context, tx db.Tx, p *repository.Parcel) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO parcels (
            id, edi_reference, status, priority,
            sender_code, recipient_code,
            pickup_street, pickup_city, pickup_state, pickup_postal, pickup_country,
            delivery_street, delivery_city, delivery_state, delivery_postal, delivery_country,
            description, weight, dimensions,
            estimated_delivery_at, actual_delivery_at,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
    `, p.ID, p.EDIReference, p.Status, p.Priority,
		p.SenderCode, p.RecipientCode,
		p.PickupStreet, p.PickupCity, p.PickupState, p.PickupPostal, p.PickupCountry,
		p.DeliveryStreet, p.DeliveryCity, p.DeliveryState, p.DeliveryPostal, p.DeliveryCountry,
		p.Description, p.Weight, p.Dimensions,
		p.EstimatedDeliveryAt, p.ActualDeliveryAt,
		p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ParcelRepo) GetByEDIReference(ctx context.Context, ediReference string) (*repository.Parcel, error) {
	var p repository.Parcel
	err := r.db.Get(ctx, &p, "SELECT * FROM parcels WHERE edi_reference = $1", ediReference)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrParcelNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByEDIReferenceTx locks the parcel row for the duration of the
// transaction. Transition application is serialized per parcel this way.
func (r *ParcelRepo) GetByEDIReferenceTx(ctx context.Context, tx db.Tx, ediReference string) (*repository.Parcel, error) {
	var p repository.Parcel
	err := tx.Get(ctx, &p, "SELECT * FROM parcels WHERE edi_reference = $1 FOR UPDATE", ediReference)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrParcelNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ParcelRepo) UpdateStatusTx(ctx context.Context, tx db.Tx, p *repository.Parcel) error {
	_, err := tx.Exec(ctx, `
        UPDATE parcels
        SET
            status = $1,
            actual_delivery_at = $2,
            updated_at = $3
        WHERE id = $4
    `, p.Status, p.ActualDeliveryAt, p.UpdatedAt, p.ID)
	return err
}
