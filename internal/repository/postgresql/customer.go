package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"gitlab.com/courexa/edi-gateway/internal/db"
	"gitlab.com/courexa/edi-gateway/internal/repository"
)

type CustomerRepo struct {
	db db.DB
}

func NewCustomerRepo(db db.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

// UpsertTx writes the customer keyed by code, refreshing contact details on
// repeat submissions.
func (r *CustomerRepo) UpsertTx(ctx context.Context, tx db.Tx, c *repository.Customer) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO customers (code, name, email, phone, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (code) DO UPDATE
        SET name = EXCLUDED.name,
            email = EXCLUDED.email,
            phone = EXCLUDED.phone,
            updated_at = EXCLUDED.updated_at
    `, c.Code, c.Name, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *CustomerRepo) GetByCode(ctx context.Context, code string) (*repository.Customer, error) {
	var c repository.Customer
	err := r.db.Get(ctx, &c, "SELECT * FROM customers WHERE code = $1", code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}
