package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AaronAmha/HomeManagement/internal/domain"
)

// LandlordRepository provides read access to externally managed landlords.
type LandlordRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Landlord, error)
}

type landlordRepository struct {
	pool *pgxpool.Pool
}

// NewLandlordRepository returns a Postgres-backed implementation.
func NewLandlordRepository(pool *pgxpool.Pool) LandlordRepository {
	return &landlordRepository{pool: pool}
}

func (r *landlordRepository) GetByID(ctx context.Context, id string) (*domain.Landlord, error) {
	const query = `
        SELECT id, name, phone, created_at, updated_at
        FROM landlords WHERE id=$1`
	var landlord domain.Landlord
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&landlord.ID,
		&landlord.Name,
		&landlord.Phone,
		&landlord.CreatedAt,
		&landlord.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &landlord, nil
}
