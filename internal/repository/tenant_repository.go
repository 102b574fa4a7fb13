package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AaronAmha/HomeManagement/internal/domain"
)

// TenantRepository provides read access to externally managed tenants.
type TenantRepository interface {
	GetByPhone(ctx context.Context, phone string) (*domain.Tenant, error)
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
}

type tenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository returns a Postgres-backed implementation.
func NewTenantRepository(pool *pgxpool.Pool) TenantRepository {
	return &tenantRepository{pool: pool}
}

const tenantColumns = `id, phone, name, full_name, first_name, display_name, landlord_id, unit_id, created_at, updated_at`

func (r *tenantRepository) GetByPhone(ctx context.Context, phone string) (*domain.Tenant, error) {
	const query = `SELECT ` + tenantColumns + ` FROM tenants WHERE phone=$1 LIMIT 1`
	return r.fetchSingle(ctx, query, phone)
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	const query = `SELECT ` + tenantColumns + ` FROM tenants WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *tenantRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Tenant, error) {
	var tenant domain.Tenant
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&tenant.ID,
		&tenant.Phone,
		&tenant.Name,
		&tenant.FullName,
		&tenant.FirstName,
		&tenant.DisplayName,
		&tenant.LandlordID,
		&tenant.UnitID,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tenant, nil
}
