package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AaronAmha/HomeManagement/internal/domain"
)

// UnknownMessageRepository records inbound texts from unmatched senders.
type UnknownMessageRepository interface {
	Create(ctx context.Context, msg *domain.UnknownMessage) error
}

type unknownMessageRepository struct {
	pool *pgxpool.Pool
}

// NewUnknownMessageRepository builds repository.
func NewUnknownMessageRepository(pool *pgxpool.Pool) UnknownMessageRepository {
	return &unknownMessageRepository{pool: pool}
}

func (r *unknownMessageRepository) Create(ctx context.Context, msg *domain.UnknownMessage) error {
	const query = `
        INSERT INTO unknown_messages (phone, body)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, msg.Phone, msg.Body).Scan(&msg.ID, &msg.CreatedAt)
}
