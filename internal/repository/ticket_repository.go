package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AaronAmha/HomeManagement/internal/domain"
)

// TicketFilter captures ops-API search parameters.
type TicketFilter struct {
	TenantID   *string
	LandlordID *string
	Statuses   []domain.TicketStatus
	Emergency  *bool
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// GetLatestByTenant returns the most recently created ticket for a
	// tenant. Creation-time ordering matters: the resolver reuses that
	// ticket only when it is not yet terminal.
	GetLatestByTenant(ctx context.Context, tenantID string) (*domain.Ticket, error)
	// TouchLastMessage stamps ticket freshness after a message append.
	TouchLastMessage(ctx context.Context, id, lastMessage string) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, external_key, tenant_id, landlord_id, unit_id, status, issue_type,
               emergency_flag, risk_level, pending_clarification, pending_clarification_field,
               location_description, last_message, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (external_key, tenant_id, landlord_id, unit_id, status, issue_type,
            emergency_flag, risk_level, pending_clarification, pending_clarification_field,
            location_description, last_message)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ExternalKey,
		ticket.TenantID,
		ticket.LandlordID,
		ticket.UnitID,
		ticket.Status,
		ticket.IssueType,
		ticket.EmergencyFlag,
		ticket.RiskLevel,
		ticket.PendingClarification,
		ticket.PendingClarificationField,
		ticket.LocationDescription,
		ticket.LastMessage,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, issue_type=$2, emergency_flag=$3, risk_level=$4,
            pending_clarification=$5, pending_clarification_field=$6, location_description=$7,
            last_message=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Status,
		ticket.IssueType,
		ticket.EmergencyFlag,
		ticket.RiskLevel,
		ticket.PendingClarification,
		ticket.PendingClarificationField,
		ticket.LocationDescription,
		ticket.LastMessage,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetLatestByTenant(ctx context.Context, tenantID string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + `
        FROM tickets WHERE tenant_id=$1 ORDER BY created_at DESC LIMIT 1`
	return r.fetchSingle(ctx, query, tenantID)
}

func (r *ticketRepository) TouchLastMessage(ctx context.Context, id, lastMessage string) error {
	const query = `UPDATE tickets SET last_message=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, lastMessage, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.ExternalKey,
		&ticket.TenantID,
		&ticket.LandlordID,
		&ticket.UnitID,
		&ticket.Status,
		&ticket.IssueType,
		&ticket.EmergencyFlag,
		&ticket.RiskLevel,
		&ticket.PendingClarification,
		&ticket.PendingClarificationField,
		&ticket.LocationDescription,
		&ticket.LastMessage,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.TenantID != nil {
		args = append(args, *filter.TenantID)
		clauses = append(clauses, fmt.Sprintf("tenant_id=$%d", len(args)))
	}
	if filter.LandlordID != nil {
		args = append(args, *filter.LandlordID)
		clauses = append(clauses, fmt.Sprintf("landlord_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Emergency != nil {
		args = append(args, *filter.Emergency)
		clauses = append(clauses, fmt.Sprintf("emergency_flag=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.ExternalKey,
			&ticket.TenantID,
			&ticket.LandlordID,
			&ticket.UnitID,
			&ticket.Status,
			&ticket.IssueType,
			&ticket.EmergencyFlag,
			&ticket.RiskLevel,
			&ticket.PendingClarification,
			&ticket.PendingClarificationField,
			&ticket.LocationDescription,
			&ticket.LastMessage,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
