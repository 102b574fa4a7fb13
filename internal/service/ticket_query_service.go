package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/AaronAmha/HomeManagement/internal/domain"
	"github.com/AaronAmha/HomeManagement/internal/repository"
	apperrors "github.com/AaronAmha/HomeManagement/pkg/util"
)

// TicketQueryService serves the read-only ops API. The intake flow
// never depends on it.
type TicketQueryService struct {
	tickets  repository.TicketRepository
	messages repository.TicketMessageRepository
}

// NewTicketQueryService constructs the service.
func NewTicketQueryService(tickets repository.TicketRepository, messages repository.TicketMessageRepository) *TicketQueryService {
	return &TicketQueryService{tickets: tickets, messages: messages}
}

// ListTickets returns tickets matching the filter, newest first.
func (s *TicketQueryService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, filter)
}

// GetTicket fetches one ticket with its full message thread.
func (s *TicketQueryService) GetTicket(ctx context.Context, id string) (*domain.Ticket, []domain.TicketMessage, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, nil, err
	}
	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, msgs, nil
}
