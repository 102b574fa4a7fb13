package dto

import (
	"time"

	"github.com/AaronAmha/HomeManagement/internal/domain"
)

// TicketSummary response.
type TicketSummary struct {
	ID                   string              `json:"id"`
	ExternalKey          string              `json:"external_key"`
	TenantID             string              `json:"tenant_id"`
	LandlordID           *string             `json:"landlord_id,omitempty"`
	UnitID               *string             `json:"unit_id,omitempty"`
	Status               domain.TicketStatus `json:"status"`
	IssueType            *domain.IssueType   `json:"issue_type"`
	EmergencyFlag        bool                `json:"emergency_flag"`
	RiskLevel            *domain.RiskLevel   `json:"risk_level,omitempty"`
	PendingClarification bool                `json:"pending_clarification"`
	LastMessage          *string             `json:"last_message,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// TicketMessageResponse represents one thread message.
type TicketMessageResponse struct {
	ID         string                   `json:"id"`
	SenderType domain.MessageSenderType `json:"sender_type"`
	Direction  domain.MessageDirection  `json:"direction"`
	Body       string                   `json:"body"`
	CreatedAt  time.Time                `json:"created_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	PendingClarificationField *domain.ClarificationField `json:"pending_clarification_field,omitempty"`
	LocationDescription       *string                    `json:"location_description,omitempty"`
	Messages                  []TicketMessageResponse    `json:"messages"`
}

// NewTicketSummary maps a domain ticket.
func NewTicketSummary(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:                   t.ID,
		ExternalKey:          t.ExternalKey,
		TenantID:             t.TenantID,
		LandlordID:           t.LandlordID,
		UnitID:               t.UnitID,
		Status:               t.Status,
		IssueType:            t.IssueType,
		EmergencyFlag:        t.EmergencyFlag,
		RiskLevel:            t.RiskLevel,
		PendingClarification: t.PendingClarification,
		LastMessage:          t.LastMessage,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

// NewTicketDetail maps a domain ticket with its thread.
func NewTicketDetail(t *domain.Ticket, msgs []domain.TicketMessage) TicketDetailResponse {
	detail := TicketDetailResponse{
		TicketSummary:             NewTicketSummary(t),
		PendingClarificationField: t.PendingClarificationField,
		LocationDescription:       t.LocationDescription,
		Messages:                  make([]TicketMessageResponse, 0, len(msgs)),
	}
	for _, msg := range msgs {
		detail.Messages = append(detail.Messages, TicketMessageResponse{
			ID:         msg.ID,
			SenderType: msg.SenderType,
			Direction:  msg.Direction,
			Body:       msg.Body,
			CreatedAt:  msg.CreatedAt,
		})
	}
	return detail
}
