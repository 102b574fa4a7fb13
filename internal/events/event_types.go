package events

import (
	"time"

	"github.com/AaronAmha/HomeManagement/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventTicketTriaged    EventType = "ticket_triaged"
	EventMessageLogged    EventType = "message_logged"
	EventLandlordNotified EventType = "landlord_notified"
	EventUnknownSender    EventType = "unknown_sender"
)

// Event represents a domain event emitted by the intake flow.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	TenantID  string      `json:"tenant_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ExternalKey string  `json:"external_key"`
	LandlordID  *string `json:"landlord_id,omitempty"`
	UnitID      *string `json:"unit_id,omitempty"`
}

// TicketTriagedPayload payload.
type TicketTriagedPayload struct {
	IssueType          domain.IssueType `json:"issue_type"`
	Emergency          bool             `json:"emergency"`
	RiskLevel          domain.RiskLevel `json:"risk_level"`
	NeedsClarification bool             `json:"needs_clarification"`
	Fallback           bool             `json:"fallback"`
}

// MessageLoggedPayload payload.
type MessageLoggedPayload struct {
	MessageID   string                   `json:"message_id"`
	SenderType  domain.MessageSenderType `json:"sender_type"`
	Direction   domain.MessageDirection  `json:"direction"`
	BodyPreview string                   `json:"body_preview"`
}

// LandlordNotifiedPayload payload.
type LandlordNotifiedPayload struct {
	LandlordID string `json:"landlord_id"`
	Emergency  bool   `json:"emergency"`
}

// UnknownSenderPayload payload.
type UnknownSenderPayload struct {
	Phone string `json:"phone"`
}
