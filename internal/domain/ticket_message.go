package domain

import "time"

// MessageSenderType indicates who authored a message.
type MessageSenderType string

const (
	SenderTypeTenant   MessageSenderType = "TENANT"
	SenderTypeLandlord MessageSenderType = "LANDLORD"
	SenderTypeSystem   MessageSenderType = "SYSTEM"
)

// MessageDirection tags the transport direction of a message.
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "INBOUND"
	DirectionOutbound MessageDirection = "OUTBOUND"
)

// TicketMessage captures one turn of the conversation on a ticket.
// Rows are append-only; they are never mutated or deleted.
type TicketMessage struct {
	ID         string
	TicketID   string
	SenderType MessageSenderType
	Direction  MessageDirection
	Body       string
	CreatedAt  time.Time
}
