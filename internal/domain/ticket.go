package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. The intake flow
// only distinguishes terminal from non-terminal: anything other than
// COMPLETED or CLOSED is reusable for new inbound messages.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusCompleted  TicketStatus = "COMPLETED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// IsTerminal reports whether a ticket in this status can no longer
// absorb inbound messages.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusCompleted || s == TicketStatusClosed
}

// Ticket is the aggregate for one tenant maintenance issue.
type Ticket struct {
	ID                        string
	ExternalKey               string
	TenantID                  string
	LandlordID                *string
	UnitID                    *string
	Status                    TicketStatus
	IssueType                 *IssueType
	EmergencyFlag             bool
	RiskLevel                 *RiskLevel
	PendingClarification      bool
	PendingClarificationField *ClarificationField
	LocationDescription       *string
	LastMessage               *string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}
