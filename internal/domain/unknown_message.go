package domain

import "time"

// UnknownMessage is an inbound text from a phone number no tenant
// record matches. Append-only audit log; never read by the intake flow.
type UnknownMessage struct {
	ID        string
	Phone     string
	Body      string
	CreatedAt time.Time
}
