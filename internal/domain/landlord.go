package domain

import "time"

// Landlord is the property owner attached to a tenant. Managed by an
// external system; read-only here.
type Landlord struct {
	ID        string
	Name      string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPhone reports whether a notification number is on file.
func (l *Landlord) HasPhone() bool {
	return l.Phone != nil && *l.Phone != ""
}
