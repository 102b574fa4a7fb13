package domain

import (
	"strings"
	"time"
)

// Tenant is a resident record managed by an external system. The intake
// flow only ever reads tenants; it never creates or mutates them.
type Tenant struct {
	ID          string
	Phone       string
	Name        *string
	FullName    *string
	FirstName   *string
	DisplayName *string
	LandlordID  *string
	UnitID      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayLabel returns the first non-empty name field, falling back to
// "there" so reply templates always have something to address.
func (t *Tenant) DisplayLabel() string {
	for _, candidate := range []*string{t.Name, t.FullName, t.FirstName, t.DisplayName} {
		if candidate == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*candidate); trimmed != "" {
			return trimmed
		}
	}
	return "there"
}
