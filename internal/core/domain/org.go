package domain

import "time"

// Org is the tenant boundary. Every other entity resolves to exactly one org,
// directly or transitively through its client.
type Org struct {
	OrgID     string    `json:"orgID" db:"org_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
