package domain

import "time"

// Client is a CA firm's customer. Documents, runs, issues and reports all
// hang off a client and inherit its org scoping.
type Client struct {
	ClientID  string    `json:"clientID" db:"client_id"`
	OrgID     string    `json:"orgID" db:"org_id"`
	Name      string    `json:"name" db:"name"`
	GSTIN     *string   `json:"gstin" db:"gstin"` // 15-char GSTIN
	PAN       *string   `json:"pan" db:"pan"`     // 10-char PAN
	FY        *string   `json:"fy" db:"fy"`       // e.g. "2023-24"
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
