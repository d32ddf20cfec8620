package domain

import "time"

// AuditLog records a mutating user action for later review by org admins.
type AuditLog struct {
	AuditID    string         `json:"auditID" db:"audit_id"`
	OrgID      string         `json:"orgID" db:"org_id"`
	UserID     *string        `json:"userID" db:"user_id"`
	Action     string         `json:"action" db:"action"`          // create, update, delete, ...
	TargetType string         `json:"targetType" db:"target_type"` // client, document, run, issue, ...
	TargetID   *string        `json:"targetID" db:"target_id"`
	Meta       map[string]any `json:"meta" db:"meta_json"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
}
