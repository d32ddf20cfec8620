package dto

import (
	"time"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// --- Audit DTOs ---

// AuditLogResponse defines data returned for an audit log entry.
type AuditLogResponse struct {
	ID         string         `json:"id"`
	OrgID      string         `json:"org_id"`
	UserID     *string        `json:"user_id"`
	Action     string         `json:"action"`
	TargetType string         `json:"target_type"`
	TargetID   *string        `json:"target_id"`
	Meta       map[string]any `json:"meta,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ToAuditLogResponse converts domain.AuditLog to DTO.
func ToAuditLogResponse(a *domain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         a.AuditID,
		OrgID:      a.OrgID,
		UserID:     a.UserID,
		Action:     a.Action,
		TargetType: a.TargetType,
		TargetID:   a.TargetID,
		Meta:       a.Meta,
		CreatedAt:  a.CreatedAt,
	}
}

// ToListAuditLogsResponse converts a slice of domain.AuditLog to DTOs.
func ToListAuditLogsResponse(logs []domain.AuditLog) []AuditLogResponse {
	list := make([]AuditLogResponse, len(logs))
	for i := range logs {
		list[i] = ToAuditLogResponse(&logs[i])
	}
	return list
}
