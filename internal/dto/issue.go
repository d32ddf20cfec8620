package dto

import (
	"time"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// --- Issue DTOs ---

// IssueResponse defines data returned for an issue.
type IssueResponse struct {
	ID          string         `json:"id"`
	ClientID    string         `json:"client_id"`
	RunID       string         `json:"run_id"`
	Severity    string         `json:"severity"`
	Category    string         `json:"category"`
	Title       string         `json:"title"`
	DetailsJSON map[string]any `json:"details_json"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ToIssueResponse converts domain.Issue to DTO.
func ToIssueResponse(i *domain.Issue) IssueResponse {
	return IssueResponse{
		ID:          i.IssueID,
		ClientID:    i.ClientID,
		RunID:       i.RunID,
		Severity:    string(i.Severity),
		Category:    string(i.Category),
		Title:       i.Title,
		DetailsJSON: i.Details,
		Status:      string(i.Status),
		CreatedAt:   i.CreatedAt,
	}
}

// ToListIssuesResponse converts a slice of domain.Issue to DTOs.
func ToListIssuesResponse(issues []domain.Issue) []IssueResponse {
	list := make([]IssueResponse, len(issues))
	for i := range issues {
		list[i] = ToIssueResponse(&issues[i])
	}
	return list
}

// UpdateIssueStatusRequest is the PATCH body for issue triage.
type UpdateIssueStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open accepted resolved"`
}

// IssueFilter narrows client-scoped issue listings.
type IssueFilter struct {
	Severity string `form:"severity" binding:"omitempty,oneof=low med high"`
	Category string `form:"category" binding:"omitempty,oneof=missing_invoice duplicate mismatch gst_mismatch other"`
	Status   string `form:"status" binding:"omitempty,oneof=open accepted resolved"`
}
