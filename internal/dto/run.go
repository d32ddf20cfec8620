package dto

import (
	"time"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// --- Run DTOs ---

// RunResponse defines data returned for a reconciliation run. The dashboard
// polls this; metrics_json is null until the run resolves.
type RunResponse struct {
	ID           string             `json:"id"`
	ClientID     string             `json:"client_id"`
	Status       string             `json:"status"`
	StartedAt    *time.Time         `json:"started_at"`
	EndedAt      *time.Time         `json:"ended_at"`
	MetricsJSON  *domain.RunMetrics `json:"metrics_json"`
	ErrorMessage *string            `json:"error_message,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ToRunResponse converts domain.Run to DTO.
func ToRunResponse(r *domain.Run) RunResponse {
	return RunResponse{
		ID:           r.RunID,
		ClientID:     r.ClientID,
		Status:       string(r.Status),
		StartedAt:    r.StartedAt,
		EndedAt:      r.EndedAt,
		MetricsJSON:  r.Metrics,
		ErrorMessage: r.ErrorMessage,
		CreatedAt:    r.CreatedAt,
	}
}

// ToListRunsResponse converts a slice of domain.Run to DTOs.
func ToListRunsResponse(runs []domain.Run) []RunResponse {
	list := make([]RunResponse, len(runs))
	for i := range runs {
		list[i] = ToRunResponse(&runs[i])
	}
	return list
}
