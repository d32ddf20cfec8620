package dto

import (
	"time"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// --- Report DTOs ---

// GenerateReportRequest selects which report to build for a completed run.
type GenerateReportRequest struct {
	Type string `json:"type" binding:"required,oneof=working_papers compliance_summary"`
}

// ReportPDFURLResponse carries a short-lived download URL for a rendered PDF.
type ReportPDFURLResponse struct {
	URL string `json:"url"`
}

// ReportResponse defines data returned for a generated report.
type ReportResponse struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"client_id"`
	RunID         string    `json:"run_id"`
	Type          string    `json:"type"`
	ContentMD     string    `json:"content_md"`
	ContentPDFURL *string   `json:"content_pdf_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToReportResponse converts domain.Report to DTO.
func ToReportResponse(r *domain.Report) ReportResponse {
	return ReportResponse{
		ID:            r.ReportID,
		ClientID:      r.ClientID,
		RunID:         r.RunID,
		Type:          string(r.Type),
		ContentMD:     r.ContentMD,
		ContentPDFURL: r.ContentPDFURL,
		CreatedAt:     r.CreatedAt,
	}
}

// ToListReportsResponse converts a slice of domain.Report to DTOs.
func ToListReportsResponse(reports []domain.Report) []ReportResponse {
	list := make([]ReportResponse, len(reports))
	for i := range reports {
		list[i] = ToReportResponse(&reports[i])
	}
	return list
}
