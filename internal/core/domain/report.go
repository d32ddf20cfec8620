package domain

import "time"

// ReportType identifies the derived document kind.
type ReportType string

const (
	ReportWorkingPapers     ReportType = "working_papers"
	ReportComplianceSummary ReportType = "compliance_summary"
)

// ReportTypes lists every report generated for a completed run, in
// generation order.
var ReportTypes = []ReportType{ReportWorkingPapers, ReportComplianceSummary}

// Report is a derived document generated after a run completes. At most one
// exists per (run, type) pair and it is immutable once created.
type Report struct {
	ReportID      string     `json:"reportID" db:"report_id"`
	ClientID      string     `json:"clientID" db:"client_id"`
	RunID         string     `json:"runID" db:"run_id"`
	Type          ReportType `json:"type" db:"report_type"`
	ContentMD     string     `json:"contentMD" db:"content_md"`
	ContentPDFURL *string    `json:"contentPDFURL" db:"content_pdf_url"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}
