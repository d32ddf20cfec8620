package services

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// ReportReaderSvc defines read operations for report data
type ReportReaderSvc interface {
	// GetReportByID retrieves a report by ID within the caller's org.
	GetReportByID(ctx context.Context, orgID string, reportID string) (*domain.Report, error)

	// ListReports retrieves all reports for a client, newest first.
	ListReports(ctx context.Context, orgID string, clientID string) ([]domain.Report, error)

	// ListReportsByRun retrieves the reports generated for a run.
	ListReportsByRun(ctx context.Context, orgID string, runID string) ([]domain.Report, error)

	// GetReportPDFURL returns a short-lived download URL for the rendered
	// PDF of a report.
	GetReportPDFURL(ctx context.Context, orgID string, reportID string) (string, error)
}

// ReportGeneratorSvc defines report generation operations
type ReportGeneratorSvc interface {
	// GenerateReport produces the report of the given type for a completed
	// run. Generation is idempotent: if the report already exists it is
	// returned as is.
	GenerateReport(ctx context.Context, orgID string, runID string, reportType domain.ReportType, actorID string) (*domain.Report, error)

	// GenerateRunReports produces every report type for a completed run.
	// Called by the run worker after the run reaches completed; a failure
	// here never touches the run's own status.
	GenerateRunReports(ctx context.Context, runID string) error
}

// ReportSvcFacade combines all report-related service interfaces
type ReportSvcFacade interface {
	ReportReaderSvc
	ReportGeneratorSvc
}
