package repositories

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// ReportReader defines read operations for report data
type ReportReader interface {
	// FindReportByID retrieves a report by ID, scoped to the given org.
	FindReportByID(ctx context.Context, orgID string, reportID string) (*domain.Report, error)

	// FindReportByRunAndType retrieves the report of one type for a run, if
	// it exists.
	FindReportByRunAndType(ctx context.Context, runID string, reportType domain.ReportType) (*domain.Report, error)

	// ListReportsByClient retrieves reports for a client, newest first.
	ListReportsByClient(ctx context.Context, orgID string, clientID string) ([]domain.Report, error)

	// ListReportsByRun retrieves the reports generated for a run.
	ListReportsByRun(ctx context.Context, runID string) ([]domain.Report, error)
}

// ReportWriter defines write operations for report data
type ReportWriter interface {
	// SaveReport persists a new report. The (run, type) pair is unique; a
	// concurrent duplicate insert is dropped and the existing row returned,
	// so generation stays idempotent.
	SaveReport(ctx context.Context, report domain.Report) (*domain.Report, error)
}

// ReportRepositoryFacade combines all report-related repository interfaces
type ReportRepositoryFacade interface {
	ReportReader
	ReportWriter
}
