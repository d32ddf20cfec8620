package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	"github.com/ledgerly/ledgerly_backend/internal/core/ports"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/utils/pdfgen"
	"github.com/ledgerly/ledgerly_backend/internal/utils/recon"
)

// pdfURLExpiry is how long a presigned report download link stays valid.
const pdfURLExpiry = 15 * time.Minute

type reportService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
	runRepo    portsrepo.RunRepositoryFacade
	issueRepo  portsrepo.IssueRepositoryFacade
	txnRepo    portsrepo.TransactionRepositoryFacade
	gstRepo    portsrepo.GSTSummaryRepositoryFacade
	reportRepo portsrepo.ReportRepositoryFacade
	store      ports.ObjectStore
	audit      portssvc.AuditSvcFacade
}

// NewReportService creates the report generation service.
func NewReportService(
	clientRepo portsrepo.ClientRepositoryFacade,
	runRepo portsrepo.RunRepositoryFacade,
	issueRepo portsrepo.IssueRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	gstRepo portsrepo.GSTSummaryRepositoryFacade,
	reportRepo portsrepo.ReportRepositoryFacade,
	store ports.ObjectStore,
	audit portssvc.AuditSvcFacade,
) portssvc.ReportSvcFacade {
	return &reportService{
		clientRepo: clientRepo,
		runRepo:    runRepo,
		issueRepo:  issueRepo,
		txnRepo:    txnRepo,
		gstRepo:    gstRepo,
		reportRepo: reportRepo,
		store:      store,
		audit:      audit,
	}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

func (s *reportService) GetReportByID(ctx context.Context, orgID string, reportID string) (*domain.Report, error) {
	return s.reportRepo.FindReportByID(ctx, orgID, reportID)
}

func (s *reportService) ListReports(ctx context.Context, orgID string, clientID string) ([]domain.Report, error) {
	if _, err := s.clientRepo.FindClientByID(ctx, orgID, clientID); err != nil {
		return nil, err
	}
	return s.reportRepo.ListReportsByClient(ctx, orgID, clientID)
}

func (s *reportService) ListReportsByRun(ctx context.Context, orgID string, runID string) ([]domain.Report, error) {
	if _, err := s.runRepo.FindRunByID(ctx, orgID, runID); err != nil {
		return nil, err
	}
	return s.reportRepo.ListReportsByRun(ctx, runID)
}

// GetReportPDFURL presigns a short-lived download link for the rendered PDF.
func (s *reportService) GetReportPDFURL(ctx context.Context, orgID string, reportID string) (string, error) {
	report, err := s.reportRepo.FindReportByID(ctx, orgID, reportID)
	if err != nil {
		return "", err
	}
	if report.ContentPDFURL == nil {
		return "", apperrors.NewPreconditionFailedError("report has no rendered PDF")
	}
	filename := fmt.Sprintf("%s-%s.pdf", report.Type, report.RunID)
	return s.store.PresignedGetURL(ctx, *report.ContentPDFURL, filename, pdfURLExpiry)
}

// GenerateReport produces one report for a completed run. A report that
// already exists is returned unchanged, so repeated requests are cheap and
// race-safe.
func (s *reportService) GenerateReport(ctx context.Context, orgID string, runID string, reportType domain.ReportType, actorID string) (*domain.Report, error) {
	run, err := s.runRepo.FindRunByID(ctx, orgID, runID)
	if err != nil {
		return nil, err
	}
	if run.Status != domain.RunStatusCompleted {
		return nil, apperrors.NewPreconditionFailedError("reports require a completed run")
	}

	client, err := s.clientRepo.FindClientByID(ctx, orgID, run.ClientID)
	if err != nil {
		return nil, err
	}

	return s.generate(ctx, client, run, reportType, &actorID)
}

// GenerateRunReports builds every report type for a run that just completed.
// The run worker calls this; the run's own status is never touched here.
func (s *reportService) GenerateRunReports(ctx context.Context, runID string) error {
	run, err := s.runRepo.FindRun(ctx, runID)
	if err != nil {
		return err
	}
	if run.Status != domain.RunStatusCompleted {
		// The worker also lands here after failed or skipped runs.
		s.LogInfo(ctx, "skipping report generation for non-completed run",
			slog.String("run_id", runID), slog.String("status", string(run.Status)))
		return nil
	}
	client, err := s.clientRepo.FindClient(ctx, run.ClientID)
	if err != nil {
		return err
	}

	var firstErr error
	for _, reportType := range []domain.ReportType{domain.ReportWorkingPapers, domain.ReportComplianceSummary} {
		if _, err := s.generate(ctx, client, run, reportType, nil); err != nil {
			s.LogError(ctx, err, "failed to generate run report",
				slog.String("run_id", runID), slog.String("report_type", string(reportType)))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// generate builds and persists one report. An existing report of the same
// type is returned unchanged. A nil actorID means the system generated the
// report.
func (s *reportService) generate(ctx context.Context, client *domain.Client, run *domain.Run, reportType domain.ReportType, actorID *string) (*domain.Report, error) {
	if existing, err := s.reportRepo.FindReportByRunAndType(ctx, run.RunID, reportType); err == nil {
		return existing, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	var contentMD string
	var err error
	switch reportType {
	case domain.ReportWorkingPapers:
		contentMD, err = s.buildWorkingPapers(ctx, client, run, now)
	case domain.ReportComplianceSummary:
		contentMD, err = s.buildComplianceSummary(ctx, client, run, now)
	default:
		return nil, apperrors.NewValidationFailedError("unknown report type " + string(reportType))
	}
	if err != nil {
		return nil, apperrors.NewGenerationFailedError("report generation failed", err)
	}

	report := domain.Report{
		ReportID:  uuid.NewString(),
		ClientID:  run.ClientID,
		RunID:     run.RunID,
		Type:      reportType,
		ContentMD: contentMD,
		CreatedAt: now,
	}

	// A PDF rendering failure degrades the report to markdown only; it does
	// not fail generation.
	if pdfKey, pdfErr := s.renderPDF(ctx, &report); pdfErr != nil {
		s.LogError(ctx, pdfErr, "failed to render report pdf", slog.String("run_id", run.RunID), slog.String("report_type", string(reportType)))
	} else {
		report.ContentPDFURL = &pdfKey
	}

	saved, err := s.reportRepo.SaveReport(ctx, report)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "generated report", slog.String("report_id", saved.ReportID), slog.String("report_type", string(reportType)))
	s.audit.Record(ctx, client.OrgID, actorID, "create", "report", &saved.ReportID, map[string]any{"type": string(reportType), "run_id": run.RunID})
	return saved, nil
}

// buildWorkingPapers re-runs the matcher over the persisted transactions.
// Matching is deterministic, so the tables agree with the run's metrics.
func (s *reportService) buildWorkingPapers(ctx context.Context, client *domain.Client, run *domain.Run, now time.Time) (string, error) {
	bank, err := s.txnRepo.FindTransactionsByClient(ctx, run.ClientID, domain.SourceBank)
	if err != nil {
		return "", err
	}
	invoices, err := s.txnRepo.FindTransactionsByClient(ctx, run.ClientID, domain.SourceInvoice)
	if err != nil {
		return "", err
	}
	gstSummaries, err := s.gstRepo.FindGSTSummariesByClient(ctx, run.ClientID)
	if err != nil {
		return "", err
	}
	result := recon.MatchTransactions(bank, invoices)
	return recon.BuildWorkingPapers(client, run, result, bank, invoices, gstSummaries, now), nil
}

func (s *reportService) buildComplianceSummary(ctx context.Context, client *domain.Client, run *domain.Run, now time.Time) (string, error) {
	issues, err := s.issueRepo.ListIssuesByRun(ctx, run.RunID)
	if err != nil {
		return "", err
	}
	return recon.BuildComplianceSummary(client, run, issues, now), nil
}

func (s *reportService) renderPDF(ctx context.Context, report *domain.Report) (string, error) {
	pdfBytes, err := pdfgen.RenderMarkdown(report.ContentMD)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("reports/%s/%s/%s.pdf", report.ClientID, report.RunID, report.Type)
	if err := s.store.Put(ctx, key, bytes.NewReader(pdfBytes), int64(len(pdfBytes)), "application/pdf"); err != nil {
		return "", err
	}
	return key, nil
}
