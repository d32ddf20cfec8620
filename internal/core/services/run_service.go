package services

import (
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
	"github.com/ledgerly/ledgerly_backend/internal/utils/recon"
)

// runLockTTL bounds how long a single run claim may execute.
const runLockTTL = 15 * time.Minute

type runService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
	docRepo    portsrepo.DocumentRepositoryFacade
	runRepo    portsrepo.RunRepositoryFacade
	txnRepo    portsrepo.TransactionRepositoryFacade
	gstRepo    portsrepo.GSTSummaryRepositoryFacade
	issueRepo  portsrepo.IssueRepositoryFacade
	locks      ports.Locker
	queue      portssvc.TaskEnqueuer
	audit      portssvc.AuditSvcFacade
}

// NewRunService creates the reconciliation run service.
func NewRunService(
	clientRepo portsrepo.ClientRepositoryFacade,
	docRepo portsrepo.DocumentRepositoryFacade,
	runRepo portsrepo.RunRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	gstRepo portsrepo.GSTSummaryRepositoryFacade,
	issueRepo portsrepo.IssueRepositoryFacade,
	locks ports.Locker,
	queue portssvc.TaskEnqueuer,
	audit portssvc.AuditSvcFacade,
) portssvc.RunSvcFacade {
	return &runService{
		clientRepo: clientRepo,
		docRepo:    docRepo,
		runRepo:    runRepo,
		txnRepo:    txnRepo,
		gstRepo:    gstRepo,
		issueRepo:  issueRepo,
		locks:      locks,
		queue:      queue,
		audit:      audit,
	}
}

var _ portssvc.RunSvcFacade = (*runService)(nil)

// CreateRun starts a reconciliation run for a client. The client needs at
// least one uploaded document and no run already in flight.
func (s *runService) CreateRun(ctx context.Context, orgID string, clientID string, actorID string) (*domain.Run, error) {
	if _, err := s.clientRepo.FindClientByID(ctx, orgID, clientID); err != nil {
		return nil, err
	}

	docCount, err := s.docRepo.CountDocumentsByClient(ctx, orgID, clientID)
	if err != nil {
		return nil, err
	}
	if docCount == 0 {
		return nil, apperrors.NewPreconditionFailedError("client has no documents to reconcile")
	}

	active, err := s.runRepo.HasActiveRun(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperrors.NewConflictError("a reconciliation run is already in flight for this client")
	}

	run := domain.Run{
		RunID:     uuid.NewString(),
		ClientID:  clientID,
		Status:    domain.RunStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.runRepo.SaveRun(ctx, run); err != nil {
		return nil, err
	}
	if err := s.queue.EnqueueRun(run.RunID); err != nil {
		// The run stays pending; a failed worker claim or an operator can
		// retry it. Surface the overload to the caller.
		s.LogError(ctx, err, "failed to enqueue run", slog.String("run_id", run.RunID))
		return nil, apperrors.NewAppError(503, "run queue is full, retry later", err)
	}

	s.LogInfo(ctx, "created run", slog.String("run_id", run.RunID), slog.String("client_id", clientID))
	s.audit.Record(ctx, orgID, &actorID, "create", "run", &run.RunID, nil)
	return &run, nil
}

func (s *runService) GetRunByID(ctx context.Context, orgID string, runID string) (*domain.Run, error) {
	return s.runRepo.FindRunByID(ctx, orgID, runID)
}

func (s *runService) ListRuns(ctx context.Context, orgID string, clientID string) ([]domain.Run, error) {
	if _, err := s.clientRepo.FindClientByID(ctx, orgID, clientID); err != nil {
		return nil, err
	}
	return s.runRepo.ListRunsByClient(ctx, orgID, clientID)
}

// ExecuteRun claims and executes one run. Failures after the claim mark the
// run failed rather than bubbling up; the job itself has succeeded at
// recording the outcome.
func (s *runService) ExecuteRun(ctx context.Context, runID string) error {
	lock, err := s.locks.Obtain(ctx, "recon:run:"+runID, runLockTTL)
	if err != nil {
		if errors.Is(err, ports.ErrLockNotObtained) {
			s.LogInfo(ctx, "run already executing elsewhere", slog.String("run_id", runID))
			return nil
		}
		return fmt.Errorf("failed to obtain run lock: %w", err)
	}
	defer lock.Release(context.WithoutCancel(ctx))

	run, err := s.runRepo.FindRun(ctx, runID)
	if err != nil {
		return err
	}
	if err := s.runRepo.MarkRunRunning(ctx, runID); err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			s.LogInfo(ctx, "run no longer pending, skipping", slog.String("run_id", runID), slog.String("status", string(run.Status)))
			return nil
		}
		return err
	}

	metrics, execErr := s.reconcile(ctx, run)
	if execErr != nil {
		s.LogError(ctx, execErr, "run execution failed", slog.String("run_id", runID))
		if err := s.runRepo.MarkRunFailed(ctx, runID, execErr.Error()); err != nil {
			s.LogError(ctx, err, "failed to mark run failed", slog.String("run_id", runID))
		}
		return nil
	}

	if err := s.runRepo.MarkRunCompleted(ctx, runID, *metrics); err != nil {
		s.LogError(ctx, err, "failed to mark run completed", slog.String("run_id", runID))
		return err
	}
	s.LogInfo(ctx, "run completed",
		slog.String("run_id", runID),
		slog.Int("matched", metrics.MatchedCount),
		slog.Int("issues", metrics.IssuesCount))
	return nil
}

func (s *runService) reconcile(ctx context.Context, run *domain.Run) (*domain.RunMetrics, error) {
	bank, err := s.txnRepo.FindTransactionsByClient(ctx, run.ClientID, domain.SourceBank)
	if err != nil {
		return nil, err
	}
	invoices, err := s.txnRepo.FindTransactionsByClient(ctx, run.ClientID, domain.SourceInvoice)
	if err != nil {
		return nil, err
	}
	gstSummaries, err := s.gstRepo.FindGSTSummariesByClient(ctx, run.ClientID)
	if err != nil {
		return nil, err
	}

	result := recon.MatchTransactions(bank, invoices)
	findings := recon.DetectIssues(result, bank, invoices, gstSummaries)

	now := time.Now()
	issues := make([]domain.Issue, len(findings))
	for i, finding := range findings {
		issues[i] = domain.Issue{
			IssueID:   uuid.NewString(),
			ClientID:  run.ClientID,
			RunID:     run.RunID,
			Severity:  finding.Severity,
			Category:  finding.Category,
			Title:     finding.Title,
			Details:   finding.Details,
			Status:    domain.IssueStatusOpen,
			CreatedAt: now,
		}
	}
	if err := s.issueRepo.SaveIssues(ctx, issues); err != nil {
		return nil, err
	}

	metrics := recon.BuildMetrics(result, bank, invoices, len(issues))
	return &metrics, nil
}
