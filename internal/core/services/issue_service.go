package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
)

type issueService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
	runRepo    portsrepo.RunRepositoryFacade
	issueRepo  portsrepo.IssueRepositoryFacade
	audit      portssvc.AuditSvcFacade
}

// NewIssueService creates the issue triage service.
func NewIssueService(clientRepo portsrepo.ClientRepositoryFacade, runRepo portsrepo.RunRepositoryFacade, issueRepo portsrepo.IssueRepositoryFacade, audit portssvc.AuditSvcFacade) portssvc.IssueSvcFacade {
	return &issueService{clientRepo: clientRepo, runRepo: runRepo, issueRepo: issueRepo, audit: audit}
}

var _ portssvc.IssueSvcFacade = (*issueService)(nil)

func (s *issueService) GetIssueByID(ctx context.Context, orgID string, issueID string) (*domain.Issue, error) {
	return s.issueRepo.FindIssueByID(ctx, orgID, issueID)
}

func (s *issueService) ListIssues(ctx context.Context, orgID string, clientID string, filter dto.IssueFilter) ([]domain.Issue, error) {
	if _, err := s.clientRepo.FindClientByID(ctx, orgID, clientID); err != nil {
		return nil, err
	}
	repoFilter := portsrepo.IssueListFilter{
		Severity: domain.IssueSeverity(filter.Severity),
		Category: domain.IssueCategory(filter.Category),
		Status:   domain.IssueStatus(filter.Status),
	}
	return s.issueRepo.ListIssuesByClient(ctx, orgID, clientID, repoFilter)
}

func (s *issueService) ListIssuesByRun(ctx context.Context, orgID string, runID string) ([]domain.Issue, error) {
	if _, err := s.runRepo.FindRunByID(ctx, orgID, runID); err != nil {
		return nil, err
	}
	return s.issueRepo.ListIssuesByRun(ctx, runID)
}

// UpdateIssueStatus applies a triage decision. Requesting the current status
// is an idempotent no-op; a forbidden transition fails.
func (s *issueService) UpdateIssueStatus(ctx context.Context, orgID string, issueID string, next domain.IssueStatus, actorID string) (*domain.Issue, error) {
	if !domain.ValidIssueStatus(next) {
		return nil, apperrors.NewValidationFailedError("unknown issue status " + string(next))
	}

	issue, err := s.issueRepo.FindIssueByID(ctx, orgID, issueID)
	if err != nil {
		return nil, err
	}
	if issue.Status == next {
		return issue, nil
	}
	if !issue.Status.CanTransitionTo(next) {
		return nil, apperrors.NewInvalidTransitionError(string(issue.Status), string(next))
	}

	if err := s.issueRepo.UpdateIssueStatus(ctx, issueID, issue.Status, next); err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			// Lost a race with another reviewer; report the fresh state.
			fresh, findErr := s.issueRepo.FindIssueByID(ctx, orgID, issueID)
			if findErr != nil {
				return nil, findErr
			}
			if fresh.Status == next {
				return fresh, nil
			}
			return nil, apperrors.NewInvalidTransitionError(string(fresh.Status), string(next))
		}
		return nil, err
	}

	issue.Status = next
	s.LogInfo(ctx, "issue status updated", slog.String("issue_id", issueID), slog.String("status", string(next)))
	s.audit.Record(ctx, orgID, &actorID, "update", "issue", &issueID, map[string]any{"status": string(next)})
	return issue, nil
}
