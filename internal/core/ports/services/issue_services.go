package services

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
)

// IssueReaderSvc defines read operations for issue data
type IssueReaderSvc interface {
	// GetIssueByID retrieves an issue by ID within the caller's org.
	GetIssueByID(ctx context.Context, orgID string, issueID string) (*domain.Issue, error)

	// ListIssues retrieves issues for a client matching the filter.
	ListIssues(ctx context.Context, orgID string, clientID string, filter dto.IssueFilter) ([]domain.Issue, error)

	// ListIssuesByRun retrieves every issue a run produced.
	ListIssuesByRun(ctx context.Context, orgID string, runID string) ([]domain.Issue, error)
}

// IssueTriageSvc defines triage operations on issues
type IssueTriageSvc interface {
	// UpdateIssueStatus moves an issue to the requested triage state.
	// Re-applying the current state succeeds without writing; a transition
	// the state machine forbids fails with an invalid transition error.
	UpdateIssueStatus(ctx context.Context, orgID string, issueID string, next domain.IssueStatus, actorID string) (*domain.Issue, error)
}

// IssueSvcFacade combines all issue-related service interfaces
type IssueSvcFacade interface {
	IssueReaderSvc
	IssueTriageSvc
}
