package repositories

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// IssueListFilter narrows issue listings. Zero-value fields are ignored.
type IssueListFilter struct {
	Severity domain.IssueSeverity
	Category domain.IssueCategory
	Status   domain.IssueStatus
}

// IssueReader defines read operations for issue data
type IssueReader interface {
	// FindIssueByID retrieves an issue by ID, scoped to the given org.
	FindIssueByID(ctx context.Context, orgID string, issueID string) (*domain.Issue, error)

	// ListIssuesByClient retrieves issues for a client matching the filter,
	// highest severity first, then newest first.
	ListIssuesByClient(ctx context.Context, orgID string, clientID string, filter IssueListFilter) ([]domain.Issue, error)

	// ListIssuesByRun retrieves every issue a run produced.
	ListIssuesByRun(ctx context.Context, runID string) ([]domain.Issue, error)
}

// IssueWriter defines write operations for issue data
type IssueWriter interface {
	// SaveIssues bulk-inserts the issues detected by one run.
	SaveIssues(ctx context.Context, issues []domain.Issue) error

	// UpdateIssueStatus moves an issue from one triage state to another.
	// The update is guarded on the expected current state; it returns
	// apperrors.ErrInvalidTransition when the row is not in it.
	UpdateIssueStatus(ctx context.Context, issueID string, from, to domain.IssueStatus) error
}

// IssueRepositoryFacade combines all issue-related repository interfaces
type IssueRepositoryFacade interface {
	IssueReader
	IssueWriter
}
