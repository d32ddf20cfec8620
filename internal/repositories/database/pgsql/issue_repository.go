package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
)

type PgxIssueRepository struct {
	BaseRepository
}

func newPgxIssueRepository(db *pgxpool.Pool) portsrepo.IssueRepositoryFacade {
	return &PgxIssueRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxIssueRepository implements portsrepo.IssueRepositoryFacade
var _ portsrepo.IssueRepositoryFacade = (*PgxIssueRepository)(nil)

const issueSelectQuery = `
SELECT
	i.issue_id, i.client_id, i.run_id, i.severity, i.category,
	i.title, i.details_json, i.status, i.created_at
FROM issues i
JOIN clients c ON c.client_id = i.client_id
`

func (r *PgxIssueRepository) getIssues(ctx context.Context, filterQuery string, args ...any) ([]domain.Issue, error) {
	query := issueSelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query issues", err)
	}
	defer rows.Close()
	issues, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Issue])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Issue{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect issue rows", err)
	}
	return issues, nil
}

func (r *PgxIssueRepository) FindIssueByID(ctx context.Context, orgID string, issueID string) (*domain.Issue, error) {
	issues, err := r.getIssues(ctx, `WHERE i.issue_id = $1 AND c.org_id = $2`, issueID, orgID)
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &issues[0], nil
}

func (r *PgxIssueRepository) ListIssuesByClient(ctx context.Context, orgID string, clientID string, filter portsrepo.IssueListFilter) ([]domain.Issue, error) {
	where := `WHERE i.client_id = $1 AND c.org_id = $2`
	args := []any{clientID, orgID}
	if filter.Severity != "" {
		args = append(args, filter.Severity)
		where += fmt.Sprintf(` AND i.severity = $%d`, len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(` AND i.category = $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND i.status = $%d`, len(args))
	}
	where += `
		ORDER BY CASE i.severity WHEN 'high' THEN 0 WHEN 'med' THEN 1 ELSE 2 END,
			i.created_at DESC`
	return r.getIssues(ctx, where, args...)
}

func (r *PgxIssueRepository) ListIssuesByRun(ctx context.Context, runID string) ([]domain.Issue, error) {
	return r.getIssues(ctx, `WHERE i.run_id = $1 ORDER BY i.created_at ASC, i.issue_id ASC`, runID)
}

func (r *PgxIssueRepository) SaveIssues(ctx context.Context, issues []domain.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO issues (
			issue_id, client_id, run_id, severity, category,
			title, details_json, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, issue := range issues {
		batch.Queue(query,
			issue.IssueID,
			issue.ClientID,
			issue.RunID,
			issue.Severity,
			issue.Category,
			issue.Title,
			issue.Details,
			issue.Status,
			issue.CreatedAt,
		)
	}
	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute issue insert batch", err)
	}
	return nil
}

// UpdateIssueStatus performs a guarded triage transition; the WHERE clause on
// the expected current status rejects stale writers.
func (r *PgxIssueRepository) UpdateIssueStatus(ctx context.Context, issueID string, from, to domain.IssueStatus) error {
	query := `
		UPDATE issues
		SET status = $3
		WHERE issue_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, issueID, from, to)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update issue status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}
