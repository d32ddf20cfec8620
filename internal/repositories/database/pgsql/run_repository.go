package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
)

type PgxRunRepository struct {
	BaseRepository
}

func newPgxRunRepository(db *pgxpool.Pool) portsrepo.RunRepositoryFacade {
	return &PgxRunRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxRunRepository implements portsrepo.RunRepositoryFacade
var _ portsrepo.RunRepositoryFacade = (*PgxRunRepository)(nil)

// Org scoping joins through clients; runs do not carry an org_id column.
const runSelectQuery = `
SELECT
	r.run_id, r.client_id, r.status, r.started_at, r.ended_at,
	r.metrics_json, r.error_message, r.created_at
FROM reconciliation_runs r
JOIN clients c ON c.client_id = r.client_id
`

func (r *PgxRunRepository) getRuns(ctx context.Context, filterQuery string, args ...any) ([]domain.Run, error) {
	query := runSelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query runs", err)
	}
	defer rows.Close()
	runs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Run])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Run{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect run rows", err)
	}
	return runs, nil
}

func (r *PgxRunRepository) FindRunByID(ctx context.Context, orgID string, runID string) (*domain.Run, error) {
	runs, err := r.getRuns(ctx, `WHERE r.run_id = $1 AND c.org_id = $2`, runID, orgID)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &runs[0], nil
}

func (r *PgxRunRepository) FindRun(ctx context.Context, runID string) (*domain.Run, error) {
	runs, err := r.getRuns(ctx, `WHERE r.run_id = $1`, runID)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &runs[0], nil
}

func (r *PgxRunRepository) ListRunsByClient(ctx context.Context, orgID string, clientID string) ([]domain.Run, error) {
	return r.getRuns(ctx, `WHERE r.client_id = $1 AND c.org_id = $2 ORDER BY r.created_at DESC`, clientID, orgID)
}

func (r *PgxRunRepository) HasActiveRun(ctx context.Context, clientID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reconciliation_runs
			WHERE client_id = $1 AND status IN ('pending', 'running')
		);
	`
	var active bool
	if err := r.Pool.QueryRow(ctx, query, clientID).Scan(&active); err != nil {
		return false, apperrors.NewAppError(500, "failed to check active runs", err)
	}
	return active, nil
}

func (r *PgxRunRepository) SaveRun(ctx context.Context, run domain.Run) error {
	query := `
		INSERT INTO reconciliation_runs (run_id, client_id, status, created_at)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := r.Pool.Exec(ctx, query, run.RunID, run.ClientID, run.Status, run.CreatedAt); err != nil {
		return apperrors.NewAppError(500, "failed to save run "+run.RunID, err)
	}
	return nil
}

// MarkRunRunning claims a pending run. The status guard in the WHERE clause
// means at most one of any number of competing workers succeeds; losers see
// ErrInvalidTransition. started_at is written here and never again.
func (r *PgxRunRepository) MarkRunRunning(ctx context.Context, runID string) error {
	query := `
		UPDATE reconciliation_runs
		SET status = 'running', started_at = now()
		WHERE run_id = $1 AND status = 'pending';
	`
	tag, err := r.Pool.Exec(ctx, query, runID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark run running", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

func (r *PgxRunRepository) MarkRunCompleted(ctx context.Context, runID string, metrics domain.RunMetrics) error {
	query := `
		UPDATE reconciliation_runs
		SET status = 'completed', ended_at = now(), metrics_json = $2
		WHERE run_id = $1 AND status = 'running';
	`
	tag, err := r.Pool.Exec(ctx, query, runID, metrics)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark run completed", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

func (r *PgxRunRepository) MarkRunFailed(ctx context.Context, runID string, errorMessage string) error {
	query := `
		UPDATE reconciliation_runs
		SET status = 'failed', ended_at = now(), error_message = $2
		WHERE run_id = $1 AND status = 'running';
	`
	tag, err := r.Pool.Exec(ctx, query, runID, errorMessage)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark run failed", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}
