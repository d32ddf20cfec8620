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

type PgxAuditLogRepository struct {
	BaseRepository
}

func newPgxAuditLogRepository(db *pgxpool.Pool) portsrepo.AuditLogRepositoryFacade {
	return &PgxAuditLogRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxAuditLogRepository implements portsrepo.AuditLogRepositoryFacade
var _ portsrepo.AuditLogRepositoryFacade = (*PgxAuditLogRepository)(nil)

func (r *PgxAuditLogRepository) SaveAuditLog(ctx context.Context, entry domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			audit_id, org_id, user_id, action, target_type, target_id, meta_json, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.AuditID,
		entry.OrgID,
		entry.UserID,
		entry.Action,
		entry.TargetType,
		entry.TargetID,
		entry.Meta,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save audit log", err)
	}
	return nil
}

func (r *PgxAuditLogRepository) ListAuditLogsByOrg(ctx context.Context, orgID string, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT
			a.audit_id, a.org_id, a.user_id, a.action, a.target_type,
			a.target_id, a.meta_json, a.created_at
		FROM audit_logs a
		WHERE a.org_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, orgID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit logs", err)
	}
	defer rows.Close()
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.AuditLog])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.AuditLog{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect audit log rows", err)
	}
	return entries, nil
}
