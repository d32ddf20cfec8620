package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
)

type PgxOrgRepository struct {
	BaseRepository
}

func newPgxOrgRepository(db *pgxpool.Pool) portsrepo.OrgRepositoryFacade {
	return &PgxOrgRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxOrgRepository implements portsrepo.OrgRepositoryFacade
var _ portsrepo.OrgRepositoryFacade = (*PgxOrgRepository)(nil)

func (r *PgxOrgRepository) FindOrgByID(ctx context.Context, orgID string) (*domain.Org, error) {
	query := `
		SELECT org_id, name, created_at
		FROM orgs
		WHERE org_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query org", err)
	}
	org, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.Org])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect org row", err)
	}
	return &org, nil
}

func (r *PgxOrgRepository) SaveOrg(ctx context.Context, tx pgx.Tx, org domain.Org) error {
	query := `
		INSERT INTO orgs (org_id, name, created_at)
		VALUES ($1, $2, $3);
	`
	var err error
	if tx != nil {
		_, err = tx.Exec(ctx, query, org.OrgID, org.Name, org.CreatedAt)
	} else {
		_, err = r.Pool.Exec(ctx, query, org.OrgID, org.Name, org.CreatedAt)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("org " + org.OrgID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save org "+org.OrgID, err)
	}
	return nil
}
