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

type PgxClientRepository struct {
	BaseRepository
}

func newPgxClientRepository(db *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxClientRepository implements portsrepo.ClientRepositoryFacade
var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

const clientSelectQuery = `
SELECT
	c.client_id, c.org_id, c.name, c.gstin, c.pan, c.fy, c.created_at
FROM clients c
`

func (r *PgxClientRepository) getClients(ctx context.Context, filterQuery string, args ...any) ([]domain.Client, error) {
	query := clientSelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query clients", err)
	}
	defer rows.Close()
	clients, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Client])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Client{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect client rows", err)
	}
	return clients, nil
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, orgID string, clientID string) (*domain.Client, error) {
	clients, err := r.getClients(ctx, `WHERE c.client_id = $1 AND c.org_id = $2`, clientID, orgID)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &clients[0], nil
}

func (r *PgxClientRepository) FindClient(ctx context.Context, clientID string) (*domain.Client, error) {
	clients, err := r.getClients(ctx, `WHERE c.client_id = $1`, clientID)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &clients[0], nil
}

func (r *PgxClientRepository) ListClientsByOrg(ctx context.Context, orgID string) ([]domain.Client, error) {
	return r.getClients(ctx, `WHERE c.org_id = $1 ORDER BY c.created_at DESC`, orgID)
}

func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	query := `
		INSERT INTO clients (client_id, org_id, name, gstin, pan, fy, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		client.ClientID,
		client.OrgID,
		client.Name,
		client.GSTIN,
		client.PAN,
		client.FY,
		client.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("client " + client.ClientID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save client "+client.ClientID, err)
	}
	return nil
}

func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	query := `
		UPDATE clients
		SET name = $3, gstin = $4, pan = $5, fy = $6
		WHERE client_id = $1 AND org_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		client.ClientID,
		client.OrgID,
		client.Name,
		client.GSTIN,
		client.PAN,
		client.FY,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update client "+client.ClientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxClientRepository) DeleteClient(ctx context.Context, orgID string, clientID string) error {
	// Dependent rows cascade via foreign keys.
	query := `DELETE FROM clients WHERE client_id = $1 AND org_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, clientID, orgID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete client "+clientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
