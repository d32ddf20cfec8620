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

type PgxGSTSummaryRepository struct {
	BaseRepository
}

func newPgxGSTSummaryRepository(db *pgxpool.Pool) portsrepo.GSTSummaryRepositoryFacade {
	return &PgxGSTSummaryRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxGSTSummaryRepository implements portsrepo.GSTSummaryRepositoryFacade
var _ portsrepo.GSTSummaryRepositoryFacade = (*PgxGSTSummaryRepository)(nil)

func (r *PgxGSTSummaryRepository) FindGSTSummariesByClient(ctx context.Context, clientID string) ([]domain.GSTSummary, error) {
	query := `
		SELECT
			g.summary_id, g.client_id, g.document_id, g.period,
			g.taxable_value, g.tax_amount, g.created_at
		FROM gst_summaries g
		WHERE g.client_id = $1
		ORDER BY g.period ASC;
	`
	rows, err := r.Pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query gst summaries", err)
	}
	defer rows.Close()
	summaries, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.GSTSummary])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.GSTSummary{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect gst summary rows", err)
	}
	return summaries, nil
}

func (r *PgxGSTSummaryRepository) SaveGSTSummaries(ctx context.Context, summaries []domain.GSTSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO gst_summaries (
			summary_id, client_id, document_id, period,
			taxable_value, tax_amount, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, s := range summaries {
		batch.Queue(query,
			s.SummaryID,
			s.ClientID,
			s.DocumentID,
			s.Period,
			s.TaxableValue,
			s.TaxAmount,
			s.CreatedAt,
		)
	}
	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute gst summary insert batch", err)
	}
	return nil
}

func (r *PgxGSTSummaryRepository) DeleteGSTSummariesByDocument(ctx context.Context, documentID string) error {
	query := `DELETE FROM gst_summaries WHERE document_id = $1;`
	if _, err := r.Pool.Exec(ctx, query, documentID); err != nil {
		return apperrors.NewAppError(500, "failed to delete gst summaries for document "+documentID, err)
	}
	return nil
}
