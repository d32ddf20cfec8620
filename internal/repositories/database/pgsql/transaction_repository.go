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

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func (r *PgxTransactionRepository) FindTransactionsByClient(ctx context.Context, clientID string, source domain.TransactionSource) ([]domain.Transaction, error) {
	query := `
		SELECT
			t.transaction_id, t.client_id, t.document_id, t.source, t.txn_date,
			t.amount, t.description, t.counterparty, t.reference_id, t.created_at
		FROM transactions t
		WHERE t.client_id = $1 AND t.source = $2
		ORDER BY t.txn_date ASC, t.transaction_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, clientID, source)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()
	txns, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Transaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Transaction{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect transaction rows", err)
	}
	return txns, nil
}

func (r *PgxTransactionRepository) SaveTransactions(ctx context.Context, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO transactions (
			transaction_id, client_id, document_id, source, txn_date,
			amount, description, counterparty, reference_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, txn := range txns {
		batch.Queue(query,
			txn.TransactionID,
			txn.ClientID,
			txn.DocumentID,
			txn.Source,
			txn.TxnDate,
			txn.Amount,
			txn.Description,
			txn.Counterparty,
			txn.ReferenceID,
			txn.CreatedAt,
		)
	}
	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute transaction insert batch", err)
	}
	return nil
}

func (r *PgxTransactionRepository) DeleteTransactionsByDocument(ctx context.Context, documentID string) error {
	query := `DELETE FROM transactions WHERE document_id = $1;`
	if _, err := r.Pool.Exec(ctx, query, documentID); err != nil {
		return apperrors.NewAppError(500, "failed to delete transactions for document "+documentID, err)
	}
	return nil
}
