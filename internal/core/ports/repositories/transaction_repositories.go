package repositories

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// TransactionReader defines read operations for extracted transaction data
type TransactionReader interface {
	// FindTransactionsByClient retrieves all transactions for a client from
	// one source side, oldest first.
	FindTransactionsByClient(ctx context.Context, clientID string, source domain.TransactionSource) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for extracted transaction data
type TransactionWriter interface {
	// SaveTransactions bulk-inserts the rows extracted from one document.
	SaveTransactions(ctx context.Context, txns []domain.Transaction) error

	// DeleteTransactionsByDocument removes rows from an earlier ingestion of
	// the same document so re-ingestion does not double-count.
	DeleteTransactionsByDocument(ctx context.Context, documentID string) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// GSTSummaryReader defines read operations for GST filing summaries
type GSTSummaryReader interface {
	// FindGSTSummariesByClient retrieves all GST period summaries for a client.
	FindGSTSummariesByClient(ctx context.Context, clientID string) ([]domain.GSTSummary, error)
}

// GSTSummaryWriter defines write operations for GST filing summaries
type GSTSummaryWriter interface {
	// SaveGSTSummaries bulk-inserts the summaries extracted from one document.
	SaveGSTSummaries(ctx context.Context, summaries []domain.GSTSummary) error

	// DeleteGSTSummariesByDocument removes summaries from an earlier
	// ingestion of the same document.
	DeleteGSTSummariesByDocument(ctx context.Context, documentID string) error
}

// GSTSummaryRepositoryFacade combines all GST summary repository interfaces
type GSTSummaryRepositoryFacade interface {
	GSTSummaryReader
	GSTSummaryWriter
}
