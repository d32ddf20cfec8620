package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		OrgRepo:         newPgxOrgRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
		ClientRepo:      newPgxClientRepository(dbPool),
		DocumentRepo:    newPgxDocumentRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		GSTSummaryRepo:  newPgxGSTSummaryRepository(dbPool),
		RunRepo:         newPgxRunRepository(dbPool),
		IssueRepo:       newPgxIssueRepository(dbPool),
		ReportRepo:      newPgxReportRepository(dbPool),
		AuditRepo:       newPgxAuditLogRepository(dbPool),
	}
}
