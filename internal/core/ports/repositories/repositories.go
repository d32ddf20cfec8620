package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	OrgRepo         OrgRepositoryFacade
	UserRepo        UserRepositoryFacade
	ClientRepo      ClientRepositoryFacade
	DocumentRepo    DocumentRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	GSTSummaryRepo  GSTSummaryRepositoryFacade
	RunRepo         RunRepositoryFacade
	IssueRepo       IssueRepositoryFacade
	ReportRepo      ReportRepositoryFacade
	AuditRepo       AuditLogRepositoryFacade
}
