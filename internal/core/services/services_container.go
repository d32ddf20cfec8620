package services

import (
	"github.com/ledgerly/ledgerly_backend/internal/core/ports"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	store ports.ObjectStore,
	locks ports.Locker,
	queue portssvc.TaskEnqueuer,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit first; most other services record through it.
	container.Audit = NewAuditService(repos.AuditRepo)

	container.User = NewUserService(repos.OrgRepo, repos.UserRepo)
	container.Client = NewClientService(repos.ClientRepo, container.Audit)
	container.Document = NewDocumentService(cfg, repos.ClientRepo, repos.DocumentRepo, repos.TransactionRepo, repos.GSTSummaryRepo, store, locks, queue, container.Audit)
	container.Run = NewRunService(repos.ClientRepo, repos.DocumentRepo, repos.RunRepo, repos.TransactionRepo, repos.GSTSummaryRepo, repos.IssueRepo, locks, queue, container.Audit)
	container.Issue = NewIssueService(repos.ClientRepo, repos.RunRepo, repos.IssueRepo, container.Audit)
	container.Report = NewReportService(repos.ClientRepo, repos.RunRepo, repos.IssueRepo, repos.TransactionRepo, repos.GSTSummaryRepo, repos.ReportRepo, store, container.Audit)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
