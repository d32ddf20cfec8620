package repositories

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// AuditLogWriter defines write operations for audit log data
type AuditLogWriter interface {
	// SaveAuditLog persists a new audit entry.
	SaveAuditLog(ctx context.Context, entry domain.AuditLog) error
}

// AuditLogReader defines read operations for audit log data
type AuditLogReader interface {
	// ListAuditLogsByOrg retrieves recent audit entries for an org, newest
	// first, capped at limit.
	ListAuditLogsByOrg(ctx context.Context, orgID string, limit int) ([]domain.AuditLog, error)
}

// AuditLogRepositoryFacade combines all audit log repository interfaces
type AuditLogRepositoryFacade interface {
	AuditLogReader
	AuditLogWriter
}
