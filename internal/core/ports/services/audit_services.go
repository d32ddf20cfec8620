package services

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// AuditSvcFacade defines audit trail operations. Recording never fails the
// calling operation; persistence errors are logged and swallowed.
type AuditSvcFacade interface {
	// Record persists one audit entry for a mutating action.
	Record(ctx context.Context, orgID string, userID *string, action string, targetType string, targetID *string, meta map[string]any)

	// ListByOrg retrieves recent audit entries for an org, newest first.
	ListByOrg(ctx context.Context, orgID string, limit int) ([]domain.AuditLog, error)
}
