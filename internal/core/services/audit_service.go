package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
)

type auditService struct {
	BaseService
	auditRepo portsrepo.AuditLogRepositoryFacade
}

// NewAuditService creates the audit trail service.
func NewAuditService(auditRepo portsrepo.AuditLogRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// Record persists one audit entry. Failures are logged, never propagated;
// losing an audit row must not fail the action it describes.
func (s *auditService) Record(ctx context.Context, orgID string, userID *string, action string, targetType string, targetID *string, meta map[string]any) {
	entry := domain.AuditLog{
		AuditID:    uuid.NewString(),
		OrgID:      orgID,
		UserID:     userID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Meta:       meta,
		CreatedAt:  time.Now(),
	}
	if err := s.auditRepo.SaveAuditLog(ctx, entry); err != nil {
		s.LogError(ctx, err, "failed to record audit entry")
	}
}

func (s *auditService) ListByOrg(ctx context.Context, orgID string, limit int) ([]domain.AuditLog, error) {
	return s.auditRepo.ListAuditLogsByOrg(ctx, orgID, limit)
}
