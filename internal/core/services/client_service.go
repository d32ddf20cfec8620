package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
)

type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
	audit      portssvc.AuditSvcFacade
}

// NewClientService creates the client service.
func NewClientService(clientRepo portsrepo.ClientRepositoryFacade, audit portssvc.AuditSvcFacade) portssvc.ClientSvcFacade {
	return &clientService{clientRepo: clientRepo, audit: audit}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) CreateClient(ctx context.Context, orgID string, req dto.CreateClientRequest, actorID string) (*domain.Client, error) {
	client := domain.Client{
		ClientID:  uuid.NewString(),
		OrgID:     orgID,
		Name:      req.Name,
		GSTIN:     req.GSTIN,
		PAN:       req.PAN,
		FY:        req.FY,
		CreatedAt: time.Now(),
	}
	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "created client", slog.String("client_id", client.ClientID))
	s.audit.Record(ctx, orgID, &actorID, "create", "client", &client.ClientID, map[string]any{"name": client.Name})
	return &client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, orgID string, clientID string) (*domain.Client, error) {
	return s.clientRepo.FindClientByID(ctx, orgID, clientID)
}

func (s *clientService) ListClients(ctx context.Context, orgID string) ([]domain.Client, error) {
	return s.clientRepo.ListClientsByOrg(ctx, orgID)
}

func (s *clientService) UpdateClient(ctx context.Context, orgID string, clientID string, req dto.UpdateClientRequest, actorID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, orgID, clientID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.GSTIN != nil {
		client.GSTIN = req.GSTIN
	}
	if req.PAN != nil {
		client.PAN = req.PAN
	}
	if req.FY != nil {
		client.FY = req.FY
	}
	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, orgID, &actorID, "update", "client", &clientID, nil)
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, orgID string, clientID string, actorID string) error {
	if err := s.clientRepo.DeleteClient(ctx, orgID, clientID); err != nil {
		return err
	}
	s.LogInfo(ctx, "deleted client", slog.String("client_id", clientID))
	s.audit.Record(ctx, orgID, &actorID, "delete", "client", &clientID, nil)
	return nil
}
