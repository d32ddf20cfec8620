package services

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
)

// ClientReaderSvc defines read operations for client data
type ClientReaderSvc interface {
	// GetClientByID retrieves a client by ID within the caller's org.
	GetClientByID(ctx context.Context, orgID string, clientID string) (*domain.Client, error)

	// ListClients retrieves all clients belonging to the caller's org.
	ListClients(ctx context.Context, orgID string) ([]domain.Client, error)
}

// ClientWriterSvc defines write operations for client data
type ClientWriterSvc interface {
	// CreateClient creates a new client under the caller's org.
	CreateClient(ctx context.Context, orgID string, req dto.CreateClientRequest, actorID string) (*domain.Client, error)

	// UpdateClient applies a partial update to a client.
	UpdateClient(ctx context.Context, orgID string, clientID string, req dto.UpdateClientRequest, actorID string) (*domain.Client, error)

	// DeleteClient removes a client and everything that hangs off it.
	DeleteClient(ctx context.Context, orgID string, clientID string, actorID string) error
}

// ClientSvcFacade combines all client-related service interfaces
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
}
