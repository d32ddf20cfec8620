package repositories

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// ClientReader defines read operations for client data
type ClientReader interface {
	// FindClientByID retrieves a client by ID, scoped to the given org.
	FindClientByID(ctx context.Context, orgID string, clientID string) (*domain.Client, error)

	// FindClient retrieves a client by ID without org scoping. Only the
	// background workers use this; request paths stay org-scoped.
	FindClient(ctx context.Context, clientID string) (*domain.Client, error)

	// ListClientsByOrg retrieves all clients belonging to an org, newest first.
	ListClientsByOrg(ctx context.Context, orgID string) ([]domain.Client, error)
}

// ClientWriter defines write operations for client data
type ClientWriter interface {
	// SaveClient persists a new client.
	SaveClient(ctx context.Context, client domain.Client) error

	// UpdateClient updates an existing client's details.
	UpdateClient(ctx context.Context, client domain.Client) error

	// DeleteClient removes a client and all its dependent records.
	DeleteClient(ctx context.Context, orgID string, clientID string) error
}

// ClientRepositoryFacade combines all client-related repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
