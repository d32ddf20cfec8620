package dto

import (
	"time"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// --- Client DTOs ---

// CreateClientRequest defines data for creating a new client.
// gstin and pan use the custom validations registered at startup.
type CreateClientRequest struct {
	Name  string  `json:"name" binding:"required,min=2,max=255"`
	GSTIN *string `json:"gstin" binding:"omitempty,gstin"`
	PAN   *string `json:"pan" binding:"omitempty,pan"`
	FY    *string `json:"fy" binding:"omitempty,max=7"`
}

// UpdateClientRequest defines partial updates to a client.
type UpdateClientRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=255"`
	GSTIN *string `json:"gstin" binding:"omitempty,gstin"`
	PAN   *string `json:"pan" binding:"omitempty,pan"`
	FY    *string `json:"fy" binding:"omitempty,max=7"`
}

// ClientResponse defines data returned for a client.
type ClientResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	GSTIN     *string   `json:"gstin,omitempty"`
	PAN       *string   `json:"pan,omitempty"`
	FY        *string   `json:"fy,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToClientResponse converts domain.Client to DTO.
func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ClientID,
		OrgID:     c.OrgID,
		Name:      c.Name,
		GSTIN:     c.GSTIN,
		PAN:       c.PAN,
		FY:        c.FY,
		CreatedAt: c.CreatedAt,
	}
}

// ToListClientsResponse converts a slice of domain.Client to DTOs.
func ToListClientsResponse(clients []domain.Client) []ClientResponse {
	list := make([]ClientResponse, len(clients))
	for i := range clients {
		list[i] = ToClientResponse(&clients[i])
	}
	return list
}
