package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
	"github.com/ledgerly/ledgerly_backend/internal/middleware"
)

// clientHandler handles HTTP requests related to clients.
type clientHandler struct {
	clientService portssvc.ClientSvcFacade
}

// newClientHandler creates a new clientHandler.
func newClientHandler(cs portssvc.ClientSvcFacade) *clientHandler {
	return &clientHandler{
		clientService: cs,
	}
}

// registerClientRoutes registers routes related to clients.
// It also registers DOCUMENT, RUN, ISSUE and REPORT collection routes nested
// under a specific client.
func registerClientRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newClientHandler(services.Client)

	clientsTopLevel := rg.Group("/clients")
	{
		clientsTopLevel.POST("", h.createClient)
		clientsTopLevel.GET("", h.listClients)
	}

	// Routes specific to a single client (identified by client_id)
	clientSpecific := rg.Group("/clients/:client_id")
	{
		clientSpecific.GET("", h.getClient)
		clientSpecific.PATCH("", h.updateClient)
		clientSpecific.DELETE("", h.deleteClient)

		// -- NESTED DOCUMENT ROUTES --
		registerClientDocumentRoutes(clientSpecific, services.Document)

		// -- NESTED RUN ROUTES --
		registerClientRunRoutes(clientSpecific, services.Run)

		// -- NESTED ISSUE ROUTES --
		registerClientIssueRoutes(clientSpecific, services.Issue)

		// -- NESTED REPORT ROUTES --
		registerClientReportRoutes(clientSpecific, services.Report)
	}
}

// createClient godoc
// @Summary Create a new client
// @Description Creates a new client under the caller's org.
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid request format: " + err.Error()})
		return
	}

	userID, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create client")
		return
	}

	logger.Info("Client created", slog.String("client_id", client.ClientID))
	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// listClients godoc
// @Summary List clients
// @Description Retrieves all clients belonging to the caller's org.
// @Tags clients
// @Produce  json
// @Success 200 {array} dto.ClientResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), orgID)
	if err != nil {
		respondError(c, logger, err, "Failed to list clients")
		return
	}

	c.JSON(http.StatusOK, dto.ToListClientsResponse(clients))
}

// getClient godoc
// @Summary Get a client by ID
// @Description Retrieves details for a specific client within the caller's org.
// @Tags clients
// @Produce  json
// @Param   client_id path string true "Client ID"
// @Success 200 {object} dto.ClientResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{client_id} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	client, err := h.clientService.GetClientByID(c.Request.Context(), orgID, c.Param("client_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve client")
		return
	}

	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// updateClient godoc
// @Summary Update a client
// @Description Applies a partial update to a client. Omitted fields keep their value.
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   client_id path string true "Client ID"
// @Param   client body dto.UpdateClientRequest true "Fields to update"
// @Success 200 {object} dto.ClientResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{client_id} [patch]
func (h *clientHandler) updateClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid request format: " + err.Error()})
		return
	}

	userID, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), orgID, c.Param("client_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// deleteClient godoc
// @Summary Delete a client
// @Description Removes a client together with its documents, runs, issues and reports.
// @Tags clients
// @Produce  json
// @Param   client_id path string true "Client ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{client_id} [delete]
func (h *clientHandler) deleteClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), orgID, c.Param("client_id"), userID); err != nil {
		respondError(c, logger, err, "Failed to delete client")
		return
	}

	logger.Info("Client deleted", slog.String("client_id", c.Param("client_id")))
	c.Status(http.StatusNoContent)
}
