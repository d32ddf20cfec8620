package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
	"github.com/ledgerly/ledgerly_backend/internal/middleware"
)

// documentHandler handles HTTP requests related to uploaded documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

// newDocumentHandler creates a new documentHandler.
func newDocumentHandler(ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: ds,
	}
}

// registerClientDocumentRoutes registers the document collection routes
// nested under a specific client.
func registerClientDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.uploadDocument)
		documents.GET("", h.listDocuments)
	}
}

// registerDocumentRoutes registers routes addressing a single document by ID.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	documentSpecific := rg.Group("/documents/:document_id")
	{
		documentSpecific.GET("", h.getDocument)
		documentSpecific.GET("/status", h.getDocumentStatus)
		documentSpecific.PATCH("", h.updateDocumentType)
		documentSpecific.DELETE("", h.deleteDocument)
		documentSpecific.POST("/run-ingestion", h.startIngestion)
	}
}

// uploadDocument godoc
// @Summary Upload a document
// @Description Uploads a file for a client. The file lands in object storage and a pending document record is created.
// @Tags documents
// @Accept  multipart/form-data
// @Produce  json
// @Param   client_id path string true "Client ID"
// @Param   file formData file true "File to upload"
// @Param   type formData string true "Document type" Enums(bank, invoice, gst, tds, other)
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse "Invalid file or type"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{client_id}/documents [post]
func (h *documentHandler) uploadDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "A file is required in the 'file' form field"})
		return
	}

	docType := c.PostForm("type")
	if docType == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "The 'type' form field is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	doc, err := h.documentService.UploadDocument(c.Request.Context(), orgID, c.Param("client_id"), dto.UploadDocumentInput{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		DocType:  docType,
		Content:  file,
	}, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to upload document")
		return
	}

	logger.Info("Document uploaded", slog.String("document_id", doc.DocumentID), slog.String("filename", doc.Filename))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List documents for a client
// @Description Retrieves one page of the client's documents, newest first. Pass next_token from the previous page to continue.
// @Tags documents
// @Produce  json
// @Param   client_id path string true "Client ID"
// @Param   limit query int false "Page size (default 50, max 200)"
// @Param   next_token query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{client_id}/documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid query parameters: " + err.Error()})
		return
	}

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	docs, nextToken, err := h.documentService.ListDocuments(c.Request.Context(), orgID, c.Param("client_id"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list documents")
		return
	}

	c.JSON(http.StatusOK, dto.ListDocumentsResponse{
		Documents: dto.ToListDocumentsResponse(docs),
		NextToken: nextToken,
	})
}

// getDocument godoc
// @Summary Get a document by ID
// @Description Retrieves a document record including its ingestion metadata.
// @Tags documents
// @Produce  json
// @Param   document_id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Document not found"
// @Security BearerAuth
// @Router /documents/{document_id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	doc, err := h.documentService.GetDocumentByID(c.Request.Context(), orgID, c.Param("document_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve document")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// getDocumentStatus godoc
// @Summary Get a document's ingestion status
// @Description Lightweight poll target while ingestion runs in the background.
// @Tags documents
// @Produce  json
// @Param   document_id path string true "Document ID"
// @Success 200 {object} dto.DocumentStatusResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Document not found"
// @Security BearerAuth
// @Router /documents/{document_id}/status [get]
func (h *documentHandler) getDocumentStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	doc, err := h.documentService.GetDocumentByID(c.Request.Context(), orgID, c.Param("document_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve document")
		return
	}

	c.JSON(http.StatusOK, dto.DocumentStatusResponse{
		DocumentID: doc.DocumentID,
		Status:     string(doc.Status),
		Filename:   doc.Filename,
		Type:       string(doc.Type),
	})
}

// updateDocumentType godoc
// @Summary Reclassify a document
// @Description Changes the document type. Only allowed while the document is still pending.
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document_id path string true "Document ID"
// @Param   body body dto.UpdateDocumentTypeRequest true "New document type"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse "Invalid type"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 412 {object} ErrorResponse "Document already ingested"
// @Security BearerAuth
// @Router /documents/{document_id} [patch]
func (h *documentHandler) updateDocumentType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateDocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid request format: " + err.Error()})
		return
	}

	userID, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	doc, err := h.documentService.UpdateDocumentType(c.Request.Context(), orgID, c.Param("document_id"), domain.DocumentType(req.Type), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update document type")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// deleteDocument godoc
// @Summary Delete a document
// @Description Removes a document record, its extracted rows and its stored bytes.
// @Tags documents
// @Produce  json
// @Param   document_id path string true "Document ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 412 {object} ErrorResponse "Document is being processed"
// @Security BearerAuth
// @Router /documents/{document_id} [delete]
func (h *documentHandler) deleteDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), orgID, c.Param("document_id"), userID); err != nil {
		respondError(c, logger, err, "Failed to delete document")
		return
	}

	logger.Info("Document deleted", slog.String("document_id", c.Param("document_id")))
	c.Status(http.StatusNoContent)
}

// startIngestion godoc
// @Summary Start document ingestion
// @Description Enqueues the document for background parsing. Poll the status endpoint for progress.
// @Tags documents
// @Produce  json
// @Param   document_id path string true "Document ID"
// @Success 202 {object} dto.IngestionStartedResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 412 {object} ErrorResponse "Document not in a pending state"
// @Failure 503 {object} ErrorResponse "Worker queue full"
// @Security BearerAuth
// @Router /documents/{document_id}/run-ingestion [post]
func (h *documentHandler) startIngestion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	_, orgID, ok := identityFromContext(c, logger)
	if !ok {
		return
	}

	documentID := c.Param("document_id")
	if err := h.documentService.StartIngestion(c.Request.Context(), orgID, documentID); err != nil {
		respondError(c, logger, err, "Failed to start ingestion")
		return
	}

	logger.Info("Ingestion enqueued", slog.String("document_id", documentID))
	c.JSON(http.StatusAccepted, dto.IngestionStartedResponse{
		Message:    "Ingestion started",
		DocumentID: documentID,
	})
}
