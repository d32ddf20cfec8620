package dto

import (
	"io"
	"time"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// --- Document DTOs ---

// UploadDocumentInput carries one multipart file from the handler to the
// document service. Content is read exactly once.
type UploadDocumentInput struct {
	Filename string
	Size     int64
	DocType  string
	Content  io.Reader
}

// DocumentResponse defines data returned for an uploaded document.
type DocumentResponse struct {
	ID         string         `json:"id"`
	OrgID      string         `json:"org_id"`
	ClientID   string         `json:"client_id"`
	Type       string         `json:"type"`
	Filename   string         `json:"filename"`
	Status     string         `json:"status"`
	UploadedAt time.Time      `json:"uploaded_at"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// ToDocumentResponse converts domain.Document to DTO.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:         d.DocumentID,
		OrgID:      d.OrgID,
		ClientID:   d.ClientID,
		Type:       string(d.Type),
		Filename:   d.Filename,
		Status:     string(d.Status),
		UploadedAt: d.UploadedAt,
		Meta:       d.Meta,
	}
}

// ToListDocumentsResponse converts a slice of domain.Document to DTOs.
func ToListDocumentsResponse(docs []domain.Document) []DocumentResponse {
	list := make([]DocumentResponse, len(docs))
	for i := range docs {
		list[i] = ToDocumentResponse(&docs[i])
	}
	return list
}

// ListDocumentsParams narrows and paginates a client's document listing.
type ListDocumentsParams struct {
	Limit     int     `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	NextToken *string `form:"next_token"`
}

// ListDocumentsResponse is one page of a client's documents.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
	NextToken *string            `json:"next_token,omitempty"`
}

// DocumentStatusResponse is the poll target after triggering ingestion.
type DocumentStatusResponse struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Filename   string `json:"filename"`
	Type       string `json:"type"`
}

// UpdateDocumentTypeRequest reclassifies a document.
type UpdateDocumentTypeRequest struct {
	Type string `json:"type" binding:"required,oneof=bank invoice gst tds other"`
}

// IngestionStartedResponse acknowledges an enqueued ingestion job.
type IngestionStartedResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
}
