package services

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
)

// DocumentReaderSvc defines read operations for document data
type DocumentReaderSvc interface {
	// GetDocumentByID retrieves a document by ID within the caller's org.
	GetDocumentByID(ctx context.Context, orgID string, documentID string) (*domain.Document, error)

	// ListDocuments retrieves a page of documents uploaded for a client,
	// newest first, together with a token for the next page if one exists.
	ListDocuments(ctx context.Context, orgID string, clientID string, params dto.ListDocumentsParams) ([]domain.Document, *string, error)
}

// DocumentWriterSvc defines write operations for document data
type DocumentWriterSvc interface {
	// UploadDocument validates the file, stores its bytes in object storage
	// and persists a pending document record.
	UploadDocument(ctx context.Context, orgID string, clientID string, input dto.UploadDocumentInput, actorID string) (*domain.Document, error)

	// UpdateDocumentType reclassifies a document before ingestion.
	UpdateDocumentType(ctx context.Context, orgID string, documentID string, docType domain.DocumentType, actorID string) (*domain.Document, error)

	// DeleteDocument removes a document record and its stored bytes.
	DeleteDocument(ctx context.Context, orgID string, documentID string, actorID string) error
}

// DocumentIngestionSvc defines the ingestion pipeline operations
type DocumentIngestionSvc interface {
	// StartIngestion verifies the document is ingestible and enqueues it for
	// background processing.
	StartIngestion(ctx context.Context, orgID string, documentID string) error

	// IngestDocument is the worker entry point: it claims the document,
	// parses the stored file and persists the extracted rows.
	IngestDocument(ctx context.Context, documentID string) error
}

// DocumentSvcFacade combines all document-related service interfaces
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
	DocumentIngestionSvc
}
