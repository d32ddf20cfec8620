package repositories

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// DocumentReader defines read operations for document data
type DocumentReader interface {
	// FindDocumentByID retrieves a document by ID, scoped to the given org.
	FindDocumentByID(ctx context.Context, orgID string, documentID string) (*domain.Document, error)

	// FindDocument retrieves a document by ID without org scoping. Only the
	// background workers use this; request paths always scope by org.
	FindDocument(ctx context.Context, documentID string) (*domain.Document, error)

	// ListDocumentsByClient retrieves a page of documents for a client,
	// newest first. It returns a token for the next page if one exists.
	ListDocumentsByClient(ctx context.Context, orgID string, clientID string, limit int, nextToken *string) ([]domain.Document, *string, error)

	// CountDocumentsByClient reports how many documents a client has.
	CountDocumentsByClient(ctx context.Context, orgID string, clientID string) (int, error)
}

// DocumentWriter defines write operations for document data
type DocumentWriter interface {
	// SaveDocument persists a new document record.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// UpdateDocumentType reclassifies a document.
	UpdateDocumentType(ctx context.Context, orgID string, documentID string, docType domain.DocumentType) error

	// UpdateDocumentStatus moves a document from one ingestion state to
	// another. The update is guarded on the expected current state; it
	// returns apperrors.ErrInvalidTransition when the row is not in it.
	UpdateDocumentStatus(ctx context.Context, documentID string, from, to domain.DocumentStatus, meta map[string]any) error

	// DeleteDocument removes a document record.
	DeleteDocument(ctx context.Context, orgID string, documentID string) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
