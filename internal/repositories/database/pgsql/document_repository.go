package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
	"github.com/ledgerly/ledgerly_backend/internal/utils/pagination"
)

type PgxDocumentRepository struct {
	BaseRepository
}

func newPgxDocumentRepository(db *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxDocumentRepository implements portsrepo.DocumentRepositoryFacade
var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const documentSelectQuery = `
SELECT
	d.document_id, d.org_id, d.client_id, d.doc_type, d.filename,
	d.storage_key, d.status, d.uploaded_by, d.uploaded_at, d.meta_json
FROM documents d
`

func (r *PgxDocumentRepository) getDocuments(ctx context.Context, filterQuery string, args ...any) ([]domain.Document, error) {
	query := documentSelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query documents", err)
	}
	defer rows.Close()
	docs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Document])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Document{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect document rows", err)
	}
	return docs, nil
}

func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, orgID string, documentID string) (*domain.Document, error) {
	docs, err := r.getDocuments(ctx, `WHERE d.document_id = $1 AND d.org_id = $2`, documentID, orgID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &docs[0], nil
}

func (r *PgxDocumentRepository) FindDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	docs, err := r.getDocuments(ctx, `WHERE d.document_id = $1`, documentID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &docs[0], nil
}

// ListDocumentsByClient retrieves a page of documents for a client, newest
// first, using token-based pagination. It returns the documents and a token
// for the next page if one exists.
func (r *PgxDocumentRepository) ListDocumentsByClient(ctx context.Context, orgID string, clientID string, limit int, nextToken *string) ([]domain.Document, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	var (
		docs []domain.Document
		err  error
	)
	if nextToken != nil && *nextToken != "" {
		before, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		docs, err = r.getDocuments(ctx,
			`WHERE d.client_id = $1 AND d.org_id = $2 AND d.uploaded_at < $3 ORDER BY d.uploaded_at DESC LIMIT $4`,
			clientID, orgID, before, fetchLimit)
	} else {
		docs, err = r.getDocuments(ctx,
			`WHERE d.client_id = $1 AND d.org_id = $2 ORDER BY d.uploaded_at DESC LIMIT $3`,
			clientID, orgID, fetchLimit)
	}
	if err != nil {
		return nil, nil, err
	}

	var newNextToken *string
	if len(docs) > limit {
		docs = docs[:limit]
		token := pagination.EncodeDateBasedToken(docs[limit-1].UploadedAt)
		newNextToken = &token
	}
	return docs, newNextToken, nil
}

func (r *PgxDocumentRepository) CountDocumentsByClient(ctx context.Context, orgID string, clientID string) (int, error) {
	query := `SELECT COUNT(*) FROM documents WHERE client_id = $1 AND org_id = $2;`
	var count int
	if err := r.Pool.QueryRow(ctx, query, clientID, orgID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count documents", err)
	}
	return count, nil
}

func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	query := `
		INSERT INTO documents (
			document_id, org_id, client_id, doc_type, filename,
			storage_key, status, uploaded_by, uploaded_at, meta_json
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		doc.DocumentID,
		doc.OrgID,
		doc.ClientID,
		doc.Type,
		doc.Filename,
		doc.StorageKey,
		doc.Status,
		doc.UploadedBy,
		doc.UploadedAt,
		doc.Meta,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("document " + doc.DocumentID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save document "+doc.DocumentID, err)
	}
	return nil
}

func (r *PgxDocumentRepository) UpdateDocumentType(ctx context.Context, orgID string, documentID string, docType domain.DocumentType) error {
	query := `UPDATE documents SET doc_type = $3 WHERE document_id = $1 AND org_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, documentID, orgID, docType)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update document type", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateDocumentStatus performs a guarded state transition. The WHERE clause
// on the expected current status makes concurrent claims race-safe: only one
// writer observes RowsAffected() == 1.
func (r *PgxDocumentRepository) UpdateDocumentStatus(ctx context.Context, documentID string, from, to domain.DocumentStatus, meta map[string]any) error {
	query := `
		UPDATE documents
		SET status = $3, meta_json = COALESCE($4, meta_json)
		WHERE document_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, documentID, from, to, meta)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update document status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

func (r *PgxDocumentRepository) DeleteDocument(ctx context.Context, orgID string, documentID string) error {
	query := `DELETE FROM documents WHERE document_id = $1 AND org_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, documentID, orgID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete document "+documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
