package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	"github.com/ledgerly/ledgerly_backend/internal/core/ports"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
	"github.com/ledgerly/ledgerly_backend/internal/platform/config"
	"github.com/ledgerly/ledgerly_backend/internal/utils/ingest"
)

// ingestionLockTTL bounds how long a single document claim may run.
const ingestionLockTTL = 5 * time.Minute

type documentService struct {
	BaseService
	cfg        *config.Config
	clientRepo portsrepo.ClientRepositoryFacade
	docRepo    portsrepo.DocumentRepositoryFacade
	txnRepo    portsrepo.TransactionRepositoryFacade
	gstRepo    portsrepo.GSTSummaryRepositoryFacade
	store      ports.ObjectStore
	locks      ports.Locker
	queue      portssvc.TaskEnqueuer
	audit      portssvc.AuditSvcFacade
}

// NewDocumentService creates the document service.
func NewDocumentService(
	cfg *config.Config,
	clientRepo portsrepo.ClientRepositoryFacade,
	docRepo portsrepo.DocumentRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	gstRepo portsrepo.GSTSummaryRepositoryFacade,
	store ports.ObjectStore,
	locks ports.Locker,
	queue portssvc.TaskEnqueuer,
	audit portssvc.AuditSvcFacade,
) portssvc.DocumentSvcFacade {
	return &documentService{
		cfg:        cfg,
		clientRepo: clientRepo,
		docRepo:    docRepo,
		txnRepo:    txnRepo,
		gstRepo:    gstRepo,
		store:      store,
		locks:      locks,
		queue:      queue,
		audit:      audit,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// UploadDocument validates and stores one uploaded file, then records it as a
// pending document.
func (s *documentService) UploadDocument(ctx context.Context, orgID string, clientID string, input dto.UploadDocumentInput, actorID string) (*domain.Document, error) {
	if _, err := s.clientRepo.FindClientByID(ctx, orgID, clientID); err != nil {
		return nil, err
	}

	docType := domain.DocumentType(input.DocType)
	if !domain.ValidDocumentType(docType) {
		return nil, apperrors.NewUploadError("unknown document type " + input.DocType)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Filename), "."))
	if !s.extensionAllowed(ext) {
		return nil, apperrors.NewUploadError("file type ." + ext + " is not allowed")
	}
	maxBytes := s.cfg.MaxUploadSizeMB * 1024 * 1024
	if input.Size <= 0 || input.Size > maxBytes {
		return nil, apperrors.NewUploadError(fmt.Sprintf("file size must be between 1 byte and %dMB", s.cfg.MaxUploadSizeMB))
	}

	doc := domain.Document{
		DocumentID: uuid.NewString(),
		OrgID:      orgID,
		ClientID:   clientID,
		Type:       docType,
		Filename:   input.Filename,
		Status:     domain.DocStatusPending,
		UploadedBy: actorID,
		UploadedAt: time.Now(),
	}
	doc.StorageKey = fmt.Sprintf("%s/%s/%s/%s", orgID, clientID, doc.DocumentID, input.Filename)

	contentType := mime.TypeByExtension("." + ext)
	if err := s.store.Put(ctx, doc.StorageKey, input.Content, input.Size, contentType); err != nil {
		return nil, apperrors.NewAppError(500, "failed to store uploaded file", err)
	}

	if err := s.docRepo.SaveDocument(ctx, doc); err != nil {
		// Do not leave orphaned bytes behind a failed insert.
		if rmErr := s.store.Remove(ctx, doc.StorageKey); rmErr != nil {
			s.LogError(ctx, rmErr, "failed to remove stored file after save failure", slog.String("storage_key", doc.StorageKey))
		}
		return nil, err
	}

	s.LogInfo(ctx, "uploaded document", slog.String("document_id", doc.DocumentID), slog.String("doc_type", string(doc.Type)))
	s.audit.Record(ctx, orgID, &actorID, "upload", "document", &doc.DocumentID, map[string]any{"filename": doc.Filename, "type": string(doc.Type)})
	return &doc, nil
}

func (s *documentService) extensionAllowed(ext string) bool {
	for _, allowed := range s.cfg.AllowedFileTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (s *documentService) GetDocumentByID(ctx context.Context, orgID string, documentID string) (*domain.Document, error) {
	return s.docRepo.FindDocumentByID(ctx, orgID, documentID)
}

func (s *documentService) ListDocuments(ctx context.Context, orgID string, clientID string, params dto.ListDocumentsParams) ([]domain.Document, *string, error) {
	if _, err := s.clientRepo.FindClientByID(ctx, orgID, clientID); err != nil {
		return nil, nil, err
	}
	return s.docRepo.ListDocumentsByClient(ctx, orgID, clientID, params.Limit, params.NextToken)
}

// UpdateDocumentType reclassifies a document. Only documents not yet ingested
// can change type; extracted rows would otherwise go stale.
func (s *documentService) UpdateDocumentType(ctx context.Context, orgID string, documentID string, docType domain.DocumentType, actorID string) (*domain.Document, error) {
	doc, err := s.docRepo.FindDocumentByID(ctx, orgID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.DocStatusPending {
		return nil, apperrors.NewPreconditionFailedError("document type can only change before ingestion")
	}
	if err := s.docRepo.UpdateDocumentType(ctx, orgID, documentID, docType); err != nil {
		return nil, err
	}
	doc.Type = docType
	s.audit.Record(ctx, orgID, &actorID, "update", "document", &documentID, map[string]any{"type": string(docType)})
	return doc, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, orgID string, documentID string, actorID string) error {
	doc, err := s.docRepo.FindDocumentByID(ctx, orgID, documentID)
	if err != nil {
		return err
	}
	if doc.Status == domain.DocStatusProcessing {
		return apperrors.NewPreconditionFailedError("document is being ingested")
	}
	if err := s.docRepo.DeleteDocument(ctx, orgID, documentID); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, doc.StorageKey); err != nil {
		s.LogError(ctx, err, "failed to remove stored file", slog.String("storage_key", doc.StorageKey))
	}
	s.audit.Record(ctx, orgID, &actorID, "delete", "document", &documentID, nil)
	return nil
}

// StartIngestion verifies the document is still pending and enqueues it.
func (s *documentService) StartIngestion(ctx context.Context, orgID string, documentID string) error {
	doc, err := s.docRepo.FindDocumentByID(ctx, orgID, documentID)
	if err != nil {
		return err
	}
	if doc.Status != domain.DocStatusPending {
		return apperrors.NewPreconditionFailedError("document has already been ingested")
	}
	if err := s.queue.EnqueueIngestion(documentID); err != nil {
		return apperrors.NewAppError(503, "ingestion queue is full, retry later", err)
	}
	return nil
}

// IngestDocument claims and processes one document. The redis lock keeps
// replicas from double-processing; the guarded pending to processing update
// is the authoritative claim.
func (s *documentService) IngestDocument(ctx context.Context, documentID string) error {
	lock, err := s.locks.Obtain(ctx, "recon:doc:"+documentID, ingestionLockTTL)
	if err != nil {
		if errors.Is(err, ports.ErrLockNotObtained) {
			s.LogInfo(ctx, "document already being ingested elsewhere", slog.String("document_id", documentID))
			return nil
		}
		return fmt.Errorf("failed to obtain ingestion lock: %w", err)
	}
	defer lock.Release(context.WithoutCancel(ctx))

	doc, err := s.docRepo.FindDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.docRepo.UpdateDocumentStatus(ctx, documentID, domain.DocStatusPending, domain.DocStatusProcessing, nil); err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			s.LogInfo(ctx, "document no longer pending, skipping", slog.String("document_id", documentID), slog.String("status", string(doc.Status)))
			return nil
		}
		return err
	}

	if ingestErr := s.processDocument(ctx, doc); ingestErr != nil {
		s.LogError(ctx, ingestErr, "document ingestion failed", slog.String("document_id", documentID))
		meta := map[string]any{"error": ingestErr.Error()}
		if err := s.docRepo.UpdateDocumentStatus(ctx, documentID, domain.DocStatusProcessing, domain.DocStatusFailed, meta); err != nil {
			s.LogError(ctx, err, "failed to mark document failed", slog.String("document_id", documentID))
		}
		return nil
	}
	return nil
}

func (s *documentService) processDocument(ctx context.Context, doc *domain.Document) error {
	data, err := s.store.GetBytes(ctx, doc.StorageKey)
	if err != nil {
		return err
	}

	rows, err := ingest.ReadTable(doc.Filename, data)
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedFormat) {
			return fmt.Errorf("no structured rows can be extracted from %s files", filepath.Ext(doc.Filename))
		}
		return err
	}

	now := time.Now()
	meta := map[string]any{"rows_total": len(rows)}

	switch doc.Type {
	case domain.DocTypeBank, domain.DocTypeInvoice:
		var txns []domain.Transaction
		if doc.Type == domain.DocTypeBank {
			txns = ingest.ParseBankStatement(rows)
		} else {
			txns = ingest.ParseInvoiceRegister(rows)
		}
		for i := range txns {
			txns[i].TransactionID = uuid.NewString()
			txns[i].ClientID = doc.ClientID
			txns[i].DocumentID = &doc.DocumentID
			txns[i].CreatedAt = now
		}
		// Drop rows from any earlier partial attempt before inserting.
		if err := s.txnRepo.DeleteTransactionsByDocument(ctx, doc.DocumentID); err != nil {
			return err
		}
		if err := s.txnRepo.SaveTransactions(ctx, txns); err != nil {
			return err
		}
		meta["transactions_extracted"] = len(txns)

	case domain.DocTypeGST:
		summaries := ingest.ParseGSTReturn(rows)
		for i := range summaries {
			summaries[i].SummaryID = uuid.NewString()
			summaries[i].ClientID = doc.ClientID
			summaries[i].DocumentID = &doc.DocumentID
			summaries[i].CreatedAt = now
		}
		if err := s.gstRepo.DeleteGSTSummariesByDocument(ctx, doc.DocumentID); err != nil {
			return err
		}
		if err := s.gstRepo.SaveGSTSummaries(ctx, summaries); err != nil {
			return err
		}
		meta["summaries_extracted"] = len(summaries)

	default:
		// TDS and other documents are stored for reference only.
		meta["note"] = "document type has no structured extraction"
	}

	if err := s.docRepo.UpdateDocumentStatus(ctx, doc.DocumentID, domain.DocStatusProcessing, domain.DocStatusProcessed, meta); err != nil {
		return err
	}
	s.LogInfo(ctx, "ingested document", slog.String("document_id", doc.DocumentID), slog.Int("rows", len(rows)))
	return nil
}
