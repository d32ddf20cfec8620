package domain

import "time"

// DocumentType classifies an uploaded document.
type DocumentType string

const (
	DocTypeBank    DocumentType = "bank"
	DocTypeInvoice DocumentType = "invoice"
	DocTypeGST     DocumentType = "gst"
	DocTypeTDS     DocumentType = "tds"
	DocTypeOther   DocumentType = "other"
)

// ValidDocumentType reports whether t is one of the closed set of types.
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocTypeBank, DocTypeInvoice, DocTypeGST, DocTypeTDS, DocTypeOther:
		return true
	}
	return false
}

// DocumentStatus is the ingestion lifecycle state. Transitions are monotonic:
// pending -> processing -> processed|failed. A document never reverts.
type DocumentStatus string

const (
	DocStatusPending    DocumentStatus = "pending"
	DocStatusProcessing DocumentStatus = "processing"
	DocStatusProcessed  DocumentStatus = "processed"
	DocStatusFailed     DocumentStatus = "failed"
)

// CanTransitionTo reports whether the ingestion state machine permits moving
// from s to next.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	switch s {
	case DocStatusPending:
		return next == DocStatusProcessing
	case DocStatusProcessing:
		return next == DocStatusProcessed || next == DocStatusFailed
	}
	return false
}

// Document is an uploaded source file (bank statement, invoice register, GST
// return, ...). The raw bytes live in object storage under StorageKey.
type Document struct {
	DocumentID string         `json:"documentID" db:"document_id"`
	OrgID      string         `json:"orgID" db:"org_id"`
	ClientID   string         `json:"clientID" db:"client_id"`
	Type       DocumentType   `json:"type" db:"doc_type"`
	Filename   string         `json:"filename" db:"filename"`
	StorageKey string         `json:"-" db:"storage_key"`
	Status     DocumentStatus `json:"status" db:"status"`
	UploadedBy string         `json:"uploadedBy" db:"uploaded_by"`
	UploadedAt time.Time      `json:"uploadedAt" db:"uploaded_at"`
	Meta       map[string]any `json:"meta" db:"meta_json"` // ingestion summary / failure reason
}
