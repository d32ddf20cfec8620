package domain

import "time"

// IssueSeverity rates how urgently an issue needs review.
type IssueSeverity string

const (
	SeverityLow    IssueSeverity = "low"
	SeverityMedium IssueSeverity = "med"
	SeverityHigh   IssueSeverity = "high"
)

// ValidIssueSeverity reports whether s is one of the closed set of severities.
func ValidIssueSeverity(s IssueSeverity) bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// IssueCategory classifies what kind of discrepancy was detected.
type IssueCategory string

const (
	CategoryMissingInvoice IssueCategory = "missing_invoice"
	CategoryDuplicate      IssueCategory = "duplicate"
	CategoryMismatch       IssueCategory = "mismatch"
	CategoryGSTMismatch    IssueCategory = "gst_mismatch"
	CategoryOther          IssueCategory = "other"
)

// ValidIssueCategory reports whether c is one of the closed set of categories.
func ValidIssueCategory(c IssueCategory) bool {
	switch c {
	case CategoryMissingInvoice, CategoryDuplicate, CategoryMismatch, CategoryGSTMismatch, CategoryOther:
		return true
	}
	return false
}

// IssueStatus is the triage state of an issue. Transitions only move
// forward: open -> accepted, open -> resolved, accepted -> resolved. No
// transition re-opens an issue, and nothing leaves resolved.
type IssueStatus string

const (
	IssueStatusOpen     IssueStatus = "open"
	IssueStatusAccepted IssueStatus = "accepted"
	IssueStatusResolved IssueStatus = "resolved"
)

// ValidIssueStatus reports whether s is one of the closed set of statuses.
func ValidIssueStatus(s IssueStatus) bool {
	return s == IssueStatusOpen || s == IssueStatusAccepted || s == IssueStatusResolved
}

// CanTransitionTo reports whether the triage state machine permits moving
// from s to next. Re-applying the current status is not a transition; the
// service treats it as an idempotent no-op.
func (s IssueStatus) CanTransitionTo(next IssueStatus) bool {
	switch s {
	case IssueStatusOpen:
		return next == IssueStatusAccepted || next == IssueStatusResolved
	case IssueStatusAccepted:
		return next == IssueStatusResolved
	}
	return false
}

// Issue is a detected discrepancy requiring human review. Everything except
// Status is immutable once persisted.
type Issue struct {
	IssueID   string         `json:"issueID" db:"issue_id"`
	ClientID  string         `json:"clientID" db:"client_id"`
	RunID     string         `json:"runID" db:"run_id"`
	Severity  IssueSeverity  `json:"severity" db:"severity"`
	Category  IssueCategory  `json:"category" db:"category"`
	Title     string         `json:"title" db:"title"`
	Details   map[string]any `json:"details" db:"details_json"`
	Status    IssueStatus    `json:"status" db:"status"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}
