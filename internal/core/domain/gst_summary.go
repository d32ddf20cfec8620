package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GSTSummary is a declared GST filing total for a period, extracted from an
// uploaded GST return. Compared against invoice totals during reconciliation.
type GSTSummary struct {
	SummaryID    string          `json:"summaryID" db:"summary_id"`
	ClientID     string          `json:"clientID" db:"client_id"`
	DocumentID   *string         `json:"documentID" db:"document_id"`
	Period       string          `json:"period" db:"period"` // e.g. "2024-04"
	TaxableValue decimal.Decimal `json:"taxableValue" db:"taxable_value"`
	TaxAmount    decimal.Decimal `json:"taxAmount" db:"tax_amount"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}
