package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionSource identifies which side of the reconciliation a
// transaction was extracted from.
type TransactionSource string

const (
	SourceBank    TransactionSource = "bank"
	SourceInvoice TransactionSource = "invoice"
)

// Transaction is a normalized row extracted from a bank statement or an
// invoice register during ingestion.
type Transaction struct {
	TransactionID string            `json:"transactionID" db:"transaction_id"`
	ClientID      string            `json:"clientID" db:"client_id"`
	DocumentID    *string           `json:"documentID" db:"document_id"`
	Source        TransactionSource `json:"source" db:"source"`
	TxnDate       time.Time         `json:"txnDate" db:"txn_date"`
	Amount        decimal.Decimal   `json:"amount" db:"amount"`
	Description   string            `json:"description" db:"description"`
	Counterparty  string            `json:"counterparty" db:"counterparty"`
	ReferenceID   string            `json:"referenceID" db:"reference_id"` // invoice no, cheque no, UTR, ...
	CreatedAt     time.Time         `json:"createdAt" db:"created_at"`
}
