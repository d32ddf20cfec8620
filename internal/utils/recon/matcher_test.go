package recon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

func bankTxn(id string, amount float64, date time.Time, desc, ref string) domain.Transaction {
	return domain.Transaction{
		TransactionID: id,
		Source:        domain.SourceBank,
		TxnDate:       date,
		Amount:        decimal.NewFromFloat(amount),
		Description:   desc,
		ReferenceID:   ref,
	}
}

func invoiceTxn(id string, amount float64, date time.Time, desc, ref string) domain.Transaction {
	txn := bankTxn(id, amount, date, desc, ref)
	txn.Source = domain.SourceInvoice
	return txn
}

func TestMatchTransactions_ExactMatch(t *testing.T) {
	date := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	bank := []domain.Transaction{
		bankTxn("b1", 11800.00, date, "NEFT ACME SUPPLIES", "INV-101"),
	}
	invoices := []domain.Transaction{
		invoiceTxn("i1", 11800.00, date, "Acme Supplies invoice", "INV-101"),
	}

	result := MatchTransactions(bank, invoices)

	assert.Len(t, result.Pairs, 1)
	assert.Equal(t, MatchExact, result.Pairs[0].Method)
	assert.Equal(t, 1.0, result.Pairs[0].Score)
	assert.Equal(t, "b1", result.Pairs[0].Bank.TransactionID)
	assert.Equal(t, "i1", result.Pairs[0].Invoice.TransactionID)
	assert.Empty(t, result.UnmatchedBank)
	assert.Empty(t, result.UnmatchedInvoices)
}

func TestMatchTransactions_ExactMatchWithinAmountTolerance(t *testing.T) {
	date := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	bank := []domain.Transaction{bankTxn("b1", 5000.00, date, "", "")}
	invoices := []domain.Transaction{invoiceTxn("i1", 5000.01, date, "", "")}

	result := MatchTransactions(bank, invoices)

	assert.Len(t, result.Pairs, 1)
	assert.Equal(t, MatchExact, result.Pairs[0].Method)
}

func TestMatchTransactions_ConflictingReferencesBlockExactMatch(t *testing.T) {
	date := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	bank := []domain.Transaction{bankTxn("b1", 5000.00, date, "payment", "INV-200")}
	invoices := []domain.Transaction{invoiceTxn("i1", 5000.00, date, "payment", "INV-999")}

	result := MatchTransactions(bank, invoices)

	// Same amount and day still carry a high fuzzy score, so the pair is
	// accepted but not labelled exact.
	assert.Len(t, result.Pairs, 1)
	assert.Equal(t, MatchFuzzy, result.Pairs[0].Method)
	assert.Less(t, result.Pairs[0].Score, 1.0)
}

func TestMatchTransactions_NegatedDebitMatchesInvoice(t *testing.T) {
	date := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	bank := []domain.Transaction{
		bankTxn("b1", -11800.00, date, "NEFT ACME SUPPLIES", "INV-101"),
	}
	invoices := []domain.Transaction{
		invoiceTxn("i1", 11800.00, date, "Acme Supplies invoice", "INV-101"),
	}

	result := MatchTransactions(bank, invoices)

	// Statement debits are stored negative; the magnitude still settles the
	// invoice, so the pair is exact.
	assert.Len(t, result.Pairs, 1)
	assert.Equal(t, MatchExact, result.Pairs[0].Method)
	assert.Empty(t, result.UnmatchedBank)
	assert.Empty(t, result.UnmatchedInvoices)
}

func TestMatchTransactions_NegatedDebitFuzzyMatches(t *testing.T) {
	bank := []domain.Transaction{
		bankTxn("b1", -25000.00, time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC), "NEFT payment acme supplies", "UTR991"),
	}
	invoices := []domain.Transaction{
		invoiceTxn("i1", 25000.00, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), "acme supplies april order", "UTR991"),
	}

	result := MatchTransactions(bank, invoices)

	assert.Len(t, result.Pairs, 1)
	assert.Equal(t, MatchFuzzy, result.Pairs[0].Method)
}

func TestMatchTransactions_AmountOutsideToleranceNeverMatches(t *testing.T) {
	date := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	bank := []domain.Transaction{
		bankTxn("b1", 10000.00, date, "acme supplies payment", "REF-1"),
	}
	invoices := []domain.Transaction{
		invoiceTxn("i1", 12000.00, date, "acme supplies payment", "REF-1"),
	}

	result := MatchTransactions(bank, invoices)

	// Date, reference and description all agree, but a 20% amount gap can
	// never be the same payment.
	assert.Empty(t, result.Pairs)
	assert.Len(t, result.UnmatchedBank, 1)
	assert.Len(t, result.UnmatchedInvoices, 1)
}

func TestMatchTransactions_FuzzyMatchNearbyDate(t *testing.T) {
	bank := []domain.Transaction{
		bankTxn("b1", 25000.00, time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC), "NEFT payment acme supplies", "UTR991"),
	}
	invoices := []domain.Transaction{
		invoiceTxn("i1", 25000.00, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), "acme supplies april order", "UTR991"),
	}

	result := MatchTransactions(bank, invoices)

	assert.Len(t, result.Pairs, 1)
	assert.Equal(t, MatchFuzzy, result.Pairs[0].Method)
	assert.Greater(t, result.Pairs[0].Score, acceptThreshold)
}

func TestMatchTransactions_NoMatchLeavesBothSidesUnmatched(t *testing.T) {
	bank := []domain.Transaction{
		bankTxn("b1", 1000.00, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "rent", "CHQ-1"),
	}
	invoices := []domain.Transaction{
		invoiceTxn("i1", 99999.00, time.Date(2024, 7, 20, 0, 0, 0, 0, time.UTC), "software licence", "INV-77"),
	}

	result := MatchTransactions(bank, invoices)

	assert.Empty(t, result.Pairs)
	assert.Len(t, result.UnmatchedBank, 1)
	assert.Len(t, result.UnmatchedInvoices, 1)
}

func TestMatchTransactions_EachInvoiceUsedOnce(t *testing.T) {
	date := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	bank := []domain.Transaction{
		bankTxn("b1", 5000.00, date, "", ""),
		bankTxn("b2", 5000.00, date, "", ""),
	}
	invoices := []domain.Transaction{
		invoiceTxn("i1", 5000.00, date, "", ""),
	}

	result := MatchTransactions(bank, invoices)

	assert.Len(t, result.Pairs, 1)
	assert.Len(t, result.UnmatchedBank, 1)
	assert.Empty(t, result.UnmatchedInvoices)
}

func TestMatchTransactions_PrefersBestFuzzyCandidate(t *testing.T) {
	bank := []domain.Transaction{
		bankTxn("b1", 10000.00, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), "acme supplies payment", "REF-1"),
	}
	invoices := []domain.Transaction{
		invoiceTxn("far", 10000.00, time.Date(2024, 4, 13, 0, 0, 0, 0, time.UTC), "unrelated goods", ""),
		invoiceTxn("near", 10000.00, time.Date(2024, 4, 11, 0, 0, 0, 0, time.UTC), "acme supplies payment", "REF-1"),
	}

	result := MatchTransactions(bank, invoices)

	assert.Len(t, result.Pairs, 1)
	assert.Equal(t, "near", result.Pairs[0].Invoice.TransactionID)
}

func TestMatchTransactions_EmptyInputs(t *testing.T) {
	result := MatchTransactions(nil, nil)
	assert.Empty(t, result.Pairs)
	assert.Empty(t, result.UnmatchedBank)
	assert.Empty(t, result.UnmatchedInvoices)
}

func TestAmountScore(t *testing.T) {
	tests := []struct {
		name   string
		a, b   float64
		want   float64
		wantOK bool
	}{
		{name: "identical amounts", a: 100, b: 100, want: 1.0, wantOK: true},
		{name: "opposite signs same magnitude", a: 100, b: -100, want: 1.0, wantOK: true},
		{name: "half a percent apart", a: 100, b: 100.50, want: 0.5025, wantOK: true},
		{name: "two percent apart disqualifies", a: 100, b: 102, want: 0, wantOK: false},
		{name: "zero amount disqualifies", a: 0, b: 100, want: 0, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := amountScore(decimal.NewFromFloat(tt.a), decimal.NewFromFloat(tt.b))
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestDateSimilarity(t *testing.T) {
	base := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	sameDay := dateSimilarity(
		domain.Transaction{TxnDate: base},
		domain.Transaction{TxnDate: base},
	)
	assert.Equal(t, 1.0, sameDay)

	beyondTolerance := dateSimilarity(
		domain.Transaction{TxnDate: base},
		domain.Transaction{TxnDate: base.AddDate(0, 0, 5)},
	)
	assert.Equal(t, 0.0, beyondTolerance)

	withinTolerance := dateSimilarity(
		domain.Transaction{TxnDate: base},
		domain.Transaction{TxnDate: base.AddDate(0, 0, -2)},
	)
	assert.Greater(t, withinTolerance, 0.0)
	assert.Less(t, withinTolerance, 1.0)
}

func TestDescriptionSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, descriptionSimilarity("acme supplies", "ACME Supplies"))
	assert.Equal(t, 0.0, descriptionSimilarity("", "anything"))
	assert.Equal(t, 0.0, descriptionSimilarity("rent april", "software licence"))

	partial := descriptionSimilarity("acme supplies payment", "acme supplies invoice")
	assert.Greater(t, partial, 0.0)
	assert.Less(t, partial, 1.0)
}
