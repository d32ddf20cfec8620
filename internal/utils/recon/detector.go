package recon

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// Detection thresholds. Amounts are in rupees.
var (
	// Unmatched entries below this are ignored as noise.
	materialityFloor = decimal.NewFromInt(100)

	severityHighFloor   = decimal.NewFromInt(100000)
	severityMediumFloor = decimal.NewFromInt(10000)
)

// GST period totals deviating more than these fractions raise an issue.
const (
	gstDeviationThreshold = 0.01
	gstHighDeviation      = 0.05
)

// Finding is a detected discrepancy before it is persisted. The run service
// stamps identity, run linkage and timestamps when saving.
type Finding struct {
	Severity domain.IssueSeverity
	Category domain.IssueCategory
	Title    string
	Details  map[string]any
}

// SeverityForAmount grades a finding by the money at stake.
func SeverityForAmount(amount decimal.Decimal) domain.IssueSeverity {
	abs := amount.Abs()
	if abs.GreaterThan(severityHighFloor) {
		return domain.SeverityHigh
	}
	if abs.GreaterThan(severityMediumFloor) {
		return domain.SeverityMedium
	}
	return domain.SeverityLow
}

// DetectIssues runs every detection rule over a completed match.
func DetectIssues(result MatchResult, bank, invoices []domain.Transaction, gstSummaries []domain.GSTSummary) []Finding {
	var findings []Finding
	findings = append(findings, detectMissingInvoices(result.UnmatchedBank)...)
	findings = append(findings, detectUnmatchedInvoices(result.UnmatchedInvoices)...)
	findings = append(findings, detectDuplicates(bank, "bank statement")...)
	findings = append(findings, detectDuplicates(invoices, "invoice register")...)
	findings = append(findings, detectGSTMismatches(invoices, gstSummaries)...)
	findings = append(findings, detectLowConfidenceMatches(result.Pairs)...)
	return findings
}

// detectMissingInvoices flags material bank entries with no invoice.
func detectMissingInvoices(unmatchedBank []domain.Transaction) []Finding {
	var findings []Finding
	for _, txn := range unmatchedBank {
		if txn.Amount.Abs().LessThanOrEqual(materialityFloor) {
			continue
		}
		findings = append(findings, Finding{
			Severity: SeverityForAmount(txn.Amount),
			Category: domain.CategoryMissingInvoice,
			Title:    fmt.Sprintf("Bank entry of %s on %s has no matching invoice", txn.Amount.StringFixed(2), txn.TxnDate.Format("2006-01-02")),
			Details: map[string]any{
				"transaction_id": txn.TransactionID,
				"amount":         txn.Amount.InexactFloat64(),
				"date":           txn.TxnDate.Format("2006-01-02"),
				"description":    txn.Description,
				"reference_id":   txn.ReferenceID,
			},
		})
	}
	return findings
}

// detectUnmatchedInvoices flags material invoices with no bank movement.
func detectUnmatchedInvoices(unmatchedInvoices []domain.Transaction) []Finding {
	var findings []Finding
	for _, txn := range unmatchedInvoices {
		if txn.Amount.Abs().LessThanOrEqual(materialityFloor) {
			continue
		}
		findings = append(findings, Finding{
			Severity: SeverityForAmount(txn.Amount),
			Category: domain.CategoryMismatch,
			Title:    fmt.Sprintf("Invoice of %s on %s has no matching bank entry", txn.Amount.StringFixed(2), txn.TxnDate.Format("2006-01-02")),
			Details: map[string]any{
				"transaction_id": txn.TransactionID,
				"amount":         txn.Amount.InexactFloat64(),
				"date":           txn.TxnDate.Format("2006-01-02"),
				"description":    txn.Description,
				"reference_id":   txn.ReferenceID,
			},
		})
	}
	return findings
}

// detectDuplicates flags repeated (amount, date) pairs within one source.
func detectDuplicates(txns []domain.Transaction, sourceLabel string) []Finding {
	type dupKey struct {
		amount string
		date   string
	}
	groups := make(map[dupKey][]domain.Transaction)
	for _, txn := range txns {
		key := dupKey{amount: txn.Amount.StringFixed(2), date: txn.TxnDate.Format("2006-01-02")}
		groups[key] = append(groups[key], txn)
	}
	var findings []Finding
	for key, group := range groups {
		if len(group) < 2 {
			continue
		}
		ids := make([]string, len(group))
		for i, txn := range group {
			ids[i] = txn.TransactionID
		}
		findings = append(findings, Finding{
			Severity: SeverityForAmount(group[0].Amount),
			Category: domain.CategoryDuplicate,
			Title:    fmt.Sprintf("%d entries of %s on %s in %s", len(group), key.amount, key.date, sourceLabel),
			Details: map[string]any{
				"source":          sourceLabel,
				"amount":          group[0].Amount.InexactFloat64(),
				"date":            key.date,
				"count":           len(group),
				"transaction_ids": ids,
			},
		})
	}
	return findings
}

// detectGSTMismatches compares declared GST taxable values against invoice
// totals for the same period.
func detectGSTMismatches(invoices []domain.Transaction, gstSummaries []domain.GSTSummary) []Finding {
	if len(gstSummaries) == 0 {
		return nil
	}
	invoiceTotals := make(map[string]decimal.Decimal)
	for _, txn := range invoices {
		period := txn.TxnDate.Format("2006-01")
		invoiceTotals[period] = invoiceTotals[period].Add(txn.Amount)
	}

	var findings []Finding
	for _, summary := range gstSummaries {
		declared := summary.TaxableValue
		booked := invoiceTotals[summary.Period]
		// A period is only comparable when both sides carry a positive
		// value. A zero declaration or a period with no booked invoices is
		// a filing gap, not a deviation.
		if !declared.IsPositive() || !booked.IsPositive() {
			continue
		}
		larger := decimal.Max(declared.Abs(), booked.Abs())
		deviation, _ := declared.Sub(booked).Abs().Div(larger).Float64()
		if deviation <= gstDeviationThreshold {
			continue
		}
		severity := domain.SeverityMedium
		if deviation > gstHighDeviation {
			severity = domain.SeverityHigh
		}
		findings = append(findings, Finding{
			Severity: severity,
			Category: domain.CategoryGSTMismatch,
			Title:    fmt.Sprintf("GST taxable value for %s deviates %.1f%% from booked invoices", summary.Period, deviation*100),
			Details: map[string]any{
				"period":         summary.Period,
				"declared_value": declared.InexactFloat64(),
				"booked_value":   booked.InexactFloat64(),
				"deviation_pct":  deviation * 100,
			},
		})
	}
	return findings
}

// detectLowConfidenceMatches surfaces fuzzy pairs a reviewer should confirm.
func detectLowConfidenceMatches(pairs []MatchedPair) []Finding {
	var findings []Finding
	for _, pair := range pairs {
		if pair.Method != MatchFuzzy || pair.Score >= reviewThreshold {
			continue
		}
		findings = append(findings, Finding{
			Severity: domain.SeverityLow,
			Category: domain.CategoryOther,
			Title:    fmt.Sprintf("Low confidence match (%.0f%%) between bank entry and invoice", pair.Score*100),
			Details: map[string]any{
				"bank_transaction_id":    pair.Bank.TransactionID,
				"invoice_transaction_id": pair.Invoice.TransactionID,
				"score":                  pair.Score,
				"bank_amount":            pair.Bank.Amount.InexactFloat64(),
				"invoice_amount":         pair.Invoice.Amount.InexactFloat64(),
			},
		})
	}
	return findings
}

// BuildMetrics summarizes a completed match for the run record.
func BuildMetrics(result MatchResult, bank, invoices []domain.Transaction, issueCount int) domain.RunMetrics {
	bankTotal := decimal.Zero
	for _, txn := range bank {
		bankTotal = bankTotal.Add(txn.Amount)
	}
	invoiceTotal := decimal.Zero
	for _, txn := range invoices {
		invoiceTotal = invoiceTotal.Add(txn.Amount)
	}
	return domain.RunMetrics{
		BankTransactions:    len(bank),
		InvoiceTransactions: len(invoices),
		MatchedCount:        len(result.Pairs),
		UnmatchedBank:       len(result.UnmatchedBank),
		UnmatchedInvoices:   len(result.UnmatchedInvoices),
		IssuesCount:         issueCount,
		BankTotal:           bankTotal.InexactFloat64(),
		InvoiceTotal:        invoiceTotal.InexactFloat64(),
	}
}
