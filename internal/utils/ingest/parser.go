package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// Column name candidates, tried in order. Real bank and accounting exports
// disagree wildly on header names.
var (
	bankDateColumns   = []string{"date", "txn_date", "transaction_date", "value_date", "posting_date"}
	bankAmountColumns = []string{"amount", "debit", "credit", "withdrawal", "deposit", "transaction_amount"}
	bankDescColumns   = []string{"description", "particulars", "narration", "details", "remarks"}
	bankRefColumns    = []string{"reference", "ref_no", "reference_id", "cheque_no", "utr", "transaction_id"}

	invoiceDateColumns   = []string{"date", "invoice_date", "bill_date"}
	invoiceAmountColumns = []string{"amount", "total", "invoice_amount", "grand_total", "net_amount"}
	invoiceDescColumns   = []string{"description", "particulars", "item", "product"}
	invoiceRefColumns    = []string{"invoice_no", "invoice_number", "bill_no", "reference"}
	invoicePartyColumns  = []string{"party", "customer", "vendor", "buyer", "seller", "counterparty"}

	gstPeriodColumns  = []string{"period", "return_period", "month", "tax_period"}
	gstTaxableColumns = []string{"taxable_value", "taxable_amount", "total_taxable_value"}
	gstTaxColumns     = []string{"tax_amount", "total_tax", "tax", "gst_amount"}

	dateFormats = []string{
		"2006-01-02",
		"02-01-2006",
		"02/01/2006",
		"01/02/2006",
		"2006/01/02",
		"02-Jan-2006",
		"02 Jan 2006",
		"02-January-2006",
	}
)

// ParseBankStatement extracts bank transactions from tabular rows. Rows
// without a parsable date and amount are skipped. Debit and withdrawal
// columns yield negative amounts.
func ParseBankStatement(rows []map[string]string) []domain.Transaction {
	var txns []domain.Transaction
	for _, row := range rows {
		date, ok := pickDate(row, bankDateColumns)
		if !ok {
			continue
		}
		amount, col, ok := pickAmount(row, bankAmountColumns)
		if !ok {
			continue
		}
		if (col == "debit" || col == "withdrawal") && amount.IsPositive() {
			amount = amount.Neg()
		}
		txns = append(txns, domain.Transaction{
			Source:      domain.SourceBank,
			TxnDate:     date,
			Amount:      amount,
			Description: pickString(row, bankDescColumns),
			ReferenceID: pickString(row, bankRefColumns),
		})
	}
	return txns
}

// ParseInvoiceRegister extracts invoice transactions from tabular rows.
func ParseInvoiceRegister(rows []map[string]string) []domain.Transaction {
	var txns []domain.Transaction
	for _, row := range rows {
		date, ok := pickDate(row, invoiceDateColumns)
		if !ok {
			continue
		}
		amount, _, ok := pickAmount(row, invoiceAmountColumns)
		if !ok {
			continue
		}
		txns = append(txns, domain.Transaction{
			Source:       domain.SourceInvoice,
			TxnDate:      date,
			Amount:       amount,
			Description:  pickString(row, invoiceDescColumns),
			ReferenceID:  pickString(row, invoiceRefColumns),
			Counterparty: pickString(row, invoicePartyColumns),
		})
	}
	return txns
}

// ParseGSTReturn extracts period summaries from a GST return export.
func ParseGSTReturn(rows []map[string]string) []domain.GSTSummary {
	var summaries []domain.GSTSummary
	for _, row := range rows {
		period := pickString(row, gstPeriodColumns)
		if period == "" {
			continue
		}
		taxable, _, okTaxable := pickAmount(row, gstTaxableColumns)
		tax, _, okTax := pickAmount(row, gstTaxColumns)
		if !okTaxable && !okTax {
			continue
		}
		if !okTaxable {
			taxable = decimal.Zero
		}
		if !okTax {
			tax = decimal.Zero
		}
		summaries = append(summaries, domain.GSTSummary{
			Period:       period,
			TaxableValue: taxable,
			TaxAmount:    tax,
		})
	}
	return summaries
}

func pickString(row map[string]string, columns []string) string {
	for _, col := range columns {
		if val := strings.TrimSpace(row[col]); val != "" {
			return val
		}
	}
	return ""
}

func pickDate(row map[string]string, columns []string) (time.Time, bool) {
	for _, col := range columns {
		val := strings.TrimSpace(row[col])
		if val == "" {
			continue
		}
		if date, ok := parseDate(val); ok {
			return date, true
		}
	}
	return time.Time{}, false
}

func pickAmount(row map[string]string, columns []string) (decimal.Decimal, string, bool) {
	for _, col := range columns {
		val := cleanAmount(row[col])
		if val == "" || val == "-" {
			continue
		}
		amount, err := decimal.NewFromString(val)
		if err != nil {
			continue
		}
		return amount, col, true
	}
	return decimal.Zero, "", false
}

func cleanAmount(val string) string {
	val = strings.ReplaceAll(val, ",", "")
	val = strings.ReplaceAll(val, "₹", "")
	return strings.TrimSpace(val)
}

func parseDate(val string) (time.Time, bool) {
	for _, format := range dateFormats {
		if date, err := time.Parse(format, val); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}
