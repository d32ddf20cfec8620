package recon

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// Row caps keep the rendered tables readable.
const (
	maxMatchRows     = 20
	maxUnmatchedRows = 15
	maxIssueRows     = 10
)

// FormatINR renders an amount as rupees with thousands separators.
func FormatINR(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s₹%s.%s", sign, b.String(), fracPart)
}

// BuildWorkingPapers renders the working papers markdown for a run.
func BuildWorkingPapers(client *domain.Client, run *domain.Run, result MatchResult, bank, invoices []domain.Transaction, gstSummaries []domain.GSTSummary, now time.Time) string {
	var md []string
	md = append(md, fmt.Sprintf("# Working Papers - %s", client.Name))
	md = append(md, fmt.Sprintf("\n**Run ID:** %s", run.RunID))
	md = append(md, fmt.Sprintf("\n**Generated:** %s", now.Format("2006-01-02 15:04:05")))
	md = append(md, "\n")

	md = append(md, "## Bank Transactions Summary")
	if len(bank) > 0 {
		credits, debits := decimal.Zero, decimal.Zero
		for _, txn := range bank {
			if txn.Amount.IsNegative() {
				debits = debits.Add(txn.Amount.Abs())
			} else {
				credits = credits.Add(txn.Amount)
			}
		}
		md = append(md, fmt.Sprintf("\n- **Total Transactions:** %d", len(bank)))
		md = append(md, fmt.Sprintf("- **Total Credits:** %s", FormatINR(credits)))
		md = append(md, fmt.Sprintf("- **Total Debits:** %s", FormatINR(debits)))
	} else {
		md = append(md, "\nNo bank transactions found.")
	}

	md = append(md, "\n## Invoice Summary")
	if len(invoices) > 0 {
		invoiced := decimal.Zero
		for _, txn := range invoices {
			invoiced = invoiced.Add(txn.Amount.Abs())
		}
		md = append(md, fmt.Sprintf("\n- **Total Invoices:** %d", len(invoices)))
		md = append(md, fmt.Sprintf("- **Total Invoiced Amount:** %s", FormatINR(invoiced)))
	} else {
		md = append(md, "\nNo invoices found.")
	}

	md = append(md, "\n## Reconciliation Results")
	md = append(md, fmt.Sprintf("\n- **Matched Transactions:** %d", len(result.Pairs)))
	md = append(md, fmt.Sprintf("- **Unmatched Bank Entries:** %d", len(result.UnmatchedBank)))
	md = append(md, fmt.Sprintf("- **Unmatched Invoices:** %d", len(result.UnmatchedInvoices)))

	if len(result.Pairs) > 0 {
		md = append(md, "\n### Matched Transactions")
		md = append(md, "\n| Bank Amount | Invoice Amount | Confidence | Type |")
		md = append(md, "|-------------|----------------|------------|------|")
		for i, pair := range result.Pairs {
			if i >= maxMatchRows {
				break
			}
			md = append(md, fmt.Sprintf("| %s | %s | %.0f%% | %s |",
				FormatINR(pair.Bank.Amount), FormatINR(pair.Invoice.Amount), pair.Score*100, pair.Method))
		}
	}

	if len(result.UnmatchedBank) > 0 {
		md = append(md, "\n### Unmatched Bank Entries")
		md = append(md, "\n| Date | Amount | Description |")
		md = append(md, "|------|--------|-------------|")
		for i, txn := range result.UnmatchedBank {
			if i >= maxUnmatchedRows {
				break
			}
			md = append(md, fmt.Sprintf("| %s | %s | %s |",
				txn.TxnDate.Format("2006-01-02"), FormatINR(txn.Amount), truncate(txn.Description, 50)))
		}
	}

	if len(gstSummaries) > 0 {
		md = append(md, "\n## GST Summary")
		md = append(md, "\n| Period | Taxable Value | Tax Amount |")
		md = append(md, "|--------|---------------|------------|")
		for _, g := range gstSummaries {
			md = append(md, fmt.Sprintf("| %s | %s | %s |", g.Period, FormatINR(g.TaxableValue), FormatINR(g.TaxAmount)))
		}
	}

	return strings.Join(md, "\n")
}

// BuildComplianceSummary renders the compliance summary markdown for a run.
func BuildComplianceSummary(client *domain.Client, run *domain.Run, issues []domain.Issue, now time.Time) string {
	var md []string
	md = append(md, fmt.Sprintf("# Compliance Summary - %s", client.Name))
	md = append(md, fmt.Sprintf("\n**Generated:** %s", now.Format("2006-01-02 15:04:05")))
	md = append(md, "\n")

	md = append(md, "> **DISCLAIMER:** This summary is generated for preparation and workflow automation purposes only. ")
	md = append(md, "> It does NOT constitute tax filing, certification, or legal opinion.")
	md = append(md, "\n")

	md = append(md, "## Executive Summary")
	highCount := 0
	for _, issue := range issues {
		if issue.Severity == domain.SeverityHigh {
			highCount++
		}
	}
	if len(issues) == 0 {
		md = append(md, "\nNo issues detected. All transactions reconciled successfully.")
	} else {
		md = append(md, fmt.Sprintf("\n**%d issue(s) detected** requiring attention.", len(issues)))
		if highCount > 0 {
			md = append(md, fmt.Sprintf("\n**%d high severity issue(s)** require immediate review.", highCount))
		}
	}

	md = append(md, "\n## Issue Summary")
	md = append(md, "\n| Category | Count |")
	md = append(md, "|----------|-------|")
	byCategory := make(map[domain.IssueCategory]int)
	for _, issue := range issues {
		byCategory[issue.Category]++
	}
	for _, cat := range []domain.IssueCategory{
		domain.CategoryMissingInvoice,
		domain.CategoryDuplicate,
		domain.CategoryMismatch,
		domain.CategoryGSTMismatch,
		domain.CategoryOther,
	} {
		if byCategory[cat] > 0 {
			md = append(md, fmt.Sprintf("| %s | %d |", categoryLabel(cat), byCategory[cat]))
		}
	}

	if len(issues) > 0 {
		md = append(md, "\n## Detailed Issues")
		for _, severity := range []domain.IssueSeverity{domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow} {
			var sevIssues []domain.Issue
			for _, issue := range issues {
				if issue.Severity == severity {
					sevIssues = append(sevIssues, issue)
				}
			}
			if len(sevIssues) == 0 {
				continue
			}
			md = append(md, fmt.Sprintf("\n### %s Severity", severityLabel(severity)))
			for idx, issue := range sevIssues {
				if idx >= maxIssueRows {
					break
				}
				md = append(md, fmt.Sprintf("\n**%d. %s**", idx+1, issue.Title))
				md = append(md, fmt.Sprintf("- Category: %s", issue.Category))
			}
		}
	}

	return strings.Join(md, "\n")
}

func categoryLabel(cat domain.IssueCategory) string {
	words := strings.Split(string(cat), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func severityLabel(s domain.IssueSeverity) string {
	switch s {
	case domain.SeverityHigh:
		return "High"
	case domain.SeverityMedium:
		return "Medium"
	default:
		return "Low"
	}
}

func truncate(s string, n int) string {
	if s == "" {
		return "N/A"
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
