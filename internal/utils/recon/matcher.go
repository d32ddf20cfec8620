package recon

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// Matching runs in two phases. The exact phase pairs transactions that agree
// on amount, day and reference. The fuzzy phase scores the leftovers on a
// weighted blend of amount, date, reference and description similarity and
// accepts pairs scoring above acceptThreshold. Fuzzy pairs scoring below
// reviewThreshold are flagged for human review.
const (
	acceptThreshold = 0.70
	reviewThreshold = 0.85

	amountWeight      = 0.4
	dateWeight        = 0.3
	referenceWeight   = 0.2
	descriptionWeight = 0.1

	// Fuzzy date tolerance in days.
	dateToleranceDays = 3

	// fuzzyAmountTolerance is the relative band, as a share of the larger
	// amount, a fuzzy candidate's amounts must fall inside. Pairs outside
	// the band score zero outright regardless of the other fields.
	fuzzyAmountTolerance = 0.01
)

// exactAmountTolerance absorbs paise-level rounding between systems.
var exactAmountTolerance = decimal.NewFromFloat(0.01)

// MatchMethod records which phase produced a pair.
type MatchMethod string

const (
	MatchExact MatchMethod = "exact"
	MatchFuzzy MatchMethod = "fuzzy"
)

// MatchedPair is one bank transaction paired with one invoice transaction.
type MatchedPair struct {
	Bank    domain.Transaction
	Invoice domain.Transaction
	Score   float64
	Method  MatchMethod
}

// MatchResult is the full outcome of matching both sides.
type MatchResult struct {
	Pairs             []MatchedPair
	UnmatchedBank     []domain.Transaction
	UnmatchedInvoices []domain.Transaction
}

// MatchTransactions pairs bank transactions against invoice transactions.
// Each transaction is used at most once.
func MatchTransactions(bank, invoices []domain.Transaction) MatchResult {
	result := MatchResult{}
	usedInvoices := make([]bool, len(invoices))
	matchedBank := make([]bool, len(bank))

	// Exact phase.
	for bi, b := range bank {
		for ii, inv := range invoices {
			if usedInvoices[ii] {
				continue
			}
			if isExactMatch(b, inv) {
				result.Pairs = append(result.Pairs, MatchedPair{
					Bank:    b,
					Invoice: inv,
					Score:   1.0,
					Method:  MatchExact,
				})
				usedInvoices[ii] = true
				matchedBank[bi] = true
				break
			}
		}
	}

	// Fuzzy phase over the leftovers. Each bank transaction takes its best
	// scoring invoice above the acceptance threshold.
	for bi, b := range bank {
		if matchedBank[bi] {
			continue
		}
		bestScore := 0.0
		bestIdx := -1
		for ii, inv := range invoices {
			if usedInvoices[ii] {
				continue
			}
			score := fuzzyScore(b, inv)
			if score > bestScore {
				bestScore = score
				bestIdx = ii
			}
		}
		if bestIdx >= 0 && bestScore > acceptThreshold {
			result.Pairs = append(result.Pairs, MatchedPair{
				Bank:    b,
				Invoice: invoices[bestIdx],
				Score:   bestScore,
				Method:  MatchFuzzy,
			})
			usedInvoices[bestIdx] = true
			matchedBank[bi] = true
		}
	}

	for bi, b := range bank {
		if !matchedBank[bi] {
			result.UnmatchedBank = append(result.UnmatchedBank, b)
		}
	}
	for ii, inv := range invoices {
		if !usedInvoices[ii] {
			result.UnmatchedInvoices = append(result.UnmatchedInvoices, inv)
		}
	}
	return result
}

func isExactMatch(b, inv domain.Transaction) bool {
	// Amounts are compared by magnitude: a debit booked negative still
	// settles the invoice it pays.
	if b.Amount.Abs().Sub(inv.Amount.Abs()).Abs().GreaterThan(exactAmountTolerance) {
		return false
	}
	by, bm, bd := b.TxnDate.Date()
	iy, im, id := inv.TxnDate.Date()
	if by != iy || bm != im || bd != id {
		return false
	}
	// References only disqualify when both sides carry one and they differ.
	if b.ReferenceID != "" && inv.ReferenceID != "" {
		return strings.EqualFold(strings.TrimSpace(b.ReferenceID), strings.TrimSpace(inv.ReferenceID))
	}
	return true
}

func fuzzyScore(b, inv domain.Transaction) float64 {
	amount, ok := amountScore(b.Amount, inv.Amount)
	if !ok {
		return 0
	}
	return amountWeight*amount +
		dateWeight*dateSimilarity(b, inv) +
		referenceWeight*referenceSimilarity(b.ReferenceID, inv.ReferenceID) +
		descriptionWeight*descriptionSimilarity(b.Description, inv.Description)
}

// amountScore grades amount agreement inside the fuzzy tolerance band,
// comparing magnitudes so negated debits line up with their invoices. The
// second return is false when the pair falls outside the band, or either
// amount is zero, and must be disqualified.
func amountScore(a, b decimal.Decimal) (float64, bool) {
	a, b = a.Abs(), b.Abs()
	if a.IsZero() || b.IsZero() {
		return 0, false
	}
	diff, _ := a.Sub(b).Abs().Div(decimal.Max(a, b)).Float64()
	if diff > fuzzyAmountTolerance {
		return 0, false
	}
	return 1 - diff/fuzzyAmountTolerance, true
}

func dateSimilarity(b, inv domain.Transaction) float64 {
	days := b.TxnDate.Sub(inv.TxnDate).Hours() / 24
	if days < 0 {
		days = -days
	}
	if days > dateToleranceDays {
		return 0
	}
	return 1 - days/dateToleranceDays
}

func referenceSimilarity(a, b string) float64 {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0
	}
	if strings.EqualFold(a, b) {
		return 1
	}
	return 0
}

// descriptionSimilarity is the word overlap ratio of the two descriptions.
func descriptionSimilarity(a, b string) float64 {
	wordsA := tokenize(a)
	wordsB := tokenize(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		setA[w] = struct{}{}
	}
	common := 0
	seen := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := setA[w]; ok {
			common++
		}
	}
	union := len(setA) + len(seen) - common
	return float64(common) / float64(union)
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}
