package domain

import "time"

// RunStatus is the reconciliation run lifecycle state. The graph is
// one-directional: pending -> running -> completed|failed. Nothing leaves a
// terminal state, and pollers must never observe anything outside this graph.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// CanTransitionTo reports whether the run state machine permits moving from
// s to next.
func (s RunStatus) CanTransitionTo(next RunStatus) bool {
	switch s {
	case RunStatusPending:
		return next == RunStatusRunning
	case RunStatusRunning:
		return next == RunStatusCompleted || next == RunStatusFailed
	}
	return false
}

// Terminal reports whether s is an end state.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// RunMetrics is the metrics_json payload the dashboard renders once a run
// completes.
type RunMetrics struct {
	BankTransactions    int     `json:"bank_transactions"`
	InvoiceTransactions int     `json:"invoice_transactions"`
	MatchedCount        int     `json:"matched_count"`
	UnmatchedBank       int     `json:"unmatched_bank"`
	UnmatchedInvoices   int     `json:"unmatched_invoices"`
	IssuesCount         int     `json:"issues_count"`
	BankTotal           float64 `json:"bank_total"`
	InvoiceTotal        float64 `json:"invoice_total"`
}

// Run is one reconciliation execution for a client. StartedAt is set exactly
// once, on entering running; EndedAt exactly once, on entering a terminal
// state. Metrics is nil until the run resolves.
type Run struct {
	RunID        string      `json:"runID" db:"run_id"`
	ClientID     string      `json:"clientID" db:"client_id"`
	Status       RunStatus   `json:"status" db:"status"`
	StartedAt    *time.Time  `json:"startedAt" db:"started_at"`
	EndedAt      *time.Time  `json:"endedAt" db:"ended_at"`
	Metrics      *RunMetrics `json:"metrics" db:"metrics_json"`
	ErrorMessage *string     `json:"errorMessage" db:"error_message"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
}
