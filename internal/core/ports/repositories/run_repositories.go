package repositories

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// RunReader defines read operations for reconciliation run data
type RunReader interface {
	// FindRunByID retrieves a run by ID, scoped to the given org.
	FindRunByID(ctx context.Context, orgID string, runID string) (*domain.Run, error)

	// FindRun retrieves a run by ID without org scoping. Only the background
	// workers use this; request paths always scope by org.
	FindRun(ctx context.Context, runID string) (*domain.Run, error)

	// ListRunsByClient retrieves runs for a client, newest first.
	ListRunsByClient(ctx context.Context, orgID string, clientID string) ([]domain.Run, error)

	// HasActiveRun reports whether the client has a run in pending or
	// running state.
	HasActiveRun(ctx context.Context, clientID string) (bool, error)
}

// RunWriter defines write operations for reconciliation run data
type RunWriter interface {
	// SaveRun persists a new run in pending state.
	SaveRun(ctx context.Context, run domain.Run) error

	// MarkRunRunning moves a pending run to running and stamps started_at.
	// Returns apperrors.ErrInvalidTransition when the run is not pending,
	// which makes the claim safe to retry from competing workers.
	MarkRunRunning(ctx context.Context, runID string) error

	// MarkRunCompleted moves a running run to completed, stamping ended_at
	// and recording the computed metrics.
	MarkRunCompleted(ctx context.Context, runID string, metrics domain.RunMetrics) error

	// MarkRunFailed moves a running run to failed, stamping ended_at and
	// recording the failure reason.
	MarkRunFailed(ctx context.Context, runID string, errorMessage string) error
}

// RunRepositoryFacade combines all run-related repository interfaces
type RunRepositoryFacade interface {
	RunReader
	RunWriter
}
