package services

import (
	"context"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// RunReaderSvc defines read operations for reconciliation runs
type RunReaderSvc interface {
	// GetRunByID retrieves a run by ID within the caller's org.
	GetRunByID(ctx context.Context, orgID string, runID string) (*domain.Run, error)

	// ListRuns retrieves all runs for a client, newest first.
	ListRuns(ctx context.Context, orgID string, clientID string) ([]domain.Run, error)
}

// RunWriterSvc defines operations that start and execute runs
type RunWriterSvc interface {
	// CreateRun creates a pending run for the client and enqueues it for
	// background execution. The client must have at least one document and
	// no other run still in flight.
	CreateRun(ctx context.Context, orgID string, clientID string, actorID string) (*domain.Run, error)

	// ExecuteRun is the worker entry point: it claims the run, matches both
	// transaction sides, persists detected issues and records metrics.
	ExecuteRun(ctx context.Context, runID string) error
}

// RunSvcFacade combines all run-related service interfaces
type RunSvcFacade interface {
	RunReaderSvc
	RunWriterSvc
}
