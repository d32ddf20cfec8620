package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/middleware"
	"github.com/ledgerly/ledgerly_backend/internal/platform/config"
)

// JobKind selects which background operation a job triggers.
type JobKind string

const (
	JobIngestion JobKind = "ingestion"
	JobRun       JobKind = "run"
)

// Job is one unit of background work.
type Job struct {
	Kind JobKind
	ID   string
}

// ErrQueueFull is returned when the job buffer cannot take more work.
var ErrQueueFull = errors.New("worker queue is full")

// Pool runs ingestion and reconciliation jobs on a fixed set of goroutines.
// Jobs are only claims; the database status guards and redis locks make a
// duplicate or replayed job harmless.
type Pool struct {
	queue   chan Job
	workers int
	logger  *slog.Logger

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
}

// NewPool sizes the pool from configuration.
func NewPool(cfg *config.Config, logger *slog.Logger) *Pool {
	return &Pool{
		queue:   make(chan Job, cfg.WorkerQueueLen),
		workers: cfg.WorkerCount,
		logger:  logger,
	}
}

var _ portssvc.TaskEnqueuer = (*Pool)(nil)

// EnqueueIngestion schedules document ingestion.
func (p *Pool) EnqueueIngestion(documentID string) error {
	return p.enqueue(Job{Kind: JobIngestion, ID: documentID})
}

// EnqueueRun schedules reconciliation run execution.
func (p *Pool) EnqueueRun(runID string) error {
	return p.enqueue(Job{Kind: JobRun, ID: runID})
}

func (p *Pool) enqueue(job Job) error {
	select {
	case p.queue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the worker goroutines. Workers drain until ctx is canceled;
// Wait blocks until they finish.
func (p *Pool) Start(ctx context.Context, services *portssvc.ServiceContainer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i, services)
	}
	p.logger.Info("worker pool started", slog.Int("workers", p.workers), slog.Int("queue_len", cap(p.queue)))
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context, id int, services *portssvc.ServiceContainer) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.queue:
			p.execute(ctx, id, job, services)
		}
	}
}

func (p *Pool) execute(ctx context.Context, workerID int, job Job, services *portssvc.ServiceContainer) {
	logger := p.logger.With(
		slog.Int("worker", workerID),
		slog.String("job_kind", string(job.Kind)),
		slog.String("job_id", job.ID),
	)
	jobCtx := middleware.WithLogger(ctx, logger)

	var err error
	switch job.Kind {
	case JobIngestion:
		err = services.Document.IngestDocument(jobCtx, job.ID)
	case JobRun:
		err = services.Run.ExecuteRun(jobCtx, job.ID)
		if err == nil {
			// Reports are derived from a completed run. A generation failure
			// is logged by the report service and never fails the run.
			if genErr := services.Report.GenerateRunReports(jobCtx, job.ID); genErr != nil {
				logger.Error("report generation failed", slog.String("error", genErr.Error()))
			}
		}
	default:
		err = fmt.Errorf("unknown job kind %q", job.Kind)
	}
	if err != nil {
		logger.Error("job failed", slog.String("error", err.Error()))
		return
	}
	logger.Debug("job finished")
}
