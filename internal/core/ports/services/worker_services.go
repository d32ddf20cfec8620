package services

// TaskEnqueuer hands background jobs to the worker pool. Enqueueing fails
// only when the queue is full or the pool is shutting down.
type TaskEnqueuer interface {
	// EnqueueIngestion schedules document ingestion.
	EnqueueIngestion(documentID string) error

	// EnqueueRun schedules reconciliation run execution.
	EnqueueRun(runID string) error
}
