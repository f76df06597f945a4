// Package jobs runs long operations in the background and keeps a record of
// each run in job_runs.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var (
	ErrQueueFull   = errors.New("job queue is full")
	ErrRunNotFound = errors.New("job run not found")
)

type Run struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	RequestedBy string          `json:"requestedBy,omitempty"`
	Details     json.RawMessage `json:"details,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

type StoreAPI interface {
	CreateRun(ctx context.Context, jobType, requestedBy string) (Run, error)
	MarkRunning(ctx context.Context, id string) error
	FinishRun(ctx context.Context, id, status string, details []byte, errMsg string) error
	GetRun(ctx context.Context, id string) (Run, error)
}

// Func is the work of one job. Its result is stored as the run details.
type Func func(ctx context.Context) (any, error)

type job struct {
	id  string
	typ string
	run Func
}

type Runner struct {
	store StoreAPI
	queue chan job
}

func New(store StoreAPI, size int) *Runner {
	if size <= 0 {
		size = 16
	}
	return &Runner{store: store, queue: make(chan job, size)}
}

// Start consumes the queue until ctx is done.
func (r *Runner) Start(ctx context.Context) {
	go r.worker(ctx)
}

// Enqueue records a queued run and hands it to the worker. A full queue
// fails the run immediately.
func (r *Runner) Enqueue(ctx context.Context, jobType, requestedBy string, fn Func) (Run, error) {
	run, err := r.store.CreateRun(ctx, jobType, requestedBy)
	if err != nil {
		return Run{}, fmt.Errorf("create job run: %w", err)
	}
	select {
	case r.queue <- job{id: run.ID, typ: jobType, run: fn}:
		return run, nil
	default:
		if err := r.store.FinishRun(ctx, run.ID, StatusFailed, nil, ErrQueueFull.Error()); err != nil {
			slog.Warn("job run update failed", "jobId", run.ID, "err", err)
		}
		return Run{}, ErrQueueFull
	}
}

func (r *Runner) Get(ctx context.Context, id string) (Run, error) {
	return r.store.GetRun(ctx, id)
}

func (r *Runner) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-r.queue:
			r.runJob(ctx, j)
		}
	}
}

func (r *Runner) runJob(ctx context.Context, j job) {
	if err := r.store.MarkRunning(ctx, j.id); err != nil {
		slog.Warn("job run update failed", "jobId", j.id, "err", err)
	}
	started := time.Now()
	details, err := j.run(ctx)

	status, errMsg := StatusCompleted, ""
	if err != nil {
		status, errMsg = StatusFailed, err.Error()
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "jobId", j.id, "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	// The run is finished even when the job context was cancelled mid-way.
	if updErr := r.store.FinishRun(context.WithoutCancel(ctx), j.id, status, detailsJSON, errMsg); updErr != nil {
		slog.Warn("job run update failed", "jobId", j.id, "err", updErr)
	}
	slog.Info("job finished", "jobId", j.id, "jobType", j.typ, "status", status, "durationMs", time.Since(started).Milliseconds())
}
