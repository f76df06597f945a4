package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	runs map[string]Run
	seq  int
}

func newMemStore() *memStore {
	return &memStore{runs: map[string]Run{}}
}

func (m *memStore) CreateRun(ctx context.Context, jobType, requestedBy string) (Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	run := Run{ID: fmt.Sprintf("run-%d", m.seq), Type: jobType, Status: StatusQueued, RequestedBy: requestedBy, CreatedAt: time.Now()}
	m.runs[run.ID] = run
	return run, nil
}

func (m *memStore) MarkRunning(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run := m.runs[id]
	now := time.Now()
	run.Status, run.StartedAt = StatusRunning, &now
	m.runs[id] = run
	return nil
}

func (m *memStore) FinishRun(ctx context.Context, id, status string, details []byte, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run := m.runs[id]
	now := time.Now()
	run.Status, run.Details, run.Error, run.CompletedAt = status, details, errMsg, &now
	m.runs[id] = run
	return nil
}

func (m *memStore) GetRun(ctx context.Context, id string) (Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return Run{}, ErrRunNotFound
	}
	return run, nil
}

func waitForStatus(t *testing.T, r *Runner, id, status string) Run {
	t.Helper()
	var run Run
	require.Eventually(t, func() bool {
		var err error
		run, err = r.Get(context.Background(), id)
		return err == nil && run.Status == status
	}, time.Second, 5*time.Millisecond)
	return run
}

func TestRunnerCompletesJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := New(newMemStore(), 4)
	runner.Start(ctx)

	run, err := runner.Enqueue(ctx, "payroll_run", "u1", func(context.Context) (any, error) {
		return map[string]int{"recorded": 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, run.Status)

	done := waitForStatus(t, runner, run.ID, StatusCompleted)
	assert.JSONEq(t, `{"recorded":3}`, string(done.Details))
	assert.Equal(t, "u1", done.RequestedBy)
	assert.NotNil(t, done.CompletedAt)
}

func TestRunnerRecordsFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := New(newMemStore(), 4)
	runner.Start(ctx)

	run, err := runner.Enqueue(ctx, "payroll_run", "", func(context.Context) (any, error) {
		return nil, errors.New("ledger unavailable")
	})
	require.NoError(t, err)

	failed := waitForStatus(t, runner, run.ID, StatusFailed)
	assert.Equal(t, "ledger unavailable", failed.Error)
}

func TestEnqueueFullQueue(t *testing.T) {
	store := newMemStore()
	runner := New(store, 1)
	noop := func(context.Context) (any, error) { return nil, nil }

	_, err := runner.Enqueue(context.Background(), "payroll_run", "", noop)
	require.NoError(t, err)
	_, err = runner.Enqueue(context.Background(), "payroll_run", "", noop)
	assert.ErrorIs(t, err, ErrQueueFull)

	rejected, err := store.GetRun(context.Background(), "run-2")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, rejected.Status)
}

func TestGetUnknownRun(t *testing.T) {
	_, err := New(newMemStore(), 1).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
