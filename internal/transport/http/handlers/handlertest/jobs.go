package handlertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"schooloffice/internal/platform/jobs"
)

// JobStore keeps job runs in memory.
type JobStore struct {
	mu   sync.Mutex
	runs map[string]jobs.Run
}

func NewJobStore() *JobStore {
	return &JobStore{runs: map[string]jobs.Run{}}
}

func (s *JobStore) CreateRun(ctx context.Context, jobType, requestedBy string) (jobs.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := jobs.Run{
		ID:          fmt.Sprintf("run-%d", len(s.runs)+1),
		Type:        jobType,
		Status:      jobs.StatusQueued,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}
	s.runs[run.ID] = run
	return run, nil
}

func (s *JobStore) MarkRunning(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.runs[id]
	now := time.Now().UTC()
	run.Status, run.StartedAt = jobs.StatusRunning, &now
	s.runs[id] = run
	return nil
}

func (s *JobStore) FinishRun(ctx context.Context, id, status string, details []byte, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.runs[id]
	now := time.Now().UTC()
	run.Status, run.Details, run.Error, run.CompletedAt = status, details, errMsg, &now
	s.runs[id] = run
	return nil
}

func (s *JobStore) GetRun(ctx context.Context, id string) (jobs.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return jobs.Run{}, jobs.ErrRunNotFound
	}
	return run, nil
}
