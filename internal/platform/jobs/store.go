package jobs

import (
	"context"

	"github.com/jackc/pgx/v5"

	"schooloffice/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const runColumns = `id, job_type, status, COALESCE(requested_by::text, ''), details_json, COALESCE(error, ''),
           created_at, started_at, completed_at`

func (s *Store) CreateRun(ctx context.Context, jobType, requestedBy string) (Run, error) {
	return scanRun(s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status, requested_by)
    VALUES ($1, $2, NULLIF($3, '')::uuid)
    RETURNING `+runColumns, jobType, StatusQueued, requestedBy))
}

func (s *Store) MarkRunning(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, `UPDATE job_runs SET status = $2, started_at = now() WHERE id = $1`, id, StatusRunning)
	return err
}

func (s *Store) FinishRun(ctx context.Context, id, status string, details []byte, errMsg string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $2, details_json = $3, error = NULLIF($4, ''), completed_at = now()
    WHERE id = $1
  `, id, status, details, errMsg)
	return err
}

func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	return scanRun(s.DB.QueryRow(ctx, "SELECT "+runColumns+" FROM job_runs WHERE id = $1", id))
}

func scanRun(row pgx.Row) (Run, error) {
	var r Run
	var details []byte
	err := row.Scan(&r.ID, &r.Type, &r.Status, &r.RequestedBy, &details, &r.Error, &r.CreatedAt, &r.StartedAt, &r.CompletedAt)
	if querier.NotFound(err) {
		return Run{}, ErrRunNotFound
	}
	if len(details) > 0 {
		r.Details = details
	}
	return r, err
}
