package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run is one row of provisioning history
type Run struct {
	ID          string
	Request     []byte
	Status      string
	FailedStep  pgtype.Text
	Result      []byte
	Error       pgtype.Text
	StartedAt   pgtype.Timestamptz
	CompletedAt pgtype.Timestamptz
}

// Queries wraps run-history SQL against a pgx pool
type Queries struct {
	pool *pgxpool.Pool
}

// New creates a Queries layer on top of pool
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

// CreateRunParams are the fields of the initial run record
type CreateRunParams struct {
	ID        string
	Request   []byte
	Status    string
	StartedAt pgtype.Timestamptz
}

// CreateRun inserts the initial run record
func (q *Queries) CreateRun(ctx context.Context, p CreateRunParams) error {
	_, err := q.pool.Exec(ctx,
		`INSERT INTO provisioning_runs (id, request, status, started_at)
		 VALUES ($1, $2, $3, $4)`,
		p.ID, p.Request, p.Status, p.StartedAt)
	return err
}

// FinishRunParams are the terminal fields of a run record
type FinishRunParams struct {
	ID          string
	Status      string
	FailedStep  pgtype.Text
	Result      []byte
	Error       pgtype.Text
	CompletedAt pgtype.Timestamptz
}

// FinishRun updates a run with its terminal state. Returns the number of
// rows updated so callers can insert first when the run was never recorded.
func (q *Queries) FinishRun(ctx context.Context, p FinishRunParams) (int64, error) {
	tag, err := q.pool.Exec(ctx,
		`UPDATE provisioning_runs
		 SET status = $2, failed_step = $3, result = $4, error = $5, completed_at = $6
		 WHERE id = $1`,
		p.ID, p.Status, p.FailedStep, p.Result, p.Error, p.CompletedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// GetRun returns a single run by ID
func (q *Queries) GetRun(ctx context.Context, id string) (Run, error) {
	var r Run
	err := q.pool.QueryRow(ctx,
		`SELECT id, request, status, failed_step, result, error, started_at, completed_at
		 FROM provisioning_runs WHERE id = $1`, id).
		Scan(&r.ID, &r.Request, &r.Status, &r.FailedStep, &r.Result, &r.Error, &r.StartedAt, &r.CompletedAt)
	return r, err
}

// ListRuns returns all runs, newest first
func (q *Queries) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT id, request, status, failed_step, result, error, started_at, completed_at
		 FROM provisioning_runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Request, &r.Status, &r.FailedStep, &r.Result, &r.Error, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
