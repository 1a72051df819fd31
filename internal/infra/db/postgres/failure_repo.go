package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/verilens/verilens/internal/domain/audit"
)

type FailureRepository struct{ db *sql.DB }

func NewFailureRepository(db *sql.DB) *FailureRepository {
	return &FailureRepository{db: db}
}

// Save inserts a pipeline failure record
func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO analysis_failures (tenant_id, job_id, phase, message, created_at)
VALUES ($1,$2,$3,$4,$5)
RETURNING id;`
	createdAt := f.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return r.db.QueryRowContext(ctx, q,
		stringOrDash(f.TenantID), f.JobID, f.Phase, f.Message, createdAt,
	).Scan(&f.ID)
}

// ListByJob returns failures for one job, newest first
func (r *FailureRepository) ListByJob(ctx context.Context, tenant string, jobID string, limit int) ([]*domain.Failure, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, job_id, phase, message, created_at
FROM analysis_failures
WHERE tenant_id=$1 AND job_id=$2
ORDER BY created_at DESC LIMIT $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, jobID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Failure
	for rows.Next() {
		var f domain.Failure
		if err := rows.Scan(&f.ID, &f.TenantID, &f.JobID, &f.Phase, &f.Message, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
