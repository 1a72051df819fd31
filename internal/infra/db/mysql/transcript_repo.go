package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/verilens/verilens/internal/domain/ai"
)

type TranscriptRepository struct {
	db *sql.DB
}

func NewTranscriptRepository(db *sql.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Save inserts a raw model response record
func (r *TranscriptRepository) Save(ctx context.Context, t *domain.Transcript) error {
	const q = `
INSERT INTO model_transcripts
  (id, tenant_id, job_id, model, prompt, raw_text, created_at)
VALUES (?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  tenant_id=VALUES(tenant_id), job_id=VALUES(job_id), model=VALUES(model),
  prompt=VALUES(prompt), raw_text=VALUES(raw_text);
`
	tenant := stringOrDash(t.TenantID)
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, t.ID, tenant, t.JobID, t.Model, t.Prompt, t.RawText, createdAt)
	return err
}

// LatestByJob returns the newest transcript for a job
func (r *TranscriptRepository) LatestByJob(ctx context.Context, tenant string, jobID string) (*domain.Transcript, error) {
	const q = `
SELECT id, tenant_id, job_id, model, prompt, raw_text, created_at
FROM model_transcripts
WHERE tenant_id=? AND job_id=?
ORDER BY created_at DESC LIMIT 1;
`
	var t domain.Transcript
	if err := r.db.QueryRowContext(ctx, q, tenant, jobID).Scan(
		&t.ID, &t.TenantID, &t.JobID, &t.Model, &t.Prompt, &t.RawText, &t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
