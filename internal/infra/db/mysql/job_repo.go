package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/verilens/verilens/internal/domain/analysis"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Save insert/update Job record. The pipeline is the single writer per job
// id, so a plain upsert (last write wins) is safe without versioning.
func (r *JobRepository) Save(ctx context.Context, j *domain.Job) error {
	const q = `
INSERT INTO analysis_jobs
(id, tenant_id, file_name, file_type, size_bytes, status, progress,
 is_deepfake, confidence, explanation, result_json,
 artifact_url, media_info, duration_ms, created_at, updated_at, completed_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status), progress=VALUES(progress),
 is_deepfake=VALUES(is_deepfake), confidence=VALUES(confidence),
 explanation=VALUES(explanation), result_json=VALUES(result_json),
 artifact_url=VALUES(artifact_url), media_info=VALUES(media_info),
 duration_ms=VALUES(duration_ms), updated_at=VALUES(updated_at),
 completed_at=VALUES(completed_at);
`
	tenant := stringOrDash(j.TenantID)
	status := stringOrDash(string(j.Status))
	created := j.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	updated := j.UpdatedAt
	if updated.IsZero() {
		updated = created
	}

	resultJSON := sql.NullString{}
	if j.Result != nil {
		b, err := json.Marshal(j.Result)
		if err != nil {
			return err
		}
		resultJSON = sql.NullString{String: string(b), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, q,
		j.ID, tenant, j.FileName, j.FileType, j.SizeBytes, status, j.Progress,
		nullBool(j.IsDeepfake), nullFloat(j.Confidence), j.Explanation, resultJSON,
		j.ArtifactURL, j.MediaInfo, j.DurationMS, created, updated, nullTime(j.CompletedAt),
	)
	return err
}

const jobColumns = `id, tenant_id, file_name, file_type, size_bytes, status, progress,
       is_deepfake, confidence, explanation, result_json,
       artifact_url, media_info, duration_ms, created_at, updated_at, completed_at`

// Get by ID + Tenant
func (r *JobRepository) Get(ctx context.Context, tenant string, id domain.JobID) (*domain.Job, error) {
	const q = `
SELECT ` + jobColumns + `
FROM analysis_jobs
WHERE tenant_id=? AND id=? LIMIT 1;
`
	return scanJob(r.db.QueryRowContext(ctx, q, tenant, id))
}

// Latest jobs per tenant, most recent first
func (r *JobRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Job, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT ` + jobColumns + `
FROM analysis_jobs
WHERE tenant_id=? ORDER BY created_at DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// Summary counts outcomes since N days
func (r *JobRepository) Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const q = `
SELECT COUNT(*) AS total,
       COALESCE(SUM(CASE WHEN status='completed' AND is_deepfake=1 THEN 1 ELSE 0 END),0) AS deepfakes,
       COALESCE(SUM(CASE WHEN status='failed' THEN 1 ELSE 0 END),0) AS failed
FROM analysis_jobs
WHERE tenant_id=? AND created_at >= ?;
`
	var total, deepfakes, failed int
	if err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(&total, &deepfakes, &failed); err != nil {
		return 0, 0, 0, err
	}
	return total, deepfakes, failed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var j domain.Job
	var (
		isDeepfake  sql.NullBool
		confidence  sql.NullFloat64
		resultJSON  sql.NullString
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&j.ID, &j.TenantID, &j.FileName, &j.FileType, &j.SizeBytes, &j.Status, &j.Progress,
		&isDeepfake, &confidence, &j.Explanation, &resultJSON,
		&j.ArtifactURL, &j.MediaInfo, &j.DurationMS, &j.CreatedAt, &j.UpdatedAt, &completedAt,
	); err != nil {
		return nil, err
	}
	if isDeepfake.Valid {
		v := isDeepfake.Bool
		j.IsDeepfake = &v
	}
	if confidence.Valid {
		v := confidence.Float64
		j.Confidence = &v
	}
	if completedAt.Valid {
		v := completedAt.Time
		j.CompletedAt = &v
	}
	if resultJSON.Valid && resultJSON.String != "" {
		var res domain.ScoreResult
		if err := json.Unmarshal([]byte(resultJSON.String), &res); err == nil {
			j.Result = &res
		}
	}
	return &j, nil
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}
